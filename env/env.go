/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

/*
Package env implements the lexically-scoped variable environment
(spec.md §3 "Environment", §4.3). Where ecal's scope package uses a
single parent-linked scope per lookup, this implementation keeps a
flat stack of frames: lookup and assignment both scan top-to-bottom,
exactly as spec.md §4.3 specifies, and the bottom frame is the one
true global frame.
*/
package env

import (
	"github.com/krotik/common/errorutil"

	"github.com/krotik/luma/value"
)

/*
Frame is one level of the environment stack: a mapping from identifier
to value. Frames are shared by pointer so that closures which capture
a frame observe later mutations made through any other handle to the
same frame (spec.md §9).
*/
type Frame struct {
	vars map[string]value.Value
}

func newFrame() *Frame {
	return &Frame{vars: make(map[string]value.Value)}
}

/*
Environment is a non-empty stack of Frames. frames[0] is the global
frame and is never popped (spec.md §4.3 invariant).
*/
type Environment struct {
	frames []*Frame
}

/*
New creates a fresh Environment with just the global frame.
*/
func New() *Environment {
	return &Environment{frames: []*Frame{newFrame()}}
}

/*
PushFrame pushes a new local frame. Must be paired with PopFrame
(spec.md §4.3: "push_frame(), pop_frame() — scoped bracket; must
always pair").
*/
func (e *Environment) PushFrame() {
	e.frames = append(e.frames, newFrame())
}

/*
PopFrame pops the topmost local frame.
*/
func (e *Environment) PopFrame() {
	errorutil.AssertTrue(len(e.frames) > 1, "cannot pop the global frame")
	e.frames = e.frames[:len(e.frames)-1]
}

/*
Snapshot returns an Environment that shares every existing Frame by
pointer but has an independent frame stack, so that pushing/popping
frames on the original (or the snapshot) after this call does not
affect the other. Closures call this at creation time to capture
their defining environment (spec.md §9).
*/
func (e *Environment) Snapshot() *Environment {
	frames := make([]*Frame, len(e.frames))
	copy(frames, e.frames)
	return &Environment{frames: frames}
}

/*
DeclareLocal writes into the topmost frame unconditionally, shadowing
any outer binding of the same name (spec.md §4.3 "declare_local").
*/
func (e *Environment) DeclareLocal(name string, v value.Value) {
	e.frames[len(e.frames)-1].vars[name] = v
}

/*
Assign writes into the nearest enclosing frame that already contains
name; if no frame has it, it writes into the global frame (spec.md
§4.3 "assign").
*/
func (e *Environment) Assign(name string, v value.Value) {
	for i := len(e.frames) - 1; i >= 1; i-- {
		if _, ok := e.frames[i].vars[name]; ok {
			e.frames[i].vars[name] = v
			return
		}
	}
	e.frames[0].vars[name] = v
}

/*
Lookup returns the topmost occurrence of name, or value.Nil if absent
(spec.md §4.3 "lookup").
*/
func (e *Environment) Lookup(name string) value.Value {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i].vars[name]; ok {
			return v
		}
	}
	return value.Nil
}

/*
Global returns the environment's global frame, used by built-ins that
need direct access to top-level state (none of the core built-ins do,
but it keeps the contract available for embedders).
*/
func (e *Environment) Global() *Frame {
	return e.frames[0]
}
