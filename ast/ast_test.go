/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

package ast

import (
	"testing"

	"github.com/krotik/luma/token"
)

func TestBaseSlice(t *testing.T) {
	n := &NumberExp{Base: Base{S: token.SourceSlice{Line: 3}}, Val: 1}
	if n.Slice().Line != 3 {
		t.Errorf("got %+v", n.Slice())
	}
}

func TestBlockAllStatsWithoutLast(t *testing.T) {
	b := &Block{Stats: []Stat{&BreakStat{}}}
	if len(b.AllStats()) != 1 {
		t.Errorf("got %d", len(b.AllStats()))
	}
}

func TestBlockAllStatsWithLast(t *testing.T) {
	b := &Block{
		Stats: []Stat{&LocalAssignStat{Names: []string{"x"}}},
		Last:  &ReturnStat{Values: []Exp{&NilExp{}}},
	}
	all := b.AllStats()
	if len(all) != 2 {
		t.Fatalf("got %d statements", len(all))
	}
	if _, ok := all[1].(*ReturnStat); !ok {
		t.Errorf("expected the terminal statement last, got %T", all[1])
	}
}
