package testutil

import (
	"errors"
	"fmt"
	"testing"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		args []any
		want string
	}{
		{nil, ""},
		{[]any{"move"}, "move: "},
		{[]any{"ply %d", 3}, "ply 3: "},
		{[]any{42}, "42: "},
	}
	for _, tt := range tests {
		if got := prefix(tt.args...); got != tt.want {
			t.Errorf("prefix(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestIsNil(t *testing.T) {
	var p *int
	var s []int
	if !isNil(nil) || !isNil(p) || !isNil(s) {
		t.Error("nil values not detected")
	}
	if isNil(0) || isNil("") || isNil(&struct{}{}) {
		t.Error("non-nil value reported nil")
	}
}

func TestAssertHelpersPass(t *testing.T) {
	base := errors.New("base")
	AssertEqual(t, []int{1, 2}, []int{1, 2})
	AssertNoError(t, nil)
	AssertErrorIs(t, fmt.Errorf("wrapped: %w", base), base)
	AssertContains(t, "0 r n b", "r n")
	AssertTrue(t, true)
	AssertFalse(t, false)
	AssertNil(t, (*int)(nil))
	AssertNotNil(t, &struct{}{})
}
