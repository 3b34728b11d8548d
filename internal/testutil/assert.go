// Package testutil holds assertion helpers shared by the package tests.
package testutil

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// AssertEqual reports a cmp.Diff between want and got. Extra options are
// passed through to cmp, a leading string in msgAndArgs labels the failure.
func AssertEqual(t *testing.T, got, want any, msgAndArgs ...any) {
	t.Helper()
	AssertEqualOpts(t, got, want, nil, msgAndArgs...)
}

func AssertEqualOpts(t *testing.T, got, want any, opts []cmp.Option, msgAndArgs ...any) {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("%smismatch (-want +got):\n%s", prefix(msgAndArgs...), diff)
	}
}

func AssertNoError(t *testing.T, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		t.Fatalf("%sunexpected error: %v", prefix(msgAndArgs...), err)
	}
}

// AssertErrorIs fails unless errors.Is(err, target)
func AssertErrorIs(t *testing.T, err, target error, msgAndArgs ...any) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("%sgot error %v, want %v", prefix(msgAndArgs...), err, target)
	}
}

func AssertContains(t *testing.T, got, substr string, msgAndArgs ...any) {
	t.Helper()
	if !strings.Contains(got, substr) {
		t.Errorf("%s%q does not contain %q", prefix(msgAndArgs...), got, substr)
	}
}

func AssertTrue(t *testing.T, cond bool, msgAndArgs ...any) {
	t.Helper()
	if !cond {
		t.Errorf("%sexpected true", prefix(msgAndArgs...))
	}
}

func AssertFalse(t *testing.T, cond bool, msgAndArgs ...any) {
	t.Helper()
	if cond {
		t.Errorf("%sexpected false", prefix(msgAndArgs...))
	}
}

// AssertNil also catches typed nil pointers wrapped in an interface
func AssertNil(t *testing.T, got any, msgAndArgs ...any) {
	t.Helper()
	if !isNil(got) {
		t.Errorf("%sexpected nil, got %v", prefix(msgAndArgs...), got)
	}
}

func AssertNotNil(t *testing.T, got any, msgAndArgs ...any) {
	t.Helper()
	if isNil(got) {
		t.Fatalf("%sexpected non-nil value", prefix(msgAndArgs...))
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func prefix(msgAndArgs ...any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	s, ok := msgAndArgs[0].(string)
	if !ok {
		return fmt.Sprintf("%v: ", msgAndArgs[0])
	}
	if len(msgAndArgs) > 1 {
		s = fmt.Sprintf(s, msgAndArgs[1:]...)
	}
	return s + ": "
}
