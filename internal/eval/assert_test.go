package eval

import (
	"strings"
	"testing"
)

func TestEvaluate(t *testing.T) {
	const output = "Please review the budget proposal. It is due on March 3, 2026."

	tests := []struct {
		name      string
		assertion Assertion
		wantOK    bool
		wantInMsg string
	}{
		{"contains pass", Assertion{MustContain, "budget proposal"}, true, "Contains"},
		{"contains fail", Assertion{MustContain, "invoice"}, false, `Missing "invoice"`},
		{"not contains pass", Assertion{MustNotContain, "um"}, true, "Does not contain"},
		{"not contains fail", Assertion{MustNotContain, "budget"}, false, `Unexpected "budget"`},
		{"regex pass", Assertion{MustMatchRegex, `March \d+, \d{4}`}, true, "Matches pattern"},
		{"regex fail", Assertion{MustMatchRegex, `^It`}, false, "does not match"},
		{"regex invalid", Assertion{MustMatchRegex, `([`}, false, "Invalid pattern"},
		{"ends with pass", Assertion{MustEndWith, "2026."}, true, "Ends with"},
		{"ends with fail", Assertion{MustEndWith, "proposal."}, false, "does not end with"},
		{"unknown kind", Assertion{"must-rhyme", "x"}, false, "Unknown assertion kind"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, msg := Evaluate(tc.assertion, output)
			if ok != tc.wantOK {
				t.Errorf("ok = %v, want %v (msg: %s)", ok, tc.wantOK, msg)
			}
			if !strings.Contains(msg, tc.wantInMsg) {
				t.Errorf("message %q does not contain %q", msg, tc.wantInMsg)
			}
		})
	}
}

func TestFailedAssertions(t *testing.T) {
	assertions := []Assertion{
		{MustContain, "hello"},
		{MustNotContain, "world"},
		{MustEndWith, "!"},
	}
	failed := FailedAssertions(assertions, "hello world")
	if len(failed) != 2 {
		t.Fatalf("got %d failed assertions, want 2: %v", len(failed), failed)
	}

	if failed := FailedAssertions(assertions, "hello there!"); len(failed) != 0 {
		t.Errorf("got failures for passing output: %v", failed)
	}
}
