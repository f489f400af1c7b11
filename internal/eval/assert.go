package eval

import (
	"fmt"
	"regexp"
	"strings"
)

// Evaluate runs one assertion against the corrected output. It returns
// whether the predicate holds plus a human-readable message describing the
// outcome, suitable for inclusion in reports.
func Evaluate(a Assertion, output string) (ok bool, message string) {
	switch a.Kind {
	case MustContain:
		if strings.Contains(output, a.Value) {
			return true, fmt.Sprintf("Contains %q", a.Value)
		}
		return false, fmt.Sprintf("Missing %q in output", a.Value)

	case MustNotContain:
		if !strings.Contains(output, a.Value) {
			return true, fmt.Sprintf("Does not contain %q", a.Value)
		}
		return false, fmt.Sprintf("Unexpected %q in output", a.Value)

	case MustMatchRegex:
		re, err := regexp.Compile(a.Value)
		if err != nil {
			return false, fmt.Sprintf("Invalid pattern %q: %v", a.Value, err)
		}
		if re.MatchString(output) {
			return true, fmt.Sprintf("Matches pattern %q", a.Value)
		}
		return false, fmt.Sprintf("Output does not match pattern %q", a.Value)

	case MustEndWith:
		if strings.HasSuffix(output, a.Value) {
			return true, fmt.Sprintf("Ends with %q", a.Value)
		}
		return false, fmt.Sprintf("Output does not end with %q", a.Value)

	default:
		return false, fmt.Sprintf("Unknown assertion kind %q", a.Kind)
	}
}

// FailedAssertions evaluates all assertions and returns the messages of the
// failing ones. An empty result means every assertion passed.
func FailedAssertions(assertions []Assertion, output string) []string {
	var failed []string
	for _, a := range assertions {
		if ok, msg := Evaluate(a, output); !ok {
			failed = append(failed, msg)
		}
	}
	return failed
}
