package eval

import (
	"errors"
	"fmt"
	"regexp"
)

// Scenario-count bounds per category file.
const (
	minScenariosPerCategory = 5
	maxScenariosPerCategory = 8
)

var idSeqPattern = regexp.MustCompile(`^[0-9]{3}$`)

// ValidateFixtures checks the schema invariants of a full fixture set and
// returns all violations joined into one error. Schema violations fail
// validation up front, before any scenario executes.
//
// Enforced per fixture set: globally unique scenario ids. Enforced per
// category: 5 to 8 scenarios, ids of the form {category}-{3-digit sequence},
// non-empty description, spoken text and expected output, an audio reference
// of the form {category}/{3-digit}.wav, a similarity minimum in [0, 1] and at
// least one assertion. The dictionary-terms category additionally requires a
// non-empty per-scenario dictionary.
func ValidateFixtures(fixtures []CategoryFixture) error {
	var errs []error
	seen := make(map[string]string) // scenario id -> category

	for _, f := range fixtures {
		if !IsCategory(f.Category) {
			errs = append(errs, fmt.Errorf("%q is not a recognized category", f.Category))
			continue
		}
		if n := len(f.Scenarios); n < minScenariosPerCategory || n > maxScenariosPerCategory {
			errs = append(errs, fmt.Errorf("category %s has %d scenarios, want %d-%d",
				f.Category, n, minScenariosPerCategory, maxScenariosPerCategory))
		}

		for _, s := range f.Scenarios {
			if prev, dup := seen[s.ID]; dup {
				errs = append(errs, fmt.Errorf("scenario id %q in %s already used in %s", s.ID, f.Category, prev))
			} else {
				seen[s.ID] = f.Category
			}
			errs = append(errs, validateScenario(f.Category, s)...)
		}
	}

	return errors.Join(errs...)
}

func validateScenario(category string, s Scenario) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("scenario %s: %s", s.ID, fmt.Sprintf(format, args...)))
	}

	prefix := category + "-"
	if len(s.ID) != len(prefix)+3 || s.ID[:len(prefix)] != prefix || !idSeqPattern.MatchString(s.ID[len(prefix):]) {
		fail("id must match %s{3-digit sequence}", prefix)
	}
	if s.Description == "" {
		fail("description must not be empty")
	}
	if s.SpokenText == "" {
		fail("spokenText must not be empty")
	}
	if s.ExpectedOutput == "" {
		fail("expectedOutput must not be empty")
	}
	audioPrefix := category + "/"
	audioOK := len(s.AudioFile) == len(audioPrefix)+len("000.wav") &&
		s.AudioFile[:len(audioPrefix)] == audioPrefix &&
		idSeqPattern.MatchString(s.AudioFile[len(audioPrefix):len(audioPrefix)+3]) &&
		s.AudioFile[len(audioPrefix)+3:] == ".wav"
	if !audioOK {
		fail("audioFile must match %s{3-digit}.wav, got %q", audioPrefix, s.AudioFile)
	}
	if s.MinSimilarity < 0 || s.MinSimilarity > 1 {
		fail("minSimilarity %v outside [0, 1]", s.MinSimilarity)
	}
	if len(s.Assertions) == 0 {
		fail("at least one assertion is required")
	}
	for i, a := range s.Assertions {
		switch a.Kind {
		case MustContain, MustNotContain, MustMatchRegex, MustEndWith:
		default:
			fail("assertion %d has unknown kind %q", i, a.Kind)
		}
		if a.Value == "" {
			fail("assertion %d has empty value", i)
		}
	}
	if category == "dictionary-terms" && len(s.Dictionary) == 0 {
		fail("dictionary-terms scenarios require a non-empty dictionary")
	}

	return errs
}
