package eval

import (
	"testing"
	"time"
)

func TestStore_WriteAndReadAll(t *testing.T) {
	store := &Store{Dir: t.TempDir()}

	written := []CategoryResult{
		{
			Category:  "false-starts",
			Mode:      ModeLLMOnly,
			Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			Scenarios: []ScenarioResult{{ID: "false-starts-001", Passed: true, Similarity: 0.97, MinSimilarity: 0.85}},
		},
		{
			Category:  "filler-removal",
			Mode:      ModeLLMOnly,
			Timestamp: time.Date(2026, 8, 30, 12, 0, 1, 0, time.UTC),
			Scenarios: []ScenarioResult{{ID: "filler-removal-001", Expected: "a", Actual: "b", MinSimilarity: 0.85}},
		},
	}
	for _, res := range written {
		if err := store.WriteCategory(res); err != nil {
			t.Fatalf("WriteCategory(%s): %v", res.Category, err)
		}
	}

	got, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	// ReadAll follows category declaration order, filler-removal first.
	if got[0].Category != "filler-removal" || got[1].Category != "false-starts" {
		t.Errorf("categories = %s, %s", got[0].Category, got[1].Category)
	}
	if !got[1].Timestamp.Equal(written[0].Timestamp) {
		t.Errorf("timestamp = %v, want %v", got[1].Timestamp, written[0].Timestamp)
	}
	if got[0].Scenarios[0].ID != "filler-removal-001" || got[0].Scenarios[0].Passed {
		t.Errorf("scenario roundtrip mismatch: %+v", got[0].Scenarios[0])
	}
}

func TestStore_ReadAll_EmptyDir(t *testing.T) {
	store := &Store{Dir: t.TempDir()}
	got, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d results from empty dir", len(got))
	}
}
