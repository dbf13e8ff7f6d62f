package analysis

import (
	"testing"

	"resumematch-backend/internal/parse"
)

func TestMatchKeywordsPartition(t *testing.T) {
	keywords := parse.JdKeywords{
		HardSkills: []string{"docker", "kubernetes", "terraform", "go"},
		SoftSkills: []string{"communication", "leadership"},
	}
	resume := "Ran Docker and Kubernetes clusters. Strong communication with partners."

	hard, soft := MatchKeywords(resume, keywords)

	if got := len(hard.Found) + len(hard.Missing); got != len(keywords.HardSkills) {
		t.Fatalf("hard partition covers %d of %d skills", got, len(keywords.HardSkills))
	}
	seen := map[string]bool{}
	for _, skill := range append(append([]string{}, hard.Found...), hard.Missing...) {
		if seen[skill] {
			t.Fatalf("skill %q appears in both found and missing", skill)
		}
		seen[skill] = true
	}

	if hard.Score != 50 {
		t.Fatalf("hard score = %d, want 50 (2 of 4)", hard.Score)
	}
	if soft.Score != 50 {
		t.Fatalf("soft score = %d, want 50 (1 of 2)", soft.Score)
	}
}

func TestMatchKeywordsEmptyCategories(t *testing.T) {
	hard, soft := MatchKeywords("anything", parse.JdKeywords{})
	if hard.Score != 0 || soft.Score != 0 {
		t.Fatalf("empty categories must score 0, got hard=%d soft=%d", hard.Score, soft.Score)
	}
	if hard.Found == nil || hard.Missing == nil {
		t.Fatal("found/missing must be empty slices, not nil")
	}
}

func TestMatchKeywordsWholeWordHardSkills(t *testing.T) {
	keywords := parse.JdKeywords{HardSkills: []string{"go"}}
	hard, _ := MatchKeywords("I am going to Google", keywords)
	if len(hard.Found) != 0 {
		t.Fatalf("'go' must not match inside 'going': %v", hard.Found)
	}
}
