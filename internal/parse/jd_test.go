package parse

import (
	"reflect"
	"testing"
)

func TestExtractJdKeywords(t *testing.T) {
	jd := "We need a backend engineer. 5+ years of experience with Go, Docker " +
		"and Kubernetes. Strong communication and collaboration. " +
		"Bachelor's degree required."

	got := ExtractJdKeywords(jd)

	wantHard := []string{"docker", "kubernetes", "go"}
	if !reflect.DeepEqual(got.HardSkills, wantHard) {
		t.Fatalf("hard skills = %v, want %v (vocabulary order)", got.HardSkills, wantHard)
	}
	wantSoft := []string{"communication", "collaboration"}
	if !reflect.DeepEqual(got.SoftSkills, wantSoft) {
		t.Fatalf("soft skills = %v, want %v", got.SoftSkills, wantSoft)
	}
	if got.MinYears != 5 {
		t.Fatalf("min years = %d, want 5", got.MinYears)
	}
	foundBachelor := false
	for _, level := range got.Education {
		if level == "Bachelor's" {
			foundBachelor = true
		}
	}
	if !foundBachelor {
		t.Fatalf("education = %v, want it to contain Bachelor's", got.Education)
	}
}

func TestExtractJdKeywordsWholeWordOnly(t *testing.T) {
	// "interested" contains "rest" but not as a whole word.
	got := ExtractJdKeywords("We are interested in candidates.")
	if len(got.HardSkills) != 0 {
		t.Fatalf("hard skills = %v, want none", got.HardSkills)
	}
}

func TestExtractJdKeywordsEmpty(t *testing.T) {
	got := ExtractJdKeywords("")
	if len(got.HardSkills) != 0 || len(got.SoftSkills) != 0 || got.MinYears != 0 || len(got.Education) != 0 {
		t.Fatalf("expected zero-value extraction, got %+v", got)
	}
}
