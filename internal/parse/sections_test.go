package parse

import (
	"reflect"
	"strings"
	"testing"
)

func TestSegmentBasicResume(t *testing.T) {
	text := strings.Join([]string{
		"John Doe",
		"john@example.com",
		"Summary",
		"Seasoned backend developer focused on reliability.",
		"Experience",
		"Acme Corp, Senior Engineer",
		"Built APIs.",
		"Education",
		"B.S. Computer Science",
		"Skills",
		"Go, Python, Docker",
	}, "\n")

	sections := Segment(text)

	wantOrder := []string{"header", "summary", "experience", "education", "skills"}
	if got := sections.Names(); !reflect.DeepEqual(got, wantOrder) {
		t.Fatalf("section order = %v, want %v", got, wantOrder)
	}

	header, _ := sections.Get("header")
	if header != "John Doe\njohn@example.com" {
		t.Fatalf("header = %q", header)
	}

	exp, ok := sections.Get("experience")
	if !ok || !strings.Contains(exp, "Built APIs.") {
		t.Fatalf("experience = %q, ok=%v", exp, ok)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n"} {
		if got := Segment(text); got.Len() != 0 {
			t.Fatalf("Segment(%q).Len() = %d, want 0", text, got.Len())
		}
	}
}

func TestSegmentTieBreakFirstPatternWins(t *testing.T) {
	// Line matches both the experience and skills patterns; experience is
	// declared first and must win.
	text := "Skills and Experience\nShipped software.\n"
	sections := Segment(text)

	if _, ok := sections.Get("experience"); !ok {
		t.Fatalf("expected experience section, got %v", sections.Names())
	}
	if _, ok := sections.Get("skills"); ok {
		t.Fatal("skills section should not exist")
	}
}

func TestSegmentLongLineIsNotHeader(t *testing.T) {
	long := "I have extensive experience building distributed systems at scale over many years"
	text := "Intro\n" + long + "\n"
	sections := Segment(text)

	if _, ok := sections.Get("experience"); ok {
		t.Fatal("long line must not be treated as a header")
	}
	header, _ := sections.Get("header")
	if !strings.Contains(header, long) {
		t.Fatalf("long line should stay in header body, got %q", header)
	}
}

func TestSegmentRepeatedHeaderKeepsPosition(t *testing.T) {
	text := "Experience\nFirst stint.\nSkills\nGo\nExperience\nSecond stint.\n"
	sections := Segment(text)

	wantOrder := []string{"experience", "skills"}
	if got := sections.Names(); !reflect.DeepEqual(got, wantOrder) {
		t.Fatalf("section order = %v, want %v", got, wantOrder)
	}
	exp, _ := sections.Get("experience")
	if exp != "Second stint." {
		t.Fatalf("experience = %q, want last block", exp)
	}
}
