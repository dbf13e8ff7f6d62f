package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"resumematch-backend/internal/llm"
)

// scriptedLLM answers per user prompt via a match function, so concurrent
// section rewrites can get section-specific responses.
type scriptedLLM struct {
	mu      sync.Mutex
	prompts []string
	respond func(userPrompt string) (string, error)
}

func (s *scriptedLLM) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	user := messages[len(messages)-1].Content
	s.mu.Lock()
	s.prompts = append(s.prompts, user)
	s.mu.Unlock()
	return s.respond(user)
}

func TestRewriteSectionPrompt(t *testing.T) {
	client := &scriptedLLM{respond: func(string) (string, error) { return "  Rewritten text.  ", nil }}
	svc := &Service{LLM: client}

	out, err := svc.RewriteSection(context.Background(), "summary", "Old summary.", "JD text", []string{"docker", "go"})
	if err != nil {
		t.Fatalf("RewriteSection: %v", err)
	}
	if out != "Rewritten text." {
		t.Fatalf("output = %q, want trimmed response", out)
	}

	prompt := client.prompts[0]
	if !strings.Contains(prompt, "SECTION: SUMMARY") {
		t.Fatalf("prompt missing upper-cased section name:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Old summary.") {
		t.Fatal("prompt missing original text")
	}
	if !strings.Contains(prompt, "docker, go") {
		t.Fatal("prompt missing comma-joined missing skills")
	}
}

func TestRewriteSectionNoMissingSkills(t *testing.T) {
	client := &scriptedLLM{respond: func(string) (string, error) { return "ok", nil }}
	svc := &Service{LLM: client}

	if _, err := svc.RewriteSection(context.Background(), "skills", "Go", "JD", nil); err != nil {
		t.Fatalf("RewriteSection: %v", err)
	}
	if !strings.Contains(client.prompts[0], "MISSING SKILLS TO INCORPORATE (if relevant): none") {
		t.Fatalf("prompt = %q, want literal none", client.prompts[0])
	}
}

func TestRewriteSectionTruncatesJD(t *testing.T) {
	client := &scriptedLLM{respond: func(string) (string, error) { return "ok", nil }}
	svc := &Service{LLM: client}

	longJD := strings.Repeat("j", 5000)
	if _, err := svc.RewriteSection(context.Background(), "summary", "text", longJD, nil); err != nil {
		t.Fatalf("RewriteSection: %v", err)
	}
	if strings.Contains(client.prompts[0], strings.Repeat("j", 2001)) {
		t.Fatal("jd not truncated to 2000 characters")
	}
}

func TestRewriteAllIsolatesFailures(t *testing.T) {
	client := &scriptedLLM{respond: func(userPrompt string) (string, error) {
		if strings.Contains(userPrompt, "SECTION: EXPERIENCE") {
			return "", errors.New("model unavailable")
		}
		return "rewritten", nil
	}}
	svc := &Service{LLM: client}

	sections := map[string]string{
		"summary":    "Old summary.",
		"experience": "Old experience.",
		"skills":     "Go, Docker",
		"education":  "B.S. Computer Science",
	}

	results := svc.RewriteAll(context.Background(), sections, "JD", []string{"kubernetes"})

	if results["summary"].Err != nil || results["summary"].Text != "rewritten" {
		t.Fatalf("summary = %+v", results["summary"])
	}
	if results["skills"].Err != nil || results["skills"].Text != "rewritten" {
		t.Fatalf("skills = %+v", results["skills"])
	}
	if results["experience"].Err == nil {
		t.Fatal("experience failure must be reported")
	}
	// Education is not eligible and passes through unchanged with no call.
	if results["education"].Text != "B.S. Computer Science" || results["education"].Err != nil {
		t.Fatalf("education = %+v, want passthrough", results["education"])
	}
}

func TestRewriteAllSkipsBlankSections(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	client := &scriptedLLM{respond: func(string) (string, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return "rewritten", nil
	}}
	svc := &Service{LLM: client}

	results := svc.RewriteAll(context.Background(), map[string]string{"summary": "   \n  "}, "JD", nil)

	if calls != 0 {
		t.Fatalf("calls = %d, blank sections must not reach the model", calls)
	}
	if results["summary"].Text != "   \n  " {
		t.Fatalf("summary = %+v, want passthrough", results["summary"])
	}
}

func TestRewriteAllManyPassthroughSections(t *testing.T) {
	client := &scriptedLLM{respond: func(string) (string, error) { return "rewritten", nil }}
	svc := &Service{LLM: client}

	sections := map[string]string{
		"summary":    "Old summary.",
		"experience": "Old experience.",
		"skills":     "Go, Docker",
		"projects":   "Side project.",
	}
	for i := 0; i < 40; i++ {
		sections[fmt.Sprintf("extra-%02d", i)] = "kept as-is"
	}

	// Pass-through writes interleave with in-flight rewrite goroutines;
	// repeat to give the scheduler chances to overlap them.
	for iter := 0; iter < 50; iter++ {
		results := svc.RewriteAll(context.Background(), sections, "JD", nil)
		if len(results) != len(sections) {
			t.Fatalf("iteration %d: results = %d entries, want %d", iter, len(results), len(sections))
		}
		for name := range sections {
			if rewritableSections[name] {
				if results[name].Text != "rewritten" || results[name].Err != nil {
					t.Fatalf("iteration %d: %s = %+v", iter, name, results[name])
				}
			} else if results[name].Text != "kept as-is" {
				t.Fatalf("iteration %d: %s = %+v, want passthrough", iter, name, results[name])
			}
		}
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	in := strings.Repeat("日", 1000)

	got := truncate(in, jdTruncateLen)
	if len(got) > jdTruncateLen {
		t.Fatalf("length = %d, want at most %d", len(got), jdTruncateLen)
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a rune")
	}
	if len(got) != 1998 {
		t.Fatalf("length = %d, want 1998 (last whole rune before the cut)", len(got))
	}
}

func TestGenerateSummaryTruncatesInputs(t *testing.T) {
	client := &scriptedLLM{respond: func(string) (string, error) { return " A tailored summary. ", nil }}
	svc := &Service{LLM: client}

	longResume := strings.Repeat("r", 5000)
	longJD := strings.Repeat("j", 5000)
	out, err := svc.GenerateSummary(context.Background(), longResume, longJD)
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if out != "A tailored summary." {
		t.Fatalf("output = %q", out)
	}
	prompt := client.prompts[0]
	if strings.Contains(prompt, strings.Repeat("r", 2001)) {
		t.Fatal("resume not truncated to 2000 characters")
	}
	if strings.Contains(prompt, strings.Repeat("j", 1501)) {
		t.Fatal("jd not truncated to 1500 characters")
	}
}
