package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"resumematch-backend/internal/llm"
)

type staticLLM struct {
	response string
	err      error
	messages []llm.Message
}

func (s *staticLLM) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	s.messages = messages
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const validAssessmentJSON = `{
	"experience_relevance_score": 70,
	"experience_analysis": "Solid backend background",
	"education_score": 85,
	"education_analysis": "Degree matches",
	"overall_fit": "Good fit overall",
	"top_suggestions": ["Add docker", "Quantify wins"],
	"strengths": ["APIs"],
	"weaknesses": ["No kubernetes"]
}`

func TestParseAssessmentFencedJSON(t *testing.T) {
	raw := "```json\n" + validAssessmentJSON + "\n```"

	assessment, ok := ParseAssessment(raw)
	if !ok {
		t.Fatal("expected fenced JSON to parse")
	}
	if assessment.ExperienceScore != 70 {
		t.Fatalf("experience score = %d, want 70", assessment.ExperienceScore)
	}
	if assessment.EducationScore != 85 {
		t.Fatalf("education score = %d, want 85", assessment.EducationScore)
	}
	if len(assessment.Suggestions) != 2 {
		t.Fatalf("suggestions = %v", assessment.Suggestions)
	}
}

func TestParseAssessmentBareJSON(t *testing.T) {
	if _, ok := ParseAssessment(validAssessmentJSON); !ok {
		t.Fatal("expected bare JSON to parse")
	}
}

func TestParseAssessmentFallback(t *testing.T) {
	raw := "not json at all"

	assessment, ok := ParseAssessment(raw)
	if ok {
		t.Fatal("expected parse failure")
	}
	if assessment.ExperienceScore != 50 || assessment.EducationScore != 50 {
		t.Fatalf("fallback scores = %d/%d, want 50/50", assessment.ExperienceScore, assessment.EducationScore)
	}
	if assessment.OverallFit != raw {
		t.Fatalf("overall fit = %q, want raw response", assessment.OverallFit)
	}
	foundIncomplete := false
	for _, w := range assessment.Weaknesses {
		if strings.Contains(strings.ToLower(w), "analysis incomplete") {
			foundIncomplete = true
		}
	}
	if !foundIncomplete {
		t.Fatalf("weaknesses = %v, want an analysis-incomplete signal", assessment.Weaknesses)
	}
}

func TestParseAssessmentFallbackTruncatesFit(t *testing.T) {
	raw := strings.Repeat("x", 500)
	assessment, _ := ParseAssessment(raw)
	if len(assessment.OverallFit) != 200 {
		t.Fatalf("overall fit length = %d, want 200", len(assessment.OverallFit))
	}
}

func TestParseAssessmentFallbackFitKeepsRuneBoundary(t *testing.T) {
	raw := strings.Repeat("日", 100)

	assessment, _ := ParseAssessment(raw)
	if len(assessment.OverallFit) > 200 {
		t.Fatalf("overall fit length = %d, want at most 200", len(assessment.OverallFit))
	}
	if !utf8.ValidString(assessment.OverallFit) {
		t.Fatal("truncation split a rune")
	}
	if len(assessment.OverallFit) != 198 {
		t.Fatalf("overall fit length = %d, want 198 (last whole rune before the cut)", len(assessment.OverallFit))
	}
}

func TestParseAssessmentMissingScoresDefaultTo50(t *testing.T) {
	assessment, ok := ParseAssessment(`{"overall_fit": "ok"}`)
	if !ok {
		t.Fatal("expected valid JSON to parse")
	}
	if assessment.ExperienceScore != 50 || assessment.EducationScore != 50 {
		t.Fatalf("scores = %d/%d, want neutral 50s", assessment.ExperienceScore, assessment.EducationScore)
	}
	if assessment.Suggestions == nil || assessment.Strengths == nil || assessment.Weaknesses == nil {
		t.Fatal("list fields must be empty slices, not nil")
	}
}

func TestAssessTruncatesPromptInputs(t *testing.T) {
	client := &staticLLM{response: validAssessmentJSON}
	longResume := strings.Repeat("r", 5000)
	longJD := strings.Repeat("j", 5000)

	if _, err := Assess(context.Background(), client, longResume, longJD); err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if len(client.messages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(client.messages))
	}
	userPrompt := client.messages[1].Content
	if strings.Contains(userPrompt, strings.Repeat("r", 3001)) {
		t.Fatal("resume not truncated to 3000 characters")
	}
	if strings.Contains(userPrompt, strings.Repeat("j", 3001)) {
		t.Fatal("jd not truncated to 3000 characters")
	}
}

func TestAssessPropagatesInvocationFailure(t *testing.T) {
	client := &staticLLM{err: errors.New("connection refused")}
	if _, err := Assess(context.Background(), client, "resume", "jd"); err == nil {
		t.Fatal("expected invocation error to propagate")
	}
}
