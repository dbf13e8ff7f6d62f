package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"resumematch-backend/internal/llm"
	"resumematch-backend/internal/shared/metrics"
)

const promptTruncateLen = 3000

// Assessment is the model's qualitative judgment. It is either fully
// populated from a parsed response or entirely replaced by the fallback.
type Assessment struct {
	ExperienceScore    int      `json:"experience_relevance_score"`
	ExperienceAnalysis string   `json:"experience_analysis"`
	EducationScore     int      `json:"education_score"`
	EducationAnalysis  string   `json:"education_analysis"`
	OverallFit         string   `json:"overall_fit"`
	Suggestions        []string `json:"top_suggestions"`
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
}

const assessSystemPrompt = "You are an ATS resume expert. Output ONLY valid JSON."

const assessPromptTemplate = `You are an expert ATS resume analyzer. Analyze this resume against the job description.

JOB DESCRIPTION:
%s

RESUME:
%s

Provide a JSON response with EXACTLY this structure (no markdown, just raw JSON):
{
    "experience_relevance_score": <0-100>,
    "experience_analysis": "<brief analysis>",
    "education_score": <0-100>,
    "education_analysis": "<brief analysis>",
    "overall_fit": "<1-2 sentence summary>",
    "top_suggestions": [
        "<suggestion 1>",
        "<suggestion 2>",
        "<suggestion 3>",
        "<suggestion 4>",
        "<suggestion 5>"
    ],
    "strengths": [
        "<strength 1>",
        "<strength 2>",
        "<strength 3>"
    ],
    "weaknesses": [
        "<weakness 1>",
        "<weakness 2>",
        "<weakness 3>"
    ]
}

Output ONLY valid JSON. No explanation, no markdown.`

// Assess runs the model's qualitative analysis of a resume against a JD.
// Invocation failures propagate; a response that does not parse never
// errors, it yields the fixed fallback Assessment instead.
func Assess(ctx context.Context, client llm.Client, resumeText, jdText string) (Assessment, error) {
	prompt := fmt.Sprintf(assessPromptTemplate, truncate(jdText, promptTruncateLen), truncate(resumeText, promptTruncateLen))

	raw, err := client.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: assessSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return Assessment{}, err
	}

	assessment, ok := ParseAssessment(raw)
	if !ok {
		metrics.IncLLMFallback()
	}
	return assessment, nil
}

// ParseAssessment parses a model response into an Assessment. Fenced code
// blocks (with an optional "json" tag) are unwrapped first. The boolean
// reports whether the response parsed; on false the fixed fallback is
// returned and the pipeline carries on.
func ParseAssessment(raw string) (Assessment, bool) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		parts := strings.Split(text, "```")
		text = parts[1]
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSpace(text)

	var parsed struct {
		ExperienceScore    *int     `json:"experience_relevance_score"`
		ExperienceAnalysis string   `json:"experience_analysis"`
		EducationScore     *int     `json:"education_score"`
		EducationAnalysis  string   `json:"education_analysis"`
		OverallFit         string   `json:"overall_fit"`
		Suggestions        []string `json:"top_suggestions"`
		Strengths          []string `json:"strengths"`
		Weaknesses         []string `json:"weaknesses"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return fallbackAssessment(raw), false
	}

	return Assessment{
		ExperienceScore:    clampScore(scoreOrDefault(parsed.ExperienceScore)),
		ExperienceAnalysis: parsed.ExperienceAnalysis,
		EducationScore:     clampScore(scoreOrDefault(parsed.EducationScore)),
		EducationAnalysis:  parsed.EducationAnalysis,
		OverallFit:         parsed.OverallFit,
		Suggestions:        orEmpty(parsed.Suggestions),
		Strengths:          orEmpty(parsed.Strengths),
		Weaknesses:         orEmpty(parsed.Weaknesses),
	}, true
}

// fallbackAssessment is the fixed value set used when the model response
// does not parse. The raw response survives, truncated, as overall_fit.
func fallbackAssessment(raw string) Assessment {
	return Assessment{
		ExperienceScore:    50,
		ExperienceAnalysis: "Could not analyze - try again",
		EducationScore:     50,
		EducationAnalysis:  "Could not analyze",
		OverallFit:         truncate(raw, 200),
		Suggestions:        []string{"Ensure resume matches job keywords"},
		Strengths:          []string{"Resume submitted for analysis"},
		Weaknesses:         []string{"Analysis incomplete - try again"},
	}
}

func scoreOrDefault(score *int) int {
	if score == nil {
		return 50
	}
	return *score
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
