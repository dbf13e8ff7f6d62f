package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"resumematch-backend/internal/llm"
	"resumematch-backend/internal/shared/metrics"
)

// ErrNoSections is returned when an analysis has no parsed sections to
// rewrite. The caller can still show deterministic results, but section
// rewriting is unavailable.
var ErrNoSections = errors.New("no resume sections to rewrite")

// Sections eligible for rewriting. Everything else passes through unchanged.
var rewritableSections = map[string]bool{
	"summary":    true,
	"experience": true,
	"skills":     true,
	"projects":   true,
}

const (
	jdTruncateLen      = 2000
	summaryResumeLen   = 2000
	summaryJdLen       = 1500
	rewriteSystemMsg   = "You are a professional resume writer. Rewrite sections to be ATS-optimized while keeping all information truthful."
	summarySystemMsg   = "You write concise, ATS-optimized professional summaries."
	rewritePromptTmpl  = `You are an expert resume writer and ATS optimizer. Rewrite this resume section to better match the job description.

SECTION: %s
ORIGINAL TEXT:
%s

JOB DESCRIPTION (key parts):
%s

MISSING SKILLS TO INCORPORATE (if relevant): %s

RULES:
1. Keep all REAL information - do NOT fabricate experience or skills
2. Add missing keywords NATURALLY where truthful
3. Use strong action verbs (Led, Developed, Implemented, Achieved)
4. Quantify achievements where possible (%%, $, numbers)
5. Keep it concise - ATS prefers clear, scannable text
6. Match the tone and terminology of the job description
7. Do NOT add skills the person clearly doesn't have

Output ONLY the rewritten section text. No explanations.`
	summaryPromptTmpl = `Write a professional summary (3-4 sentences) for this person's resume, tailored to this job.

RESUME:
%s

JOB DESCRIPTION:
%s

RULES:
- 3-4 sentences max
- Include relevant keywords from the JD
- Highlight most relevant experience
- Use strong, professional language
- Be truthful - only mention skills/experience that exist in the resume

Output ONLY the summary. No explanations.`
)

// Service rewrites resume sections and generates summaries through the
// model client. Stateless apart from its dependencies.
type Service struct {
	LLM llm.Client
}

// SectionResult holds the outcome of one section rewrite. Err is set when
// that section's model call failed; sibling sections are unaffected.
type SectionResult struct {
	Text string
	Err  error
}

// RewriteSection rewrites one section with a single blocking model call.
func (s *Service) RewriteSection(ctx context.Context, name, originalText, jdText string, missingSkills []string) (string, error) {
	if s.LLM == nil {
		return "", errors.New("missing llm client")
	}

	missing := "none"
	if len(missingSkills) > 0 {
		missing = strings.Join(missingSkills, ", ")
	}
	prompt := fmt.Sprintf(rewritePromptTmpl,
		strings.ToUpper(name),
		originalText,
		truncate(jdText, jdTruncateLen),
		missing,
	)

	metrics.IncRewriteSection()
	out, err := s.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: rewriteSystemMsg},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		metrics.IncRewriteFailed()
		return "", fmt.Errorf("rewrite %s: %w", name, err)
	}
	return strings.TrimSpace(out), nil
}

// RewriteAll rewrites every eligible non-empty section concurrently and
// passes the rest through unchanged. Each section's model call is
// independent; one failure never aborts or discards its siblings.
func (s *Service) RewriteAll(ctx context.Context, sections map[string]string, jdText string, missingSkills []string) map[string]SectionResult {
	results := make(map[string]SectionResult, len(sections))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, text := range sections {
		if !rewritableSections[name] || strings.TrimSpace(text) == "" {
			mu.Lock()
			results[name] = SectionResult{Text: text}
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(name, text string) {
			defer wg.Done()
			out, err := s.RewriteSection(ctx, name, text, jdText, missingSkills)
			mu.Lock()
			results[name] = SectionResult{Text: out, Err: err}
			mu.Unlock()
		}(name, text)
	}
	wg.Wait()
	return results
}

// GenerateSummary produces a short professional summary tailored to the JD.
func (s *Service) GenerateSummary(ctx context.Context, resumeText, jdText string) (string, error) {
	if s.LLM == nil {
		return "", errors.New("missing llm client")
	}

	prompt := fmt.Sprintf(summaryPromptTmpl,
		truncate(resumeText, summaryResumeLen),
		truncate(jdText, summaryJdLen),
	)

	out, err := s.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: summarySystemMsg},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return strings.TrimSpace(out), nil
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
