package analysis

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"resumematch-backend/internal/parse"
)

var actionVerbs = []string{
	"managed", "developed", "led", "created", "implemented", "designed",
	"built", "improved", "reduced", "increased", "achieved", "delivered",
}

// Percentages, dollar amounts, or "N+" style counts.
var metricsRe = regexp.MustCompile(`\d+%|\$\d+|\d+\+`)

type atsRule struct {
	penalty int
	check   func(*atsInput) (triggered bool, issue string)
}

type atsInput struct {
	text      string
	textLower string
	fileName  string
	wordCount int
	contact   parse.Contact
	sections  *parse.Sections
	verbs     []string
	metrics   bool
}

// Evaluated in order; every triggered rule appends its issue and deducts
// its penalty. Deductions are additive and the score floors at 0.
var atsRules = []atsRule{
	{15, func(in *atsInput) (bool, string) {
		lower := strings.ToLower(in.fileName)
		if strings.HasSuffix(lower, ".pdf") || strings.HasSuffix(lower, ".docx") {
			return false, ""
		}
		return true, "Use PDF or DOCX format for best ATS compatibility"
	}},
	{20, func(in *atsInput) (bool, string) {
		if in.wordCount >= 150 {
			return false, ""
		}
		return true, fmt.Sprintf("Resume too short (%d words). Aim for 400-800 words.", in.wordCount)
	}},
	{10, func(in *atsInput) (bool, string) {
		if in.wordCount <= 1200 {
			return false, ""
		}
		return true, fmt.Sprintf("Resume too long (%d words). Keep it under 800 words for 1 page.", in.wordCount)
	}},
	{15, func(in *atsInput) (bool, string) {
		if in.contact.Email != "" {
			return false, ""
		}
		return true, "No email found - ATS needs this"
	}},
	{10, func(in *atsInput) (bool, string) {
		if in.contact.Phone != "" {
			return false, ""
		}
		return true, "No phone number found"
	}},
	{10, sectionRule("experience")},
	{10, sectionRule("education")},
	{10, sectionRule("skills")},
	{10, func(in *atsInput) (bool, string) {
		if len(in.verbs) >= 3 {
			return false, ""
		}
		return true, "Add more action verbs (managed, developed, led, improved...)"
	}},
	{10, func(in *atsInput) (bool, string) {
		if in.metrics {
			return false, ""
		}
		return true, "Add quantified achievements (e.g., 'improved performance by 35%')"
	}},
}

func sectionRule(name string) func(*atsInput) (bool, string) {
	return func(in *atsInput) (bool, string) {
		if in.sections.Has(name) {
			return false, ""
		}
		return true, fmt.Sprintf("Missing '%s' section - most ATS look for this", capitalize(name))
	}
}

// CheckATS scores resume formatting for ATS compatibility. The filename is
// judged only by its extension.
func CheckATS(resumeText, fileName string) AtsReport {
	in := &atsInput{
		text:      resumeText,
		textLower: strings.ToLower(resumeText),
		fileName:  filepath.Base(fileName),
		wordCount: len(strings.Fields(resumeText)),
		contact:   parse.ExtractContact(resumeText),
		sections:  parse.Segment(resumeText),
		metrics:   metricsRe.MatchString(resumeText),
	}
	for _, verb := range actionVerbs {
		if strings.Contains(in.textLower, verb) {
			in.verbs = append(in.verbs, verb)
		}
	}

	score := 100
	issues := []string{}
	for _, rule := range atsRules {
		triggered, issue := rule.check(in)
		if !triggered {
			continue
		}
		score -= rule.penalty
		issues = append(issues, issue)
	}
	if score < 0 {
		score = 0
	}

	verbs := in.verbs
	if verbs == nil {
		verbs = []string{}
	}
	lower := strings.ToLower(in.fileName)

	return AtsReport{
		Score:            score,
		FileTypeOK:       strings.HasSuffix(lower, ".pdf") || strings.HasSuffix(lower, ".docx"),
		WordCount:        in.wordCount,
		Contact:          in.contact,
		SectionsFound:    in.sections.Names(),
		ActionVerbsFound: verbs,
		HasMetrics:       in.metrics,
		Issues:           issues,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
