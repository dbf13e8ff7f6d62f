package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// JdKeywords holds the structured requirements extracted from a job description.
type JdKeywords struct {
	HardSkills []string `json:"hard_skills"`
	SoftSkills []string `json:"soft_skills"`
	MinYears   int      `json:"min_years"`
	Education  []string `json:"education"`
}

// hardSkillVocab is the technology vocabulary scanned against JDs and
// resumes. Order matters: extraction results list skills in vocabulary order.
var hardSkillVocab = []string{
	"python", "java", "javascript", "typescript", "react", "angular", "vue",
	"node", "express", "django", "flask", "fastapi", "spring", "docker",
	"kubernetes", "aws", "azure", "gcp", "sql", "nosql", "mongodb",
	"postgresql", "mysql", "redis", "git", "ci/cd", "jenkins", "terraform",
	"linux", "agile", "scrum", "rest", "api", "graphql", "microservices",
	"machine learning", "deep learning", "nlp", "tensorflow", "pytorch",
	"pandas", "numpy", "scikit-learn", "streamlit", "langchain",
	"html", "css", "tailwind", "figma", "excel", "power bi", "tableau",
	"c++", "c#", ".net", "rust", "go", "kotlin", "swift", "flutter",
	"react native", "next.js", "nest.js", "firebase", "supabase",
}

var softSkillVocab = []string{
	"communication", "leadership", "teamwork", "problem solving",
	"analytical", "creative", "time management", "collaboration",
	"presentation", "mentoring", "stakeholder",
}

type hardSkillPattern struct {
	name string
	re   *regexp.Regexp
}

var (
	hardSkillPatterns = buildHardSkillPatterns()
	hardSkillByName   = indexHardSkillPatterns(hardSkillPatterns)
)

func buildHardSkillPatterns() []hardSkillPattern {
	patterns := make([]hardSkillPattern, 0, len(hardSkillVocab))
	for _, skill := range hardSkillVocab {
		patterns = append(patterns, hardSkillPattern{
			name: skill,
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(skill) + `\b`),
		})
	}
	return patterns
}

func indexHardSkillPatterns(patterns []hardSkillPattern) map[string]*regexp.Regexp {
	byName := make(map[string]*regexp.Regexp, len(patterns))
	for _, p := range patterns {
		byName[p.name] = p.re
	}
	return byName
}

// ContainsHardSkill reports whether skill appears as a whole word in
// lowerText. lowerText must already be lowercased.
func ContainsHardSkill(lowerText, skill string) bool {
	re, ok := hardSkillByName[skill]
	if !ok {
		re = regexp.MustCompile(`\b` + regexp.QuoteMeta(skill) + `\b`)
	}
	return re.MatchString(lowerText)
}

var (
	yearsRe    = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)\s*(?:of)?\s*(?:experience)?`)
	bachelorRe = regexp.MustCompile(`(bachelor|b\.?s\.?|b\.?tech|b\.?e\.?)`)
	masterRe   = regexp.MustCompile(`(master|m\.?s\.?|m\.?tech|m\.?e\.?|mba)`)
	phdRe      = regexp.MustCompile(`(ph\.?d|doctorate)`)
)

// ExtractJdKeywords pulls hard skills, soft skills, minimum years of
// experience, and education requirements from a job description.
// Hard skills require whole-word matches; soft skills are plain substrings.
func ExtractJdKeywords(jdText string) JdKeywords {
	jdLower := strings.ToLower(jdText)

	var hard []string
	for _, p := range hardSkillPatterns {
		if p.re.MatchString(jdLower) {
			hard = append(hard, p.name)
		}
	}

	var soft []string
	for _, skill := range softSkillVocab {
		if strings.Contains(jdLower, skill) {
			soft = append(soft, skill)
		}
	}

	minYears := 0
	if m := yearsRe.FindStringSubmatch(jdLower); m != nil {
		if parsed, err := strconv.Atoi(m[1]); err == nil {
			minYears = parsed
		}
	}

	var education []string
	if bachelorRe.MatchString(jdLower) {
		education = append(education, "Bachelor's")
	}
	if masterRe.MatchString(jdLower) {
		education = append(education, "Master's")
	}
	if phdRe.MatchString(jdLower) {
		education = append(education, "PhD")
	}

	return JdKeywords{
		HardSkills: hard,
		SoftSkills: soft,
		MinYears:   minYears,
		Education:  education,
	}
}
