package analysis

import (
	"math"
	"strings"

	"resumematch-backend/internal/parse"
)

// MatchKeywords partitions the JD's hard and soft skill sets by presence in
// the resume. Hard skills require whole-word matches; soft skills are plain
// substring containment.
func MatchKeywords(resumeText string, keywords parse.JdKeywords) (hard, soft SkillMatch) {
	resumeLower := strings.ToLower(resumeText)

	hard = SkillMatch{Found: []string{}, Missing: []string{}}
	for _, skill := range keywords.HardSkills {
		if parse.ContainsHardSkill(resumeLower, skill) {
			hard.Found = append(hard.Found, skill)
		} else {
			hard.Missing = append(hard.Missing, skill)
		}
	}
	hard.Score = categoryScore(len(hard.Found), len(keywords.HardSkills))

	soft = SkillMatch{Found: []string{}, Missing: []string{}}
	for _, skill := range keywords.SoftSkills {
		if strings.Contains(resumeLower, skill) {
			soft.Found = append(soft.Found, skill)
		} else {
			soft.Missing = append(soft.Missing, skill)
		}
	}
	soft.Score = categoryScore(len(soft.Found), len(keywords.SoftSkills))

	return hard, soft
}

// categoryScore is round(found/total*100) with an empty category scoring 0.
func categoryScore(found, total int) int {
	if total < 1 {
		total = 1
	}
	return int(math.Round(float64(found) / float64(total) * 100))
}
