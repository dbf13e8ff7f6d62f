package analysis

import "math"

// Category weights for the composite score. They must sum to exactly 1.00;
// changing any weight requires re-deriving the rest.
const (
	weightHardSkills = 0.35
	weightExperience = 0.30
	weightEducation  = 0.10
	weightAts        = 0.15
	weightSoftSkills = 0.10
)

// Aggregate blends the five category scores into the overall score.
// Inputs are clamped to [0,100] first, so the result needs no clamping.
func Aggregate(hardScore, softScore, atsScore, experienceScore, educationScore int) int {
	overall := float64(clampScore(hardScore))*weightHardSkills +
		float64(clampScore(experienceScore))*weightExperience +
		float64(clampScore(educationScore))*weightEducation +
		float64(clampScore(atsScore))*weightAts +
		float64(clampScore(softScore))*weightSoftSkills
	return int(math.Round(overall))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
