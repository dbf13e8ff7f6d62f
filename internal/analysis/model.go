package analysis

import (
	"time"

	"resumematch-backend/internal/parse"
)

// Analysis lifecycle states.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Analysis represents a resume-vs-JD analysis job.
type Analysis struct {
	ID             string     `json:"id"`
	DocumentID     string     `json:"documentId"`
	UserID         string     `json:"userId"`
	JobDescription string     `json:"jobDescription"`
	FileName       string     `json:"fileName"`
	Provider       string     `json:"provider"`
	Model          string     `json:"model"`
	Status         string     `json:"status"`
	Report         *Report    `json:"report,omitempty"`
	ErrorCode      *string    `json:"errorCode,omitempty"`
	ErrorMessage   *string    `json:"errorMessage,omitempty"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// SkillMatch partitions one JD skill category into found and missing
// entries. Found and missing together always cover the full category.
type SkillMatch struct {
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
	Score   int      `json:"score"`
}

// CategoryAssessment is a scored narrative judgment from the model.
type CategoryAssessment struct {
	Score    int    `json:"score"`
	Analysis string `json:"analysis"`
}

// AtsReport holds the deterministic formatting check results.
type AtsReport struct {
	Score            int           `json:"score"`
	FileTypeOK       bool          `json:"file_type_ok"`
	WordCount        int           `json:"word_count"`
	Contact          parse.Contact `json:"contact"`
	SectionsFound    []string      `json:"sections_found"`
	ActionVerbsFound []string      `json:"action_verbs_found"`
	HasMetrics       bool          `json:"has_metrics"`
	Issues           []string      `json:"issues"`
}

// Report is the terminal artifact of a completed analysis. Sections are
// carried along so the rewrite stage can work from the same segmentation.
type Report struct {
	OverallScore int                `json:"overall_score"`
	HardSkills   SkillMatch         `json:"hard_skills"`
	SoftSkills   SkillMatch         `json:"soft_skills"`
	Experience   CategoryAssessment `json:"experience"`
	Education    CategoryAssessment `json:"education"`
	Ats          AtsReport          `json:"ats"`
	OverallFit   string             `json:"overall_fit"`
	Suggestions  []string           `json:"suggestions"`
	Strengths    []string           `json:"strengths"`
	Weaknesses   []string           `json:"weaknesses"`
	JdKeywords   parse.JdKeywords   `json:"jd_keywords"`
	Contact      parse.Contact      `json:"contact"`
	Sections     map[string]string  `json:"sections"`
	SectionOrder []string           `json:"section_order"`
}
