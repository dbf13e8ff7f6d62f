package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumematch-backend/internal/documents"
	"resumematch-backend/internal/extract"
	"resumematch-backend/internal/llm"
	"resumematch-backend/internal/parse"
	"resumematch-backend/internal/shared/metrics"
	"resumematch-backend/internal/shared/storage/object"
	"resumematch-backend/internal/shared/telemetry"
	"resumematch-backend/internal/usage"
)

// Service contains business logic for analyses.
type Service struct {
	Repo     Repo
	Usage    *usage.Service
	DocRepo  documents.Repo
	Store    object.ObjectStore
	LLM      llm.Client
	Provider string
	Model    string
}

// Create enqueues a new analysis and kicks off asynchronous completion.
func (s *Service) Create(ctx context.Context, documentID, userID, jobDescription string) (Analysis, error) {
	if documentID == "" || userID == "" {
		return Analysis{}, errors.New("documentID and userID are required")
	}
	if strings.TrimSpace(jobDescription) == "" {
		return Analysis{}, errors.New("job description is required")
	}

	if s.Usage != nil {
		ok, _, err := s.Usage.CanConsume(ctx, userID, 1)
		if err != nil {
			return Analysis{}, err
		}
		if !ok {
			return Analysis{}, usage.ErrLimitReached
		}
	}

	doc, err := s.DocRepo.GetByID(ctx, userID, documentID)
	if err != nil {
		return Analysis{}, err
	}

	analysis := Analysis{
		ID:             uuid.NewString(),
		DocumentID:     doc.ID,
		UserID:         userID,
		JobDescription: jobDescription,
		FileName:       doc.FileName,
		Provider:       s.Provider,
		Model:          s.Model,
		Status:         StatusQueued,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}

	if s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
			return Analysis{}, err
		}
	}

	go s.completeAsync(backgroundWithRequestID(ctx), analysis.ID)

	return analysis, nil
}

// Get returns an analysis owned by the user.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, errors.New("analysisID is required")
	}
	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	if analysis.UserID != userID {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// List returns analyses for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// ResumeText returns the extracted plain text behind an analysis the user owns.
func (s *Service) ResumeText(ctx context.Context, userID, analysisID string) (string, error) {
	analysis, err := s.Get(ctx, userID, analysisID)
	if err != nil {
		return "", err
	}
	return s.loadResumeText(ctx, analysis)
}

func (s *Service) completeAsync(ctx context.Context, analysisID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failAnalysis(ctx, analysisID, "", "", fmt.Errorf("panic: %v", r), nil)
		}
	}()

	startedAt := time.Now().UTC()
	if err := s.Repo.MarkProcessing(ctx, analysisID, startedAt); err != nil {
		s.failAnalysis(ctx, analysisID, "", "", fmt.Errorf("set processing failed: %w", err), &startedAt)
		return
	}

	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		s.failAnalysis(ctx, analysisID, "", "", fmt.Errorf("analysis lookup: %w", err), &startedAt)
		return
	}
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"user_id":     analysis.UserID,
		"document_id": analysis.DocumentID,
		"analysis_id": analysis.ID,
		"status":      StatusProcessing,
	})

	if s.DocRepo == nil || s.Store == nil {
		s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, errors.New("missing document store dependencies"), &startedAt)
		return
	}
	if s.LLM == nil {
		s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, errors.New("missing llm client"), &startedAt)
		return
	}

	resumeText, err := s.loadResumeText(ctx, analysis)
	if err != nil {
		s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, err, &startedAt)
		return
	}

	report, err := s.buildReport(ctx, resumeText, analysis)
	if err != nil {
		s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, err, &startedAt)
		return
	}

	completedAt := time.Now().UTC()
	if err := s.Repo.MarkCompleted(ctx, analysisID, report, completedAt); err != nil {
		s.failAnalysis(ctx, analysisID, analysis.UserID, analysis.DocumentID, fmt.Errorf("set analysis result failed: %w", err), &startedAt)
		return
	}
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("analysis.status", map[string]any{
		"request_id":    requestIDFromContext(ctx),
		"user_id":       analysis.UserID,
		"document_id":   analysis.DocumentID,
		"analysis_id":   analysis.ID,
		"status":        StatusCompleted,
		"overall_score": report.OverallScore,
		"duration_ms":   durationMs(&startedAt, &completedAt),
	})
}

// loadResumeText returns the document's extracted plain text, extracting
// and persisting it first when this is the document's first analysis.
func (s *Service) loadResumeText(ctx context.Context, analysis Analysis) (string, error) {
	doc, err := s.DocRepo.GetByID(ctx, analysis.UserID, analysis.DocumentID)
	if err != nil {
		return "", fmt.Errorf("document lookup id=%s: %w", analysis.DocumentID, err)
	}

	if doc.ExtractedTextKey != "" {
		text, err := loadText(ctx, s.Store, doc.ExtractedTextKey)
		if err != nil {
			return "", fmt.Errorf("document %s: load extracted text: %w", doc.ID, err)
		}
		return text, nil
	}

	text, textKey, err := extract.FromStore(ctx, s.Store, doc.StorageKey, doc.FileName)
	if err != nil {
		return "", fmt.Errorf("document %s: %w", doc.ID, err)
	}
	if err := s.DocRepo.UpdateExtraction(ctx, doc.UserID, doc.ID, textKey, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("document %s: update extraction: %w", doc.ID, err)
	}
	return text, nil
}

// buildReport runs the deterministic scorers and the model assessment and
// blends them into the final report.
func (s *Service) buildReport(ctx context.Context, resumeText string, analysis Analysis) (*Report, error) {
	jdKeywords := parse.ExtractJdKeywords(analysis.JobDescription)
	hard, soft := MatchKeywords(resumeText, jdKeywords)
	ats := CheckATS(resumeText, analysis.FileName)
	sections := parse.Segment(resumeText)

	assessment, err := Assess(ctx, s.LLM, resumeText, analysis.JobDescription)
	if err != nil {
		return nil, fmt.Errorf("llm analyze: %w", err)
	}

	overall := Aggregate(hard.Score, soft.Score, ats.Score, assessment.ExperienceScore, assessment.EducationScore)

	return &Report{
		OverallScore: overall,
		HardSkills:   hard,
		SoftSkills:   soft,
		Experience: CategoryAssessment{
			Score:    assessment.ExperienceScore,
			Analysis: assessment.ExperienceAnalysis,
		},
		Education: CategoryAssessment{
			Score:    assessment.EducationScore,
			Analysis: assessment.EducationAnalysis,
		},
		Ats:          ats,
		OverallFit:   assessment.OverallFit,
		Suggestions:  assessment.Suggestions,
		Strengths:    assessment.Strengths,
		Weaknesses:   assessment.Weaknesses,
		JdKeywords:   jdKeywords,
		Contact:      ats.Contact,
		Sections:     sections.Map(),
		SectionOrder: sections.Names(),
	}, nil
}

func (s *Service) failAnalysis(ctx context.Context, analysisID, userID, documentID string, err error, startedAt *time.Time) {
	code := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.MarkFailed(context.Background(), analysisID, code, msg, completedAt); updateErr != nil {
		telemetry.Error("analysis.fail_update", map[string]any{
			"analysis_id": analysisID,
			"error":       updateErr.Error(),
			"original":    msg,
		})
	}
	metrics.IncAnalysisFailed()
	if startedAt != nil {
		metrics.ObserveAnalysisDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("analysis.status", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"user_id":     userID,
		"document_id": documentID,
		"analysis_id": analysisID,
		"status":      StatusFailed,
		"error_code":  code,
		"error":       msg,
	})
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) string {
	if err == nil {
		return ErrorCodeInternal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeLLMTimeout
	}
	if errors.Is(err, extract.ErrUnsupportedFormat) {
		return ErrorCodeValidation
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") && strings.Contains(msg, "llm") {
		return ErrorCodeLLMTimeout
	}
	if strings.Contains(msg, "document") || strings.Contains(msg, "storage") || strings.Contains(msg, "analysis result") || strings.Contains(msg, "set processing") {
		return ErrorCodeStorage
	}
	return ErrorCodeInternal
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

func loadText(ctx context.Context, store object.ObjectStore, key string) (string, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
