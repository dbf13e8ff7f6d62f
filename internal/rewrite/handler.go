package rewrite

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumematch-backend/internal/analysis"
	"resumematch-backend/internal/shared/server/middleware"
	"resumematch-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the rewrite service.
type Handler struct {
	Svc      *Service
	Analyses *analysis.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, analyses *analysis.Service) *Handler {
	return &Handler{Svc: svc, Analyses: analyses}
}

// RegisterRoutes attaches rewrite routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses/:id/rewrite", h.rewriteSections)
	rg.POST("/analyses/:id/summary", h.generateSummary)
}

// loadCompleted fetches an analysis the user owns and requires a finished
// report. Responds on error and returns false.
func (h *Handler) loadCompleted(c *gin.Context) (analysis.Analysis, bool) {
	userID := middleware.UserIDFromContext(c)
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return analysis.Analysis{}, false
	}

	a, err := h.Analyses.Get(c.Request.Context(), userID, analysisID)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return analysis.Analysis{}, false
	}
	if a.Status != analysis.StatusCompleted || a.Report == nil {
		respond.Error(c, http.StatusConflict, "not_completed", "analysis is not completed yet", nil)
		return analysis.Analysis{}, false
	}
	return a, true
}

func (h *Handler) rewriteSections(c *gin.Context) {
	a, ok := h.loadCompleted(c)
	if !ok {
		return
	}
	if len(a.Report.Sections) == 0 {
		respond.Error(c, http.StatusUnprocessableEntity, "empty_resume", "No resume sections were detected, so section rewriting is unavailable.", nil)
		return
	}

	results := h.Svc.RewriteAll(c.Request.Context(), a.Report.Sections, a.JobDescription, a.Report.HardSkills.Missing)

	sections := make(gin.H, len(results))
	for name, result := range results {
		item := gin.H{"text": result.Text}
		if result.Err != nil {
			item["error"] = "rewrite failed for this section"
		}
		sections[name] = item
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"analysisId":   a.ID,
		"sections":     sections,
		"sectionOrder": a.Report.SectionOrder,
	})
}

func (h *Handler) generateSummary(c *gin.Context) {
	a, ok := h.loadCompleted(c)
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(c)
	resumeText, err := h.Analyses.ResumeText(c.Request.Context(), userID, a.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume text", nil)
		return
	}

	summary, err := h.Svc.GenerateSummary(c.Request.Context(), resumeText, a.JobDescription)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "llm_error", "summary generation failed", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"analysisId": a.ID,
		"summary":    summary,
	})
}
