package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jengzang/travel-segments-go/internal/middleware"
	"github.com/jengzang/travel-segments-go/internal/models"
	"github.com/jengzang/travel-segments-go/internal/repository"
	"github.com/jengzang/travel-segments-go/internal/segmentation"
	"github.com/jengzang/travel-segments-go/internal/service"
	"github.com/jengzang/travel-segments-go/pkg/response"
)

// SegmentationHandler handles HTTP requests for segmentation runs and results
type SegmentationHandler struct {
	service *service.SegmentationService
}

// NewSegmentationHandler creates a new segmentation handler
func NewSegmentationHandler(service *service.SegmentationService) *SegmentationHandler {
	return &SegmentationHandler{service: service}
}

// CreateRun starts a new segmentation run
// POST /api/v1/segmentation/runs
func (h *SegmentationHandler) CreateRun(c *gin.Context) {
	var params models.RunParams
	// An empty body runs with the configured defaults
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	run, err := h.service.CreateRun(c.Request.Context(), params, c.GetString(middleware.UserKey))
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Accepted(c, run)
}

// GetRun retrieves a run by id
// GET /api/v1/segmentation/runs/:id
func (h *SegmentationHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, run)
}

// ListRuns retrieves recent runs
// GET /api/v1/segmentation/runs
func (h *SegmentationHandler) ListRuns(c *gin.Context) {
	var filter models.RunFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	runs, err := h.service.ListRuns(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, gin.H{"runs": runs})
}

// GetSummary returns one row per segment of the last completed run
// GET /api/v1/segmentation/summary
func (h *SegmentationHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, summary)
}

// ListUsers returns a page of user assignments
// GET /api/v1/segmentation/users?segment=&page=&pageSize=
func (h *SegmentationHandler) ListUsers(c *gin.Context) {
	var filter models.UserSegmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, users)
}

// fail maps service errors onto the response envelope
func (h *SegmentationHandler) fail(c *gin.Context, err error) {
	switch {
	case eris.Is(err, service.ErrInvalidParams), eris.Is(err, segmentation.ErrUnknownSegment):
		response.BadRequest(c, err.Error())
	case eris.Is(err, repository.ErrRunNotFound):
		response.NotFound(c, "Run not found")
	default:
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
		response.InternalError(c, "Internal server error")
	}
}
