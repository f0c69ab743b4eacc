package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/admission-portal/internal/application"
	"github.com/linskybing/admission-portal/internal/domain/review"
	"github.com/linskybing/admission-portal/internal/repository"
	"github.com/linskybing/admission-portal/pkg/response"
	"github.com/linskybing/admission-portal/pkg/utils"
)

type AuditHandler struct {
	svc *application.ReviewService
}

func NewAuditHandler(svc *application.ReviewService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// GetReviewLogs godoc
// @Summary      Query review logs
// @Description  Every review and payment submission attempt, newest first, filtered by optional parameters.
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        application_id query     uint     false  "Application ID" example(7)
// @Param        session_id     query     string   false  "Dashboard session ID"
// @Param        action         query     string   false  "review or payment" example("review")
// @Param        start_time     query     string   false  "Start time in RFC3339 format" example("2024-01-01T00:00:00Z")
// @Param        end_time       query     string   false  "End time in RFC3339 format" example("2024-02-01T00:00:00Z")
// @Param        limit          query     int      false  "Max number of records to return (default 100, max 1000)" example(100)
// @Param        offset         query     int      false  "Offset for pagination (default 0)" example(0)
// @Success      200 {array}   review.ReviewLog
// @Failure      400 {object}  response.ErrorResponse "Invalid query parameters"
// @Failure      500 {object}  response.ErrorResponse "Internal server error"
// @Router       /audit/reviews [get]
func (h *AuditHandler) GetReviewLogs(c *gin.Context) {
	var params repository.ReviewQueryParams

	if id, err := utils.ParseQueryUintParam(c, "application_id"); err != nil {
		if !errors.Is(err, utils.ErrEmptyParameter) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid application_id"})
			return
		}
	} else {
		params.ApplicationID = &id
	}

	if sid := c.Query("session_id"); sid != "" {
		params.SessionID = &sid
	}
	if act := c.Query("action"); act != "" {
		action := review.Action(act)
		if action != review.ActionReview && action != review.ActionPayment {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid action"})
			return
		}
		params.Action = &action
	}

	if start := c.Query("start_time"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid start_time"})
			return
		}
		params.StartTime = &t
	}
	if end := c.Query("end_time"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid end_time"})
			return
		}
		params.EndTime = &t
	}

	params.Limit = utils.QueryIntInRange(c, "limit", 100, 1, 1000)
	params.Offset = utils.QueryIntInRange(c, "offset", 0, 0, 1<<31-1)

	logs, err := h.svc.QueryReviewLogs(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}
