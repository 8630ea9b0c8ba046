package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-backend/internal/requestdata"
	"github.com/careerbridge/careerbridge-backend/internal/services"
)

// ActivityHandler exposes the mutating collaborator actions that raise
// analytics events: job views, applications, interviews, saved jobs.
type ActivityHandler struct {
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) RecordJobView(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}

	var viewerID *uuid.UUID
	if identity := requestdata.GetIdentity(c.Request.Context()); identity != nil {
		viewerID = &identity.UserID
	}

	if err := h.activityService.RecordJobView(c.Request.Context(), viewerID, jobID); err != nil {
		RespondError(c, http.StatusBadRequest, "record_view_failed", err)
		return
	}
	RespondOK(c, gin.H{"recorded": true})
}

func (h *ActivityHandler) SubmitApplication(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	identity := requestdata.GetIdentity(c.Request.Context())
	if identity == nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no identity"))
		return
	}

	application, err := h.activityService.SubmitApplication(c.Request.Context(), identity.UserID, jobID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "submit_application_failed", err)
		return
	}
	RespondOK(c, gin.H{"application": application})
}

func (h *ActivityHandler) ScheduleInterview(c *gin.Context) {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_application_id", err)
		return
	}

	var req struct {
		ScheduledAt time.Time `json:"scheduled_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if req.ScheduledAt.IsZero() {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", fmt.Errorf("scheduled_at is required"))
		return
	}

	interview, err := h.activityService.ScheduleInterview(c.Request.Context(), applicationID, req.ScheduledAt)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "schedule_interview_failed", err)
		return
	}
	RespondOK(c, gin.H{"interview": interview})
}

func (h *ActivityHandler) SaveJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	identity := requestdata.GetIdentity(c.Request.Context())
	if identity == nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no identity"))
		return
	}

	if err := h.activityService.SaveJob(c.Request.Context(), identity.UserID, jobID); err != nil {
		RespondError(c, http.StatusBadRequest, "save_job_failed", err)
		return
	}
	RespondOK(c, gin.H{"saved": true})
}
