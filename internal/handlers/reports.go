package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/util"
)

// CreateReportRequest holds a moderation report
type CreateReportRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=post comment user"`
	TargetID   string `json:"target_id" binding:"required,uuid"`
	Reason     string `json:"reason" binding:"required,min=1,max=1000"`
}

// CreateReport files a moderation report against a post, comment or user
// POST /api/v1/reports
func (h *Handlers) CreateReport(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	// The target must exist
	var err error
	switch req.TargetType {
	case models.ReportTargetPost:
		err = database.DB.Select("id").First(&models.Post{}, "id = ?", req.TargetID).Error
	case models.ReportTargetComment:
		err = database.DB.Select("id").First(&models.Comment{}, "id = ?", req.TargetID).Error
	case models.ReportTargetUser:
		err = database.DB.Select("id").First(&models.User{}, "id = ?", req.TargetID).Error
	}
	if err != nil {
		util.RespondNotFound(c, req.TargetType)
		return
	}

	report := models.Report{
		ReporterID: userID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
	}
	if err := database.DB.Create(&report).Error; err != nil {
		util.RespondInternalError(c, "failed to create report")
		return
	}

	util.RespondCreated(c, report)
}
