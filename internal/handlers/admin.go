package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/logger"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/settings"
	"github.com/campushub/backend/internal/util"
)

// All handlers in this file sit behind RequireAuth + RequireAdmin.

// AdminListUsers lists accounts with optional status filter
// GET /api/v1/admin/users?status=&page=&limit=
func (h *Handlers) AdminListUsers(c *gin.Context) {
	page, limit := util.ParsePagination(c, 20, 100)

	query := database.DB.Model(&models.User{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list users")
		return
	}

	var users []models.User
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list users")
		return
	}

	util.RespondData(c, gin.H{
		"users":      users,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// AdminBanUser bans an account
// POST /api/v1/admin/users/:id/ban
func (h *Handlers) AdminBanUser(c *gin.Context) {
	h.adminSetUserStatus(c, models.UserStatusBanned, "user banned")
}

// AdminUnbanUser reinstates an account
// POST /api/v1/admin/users/:id/unban
func (h *Handlers) AdminUnbanUser(c *gin.Context) {
	h.adminSetUserStatus(c, models.UserStatusActive, "user unbanned")
}

func (h *Handlers) adminSetUserStatus(c *gin.Context, status, message string) {
	admin, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}
	if user.IsAdmin() {
		util.RespondForbidden(c, "cannot change another admin's status")
		return
	}

	if err := database.DB.Model(&user).Update("status", status).Error; err != nil {
		util.RespondInternalError(c, "failed to update user status")
		return
	}

	logger.Log.Info("Admin changed user status",
		zap.String("admin_id", admin.ID),
		zap.String("user_id", user.ID),
		zap.String("status", status),
	)

	util.RespondMessage(c, message)
}

// AdminSetPostFlag flips a single admin override column on a post.
// POST /api/v1/admin/posts/:id/{recommend,unrecommend,pin,unpin,hide,unhide}
func (h *Handlers) adminSetPostColumn(c *gin.Context, column string, value interface{}, message string) {
	var post models.Post
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	if err := database.DB.Model(&post).Update(column, value).Error; err != nil {
		util.RespondInternalError(c, "failed to update post")
		return
	}

	util.RespondMessage(c, message)
}

// AdminRecommendPost marks a post as an admin pick for the ranked feed
// POST /api/v1/admin/posts/:id/recommend
func (h *Handlers) AdminRecommendPost(c *gin.Context) {
	h.adminSetPostColumn(c, "is_recommended", true, "post recommended")
}

// AdminUnrecommendPost clears the admin pick flag
// POST /api/v1/admin/posts/:id/unrecommend
func (h *Handlers) AdminUnrecommendPost(c *gin.Context) {
	h.adminSetPostColumn(c, "is_recommended", false, "post unrecommended")
}

// AdminPinPost pins a post to the top of plain lists
// POST /api/v1/admin/posts/:id/pin
func (h *Handlers) AdminPinPost(c *gin.Context) {
	h.adminSetPostColumn(c, "is_pinned", true, "post pinned")
}

// AdminUnpinPost unpins a post
// POST /api/v1/admin/posts/:id/unpin
func (h *Handlers) AdminUnpinPost(c *gin.Context) {
	h.adminSetPostColumn(c, "is_pinned", false, "post unpinned")
}

// AdminHidePost removes a post from public view without deleting it
// POST /api/v1/admin/posts/:id/hide
func (h *Handlers) AdminHidePost(c *gin.Context) {
	h.adminSetPostColumn(c, "status", models.PostStatusHidden, "post hidden")
}

// AdminUnhidePost restores a hidden post
// POST /api/v1/admin/posts/:id/unhide
func (h *Handlers) AdminUnhidePost(c *gin.Context) {
	h.adminSetPostColumn(c, "status", models.PostStatusPublished, "post restored")
}

// AdminHideComment soft-hides a comment
// POST /api/v1/admin/comments/:id/hide
func (h *Handlers) AdminHideComment(c *gin.Context) {
	h.adminSetCommentHidden(c, true, "comment hidden")
}

// AdminUnhideComment restores a hidden comment
// POST /api/v1/admin/comments/:id/unhide
func (h *Handlers) AdminUnhideComment(c *gin.Context) {
	h.adminSetCommentHidden(c, false, "comment restored")
}

func (h *Handlers) adminSetCommentHidden(c *gin.Context, hidden bool, message string) {
	var comment models.Comment
	if err := database.DB.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "comment")
		return
	}

	if err := database.DB.Model(&comment).Update("is_hidden", hidden).Error; err != nil {
		util.RespondInternalError(c, "failed to update comment")
		return
	}

	util.RespondMessage(c, message)
}

// AdminFeatureTopic marks a topic as featured in trending
// POST /api/v1/admin/topics/:id/feature
func (h *Handlers) AdminFeatureTopic(c *gin.Context) {
	h.adminSetTopicFeatured(c, true, "topic featured")
}

// AdminUnfeatureTopic clears the featured flag
// POST /api/v1/admin/topics/:id/unfeature
func (h *Handlers) AdminUnfeatureTopic(c *gin.Context) {
	h.adminSetTopicFeatured(c, false, "topic unfeatured")
}

func (h *Handlers) adminSetTopicFeatured(c *gin.Context, featured bool, message string) {
	var topic models.Topic
	if err := database.DB.First(&topic, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "topic")
		return
	}

	if err := database.DB.Model(&topic).Update("is_featured", featured).Error; err != nil {
		util.RespondInternalError(c, "failed to update topic")
		return
	}

	util.RespondMessage(c, message)
}

// AdminListReports lists moderation reports, pending first
// GET /api/v1/admin/reports?status=&page=&limit=
func (h *Handlers) AdminListReports(c *gin.Context) {
	page, limit := util.ParsePagination(c, 20, 100)

	query := database.DB.Model(&models.Report{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list reports")
		return
	}

	var reports []models.Report
	err := query.
		Preload("Reporter").
		Order("status ASC, created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reports).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list reports")
		return
	}

	util.RespondData(c, gin.H{
		"reports":    reports,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// ResolveReportRequest carries the moderation outcome
type ResolveReportRequest struct {
	Status     string `json:"status" binding:"required,oneof=resolved rejected"`
	Resolution string `json:"resolution" binding:"max=1000"`
}

// AdminResolveReport closes a report
// POST /api/v1/admin/reports/:id/resolve
func (h *Handlers) AdminResolveReport(c *gin.Context) {
	admin, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var report models.Report
	if err := database.DB.First(&report, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "report")
		return
	}
	if report.Status != models.ReportStatusPending {
		util.RespondBadRequest(c, "report already resolved")
		return
	}

	var req ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	adminID := admin.ID
	updates := map[string]interface{}{
		"status":      req.Status,
		"resolution":  req.Resolution,
		"resolved_by": &adminID,
	}
	if err := database.DB.Model(&report).Updates(updates).Error; err != nil {
		util.RespondInternalError(c, "failed to resolve report")
		return
	}

	h.notify(report.ReporterID, "", models.NotificationSystem, "report", report.ID,
		"your report has been "+req.Status)

	util.RespondData(c, report)
}

// CreateEventRequest holds a new event's payload
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=5000"`
	Location    string    `json:"location" binding:"max=200"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Capacity    int       `json:"capacity" binding:"min=0"`
}

// AdminCreateEvent creates an event
// POST /api/v1/admin/events
func (h *Handlers) AdminCreateEvent(c *gin.Context) {
	admin, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	if !req.EndTime.After(req.StartTime) {
		util.RespondValidationError(c, "end_time", "must be after start_time")
		return
	}

	event := models.Event{
		CreatorID:   admin.ID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
	}
	if err := database.DB.Create(&event).Error; err != nil {
		util.RespondInternalError(c, "failed to create event")
		return
	}

	util.RespondCreated(c, event)
}

// UpdateEventRequest holds editable event fields
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=0"`
}

// AdminUpdateEvent edits an event
// PUT /api/v1/admin/events/:id
func (h *Handlers) AdminUpdateEvent(c *gin.Context) {
	var event models.Event
	if err := database.DB.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "event")
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		updates["end_time"] = *req.EndTime
	}
	if req.Capacity != nil {
		// Capacity can only grow once people have registered
		if *req.Capacity > 0 && *req.Capacity < event.RegisteredCount {
			util.RespondValidationError(c, "capacity", "below current registration count")
			return
		}
		updates["capacity"] = *req.Capacity
	}
	if len(updates) == 0 {
		util.RespondBadRequest(c, "no fields to update")
		return
	}

	if err := database.DB.Model(&event).Updates(updates).Error; err != nil {
		util.RespondInternalError(c, "failed to update event")
		return
	}

	util.RespondData(c, event)
}

// AdminCancelEvent cancels an event and notifies registrants
// POST /api/v1/admin/events/:id/cancel
func (h *Handlers) AdminCancelEvent(c *gin.Context) {
	var event models.Event
	if err := database.DB.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "event")
		return
	}

	if err := database.DB.Model(&event).Update("status", models.EventStatusCancelled).Error; err != nil {
		util.RespondInternalError(c, "failed to cancel event")
		return
	}

	var registrantIDs []string
	if err := database.DB.Model(&models.EventRegistration{}).
		Where("event_id = ?", event.ID).
		Pluck("user_id", &registrantIDs).Error; err == nil {
		for _, userID := range registrantIDs {
			h.notify(userID, "", models.NotificationEvent, "event", event.ID,
				"event cancelled: "+event.Title)
		}
	}

	util.RespondMessage(c, "event cancelled")
}

// CreateCategoryRequest holds a new category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Description string `json:"description" binding:"max=500"`
	SortOrder   int    `json:"sort_order"`
}

// AdminCreateCategory creates a post category
// POST /api/v1/admin/categories
func (h *Handlers) AdminCreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		Enabled:     true,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		util.RespondValidationError(c, "name", "category name already exists")
		return
	}

	util.RespondCreated(c, category)
}

// UpdateCategoryRequest holds editable category fields
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=50"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order"`
	Enabled     *bool   `json:"enabled"`
}

// AdminUpdateCategory edits a category
// PUT /api/v1/admin/categories/:id
func (h *Handlers) AdminUpdateCategory(c *gin.Context) {
	var category models.Category
	if err := database.DB.First(&category, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "category")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if len(updates) == 0 {
		util.RespondBadRequest(c, "no fields to update")
		return
	}

	if err := database.DB.Model(&category).Updates(updates).Error; err != nil {
		util.RespondInternalError(c, "failed to update category")
		return
	}

	util.RespondData(c, category)
}

// CreateBadgeRequest holds a new badge definition
type CreateBadgeRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Description string `json:"description" binding:"max=500"`
	IconURL     string `json:"icon_url" binding:"max=500"`
}

// AdminCreateBadge defines a new badge
// POST /api/v1/admin/badges
func (h *Handlers) AdminCreateBadge(c *gin.Context) {
	var req CreateBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	badge := models.Badge{
		Name:        req.Name,
		Description: req.Description,
		IconURL:     req.IconURL,
	}
	if err := database.DB.Create(&badge).Error; err != nil {
		util.RespondValidationError(c, "name", "badge name already exists")
		return
	}

	util.RespondCreated(c, badge)
}

// AdminGrantBadge grants a badge to a user, idempotently
// POST /api/v1/admin/badges/:id/grant/:userID
func (h *Handlers) AdminGrantBadge(c *gin.Context) {
	admin, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var badge models.Badge
	if err := database.DB.First(&badge, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "badge")
		return
	}
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Param("userID")).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	var existing models.UserBadge
	err := database.DB.Where("user_id = ? AND badge_id = ?", user.ID, badge.ID).First(&existing).Error
	if err == nil {
		util.RespondMessage(c, "badge already granted")
		return
	}

	grant := models.UserBadge{
		UserID:    user.ID,
		BadgeID:   badge.ID,
		GrantedBy: admin.ID,
	}
	if err := database.DB.Create(&grant).Error; err != nil {
		util.RespondInternalError(c, "failed to grant badge")
		return
	}

	h.notify(user.ID, "", models.NotificationSystem, "badge", badge.ID,
		"you earned the "+badge.Name+" badge")

	util.RespondCreated(c, grant)
}

// AdminGetSettings returns the effective ranking configuration
// GET /api/v1/admin/settings
func (h *Handlers) AdminGetSettings(c *gin.Context) {
	cfg, err := settings.LoadRankingConfig(database.DB)
	if err != nil {
		util.RespondInternalError(c, "failed to load settings")
		return
	}

	util.RespondData(c, cfg)
}

// UpdateSettingsRequest carries raw key/value pairs for the settings table
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required,min=1"`
}

// AdminUpdateSettings upserts setting rows. Unknown keys are rejected so
// typos don't silently become dead rows.
// PUT /api/v1/admin/settings
func (h *Handlers) AdminUpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	known := map[string]bool{
		settings.KeyLikeWeight:          true,
		settings.KeyCommentWeight:       true,
		settings.KeyCollectionWeight:    true,
		settings.KeyViewWeight:          true,
		settings.KeyTimeDecayDays:       true,
		settings.KeyMaxAgeDays:          true,
		settings.KeyMaxAdminRecommended: true,
		settings.KeyTopicBaseWeight:     true,
		settings.KeyTopicRecentWeight:   true,
		settings.KeyTopicRecentDays:     true,
		settings.KeyMaxHotTopics:        true,
	}

	for key := range req.Settings {
		if !known[key] {
			util.RespondValidationError(c, key, "unknown setting key")
			return
		}
	}

	for key, value := range req.Settings {
		if err := settings.Save(database.DB, key, value); err != nil {
			util.RespondInternalError(c, "failed to save settings")
			return
		}
	}

	cfg, err := settings.LoadRankingConfig(database.DB)
	if err != nil {
		util.RespondInternalError(c, "failed to reload settings")
		return
	}

	util.RespondData(c, cfg)
}
