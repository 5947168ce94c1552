package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/logger"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/util"
)

var errEventFull = errors.New("event is full")

// ListEvents lists events, upcoming first
// GET /api/v1/events?status=&page=&limit=
func (h *Handlers) ListEvents(c *gin.Context) {
	page, limit := util.ParsePagination(c, 20, 100)

	// Roll statuses forward before listing; best-effort
	if err := refreshEventStatuses(database.DB); err != nil {
		logger.WarnWithFields("Failed to refresh event statuses", err)
	}

	query := database.DB.Model(&models.Event{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status <> ?", models.EventStatusCancelled)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to list events")
		return
	}

	var events []models.Event
	err := query.
		Preload("Creator").
		Order("start_time ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&events).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list events")
		return
	}

	util.RespondData(c, gin.H{
		"events":     events,
		"pagination": util.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// GetEvent returns one event with registration state for the viewer
// GET /api/v1/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	var event models.Event
	if err := database.DB.Preload("Creator").First(&event, "id = ?", c.Param("id")).Error; err != nil {
		util.RespondNotFound(c, "event")
		return
	}

	registered := false
	if viewerID := util.OptionalUserID(c); viewerID != "" {
		var n int64
		database.DB.Model(&models.EventRegistration{}).
			Where("event_id = ? AND user_id = ?", event.ID, viewerID).
			Count(&n)
		registered = n > 0
	}

	util.RespondData(c, gin.H{
		"event":      event,
		"registered": registered,
		"full":       event.IsFull(),
	})
}

// RegisterForEvent signs the user up for an event. Capacity is checked
// inside the transaction so concurrent registrations cannot oversell.
// POST /api/v1/events/:id/register
func (h *Handlers) RegisterForEvent(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	eventID := c.Param("id")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			return err
		}
		if event.Status != models.EventStatusUpcoming && event.Status != models.EventStatusOngoing {
			return errEventFull
		}

		var existing models.EventRegistration
		findErr := tx.Unscoped().
			Where("event_id = ? AND user_id = ?", eventID, userID).
			First(&existing).Error

		switch {
		case findErr == gorm.ErrRecordNotFound:
			if event.IsFull() {
				return errEventFull
			}
			if err := tx.Create(&models.EventRegistration{EventID: eventID, UserID: userID}).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		case existing.DeletedAt.Valid:
			if event.IsFull() {
				return errEventFull
			}
			if err := tx.Unscoped().Model(&existing).Update("deleted_at", nil).Error; err != nil {
				return err
			}
		default:
			// Already registered
			return nil
		}

		return incrementCounter(tx, &models.Event{}, eventID, "registered_count")
	})

	switch {
	case err == gorm.ErrRecordNotFound:
		util.RespondNotFound(c, "event")
	case err == errEventFull:
		util.RespondBadRequest(c, "event is full or closed")
	case err != nil:
		util.RespondInternalError(c, "failed to register for event")
	default:
		util.RespondMessage(c, "registered")
	}
}

// CancelRegistration withdraws the user from an event
// DELETE /api/v1/events/:id/register
func (h *Handlers) CancelRegistration(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	eventID := c.Param("id")

	var event models.Event
	if err := database.DB.Select("id").First(&event, "id = ?", eventID).Error; err != nil {
		util.RespondNotFound(c, "event")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.EventRegistration
		findErr := tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&existing).Error
		if findErr == gorm.ErrRecordNotFound {
			return nil
		}
		if findErr != nil {
			return findErr
		}

		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		return decrementCounter(tx, &models.Event{}, eventID, "registered_count")
	})
	if err != nil {
		util.RespondInternalError(c, "failed to cancel registration")
		return
	}

	util.RespondMessage(c, "registration cancelled")
}

// ListMyEvents returns the events the user is registered for
// GET /api/v1/users/me/events
func (h *Handlers) ListMyEvents(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var eventIDs []string
	if err := database.DB.Model(&models.EventRegistration{}).
		Where("user_id = ?", userID).
		Pluck("event_id", &eventIDs).Error; err != nil {
		util.RespondInternalError(c, "failed to list registrations")
		return
	}

	events := []models.Event{}
	if len(eventIDs) > 0 {
		if err := database.DB.
			Where("id IN ?", eventIDs).
			Order("start_time ASC").
			Find(&events).Error; err != nil {
			util.RespondInternalError(c, "failed to list events")
			return
		}
	}

	util.RespondData(c, gin.H{"events": events})
}

// refreshEventStatuses rolls event statuses forward based on time.
// Called opportunistically; cancelled events are never touched.
func refreshEventStatuses(db *gorm.DB) error {
	now := time.Now()

	if err := db.Model(&models.Event{}).
		Where("status = ? AND start_time <= ?", models.EventStatusUpcoming, now).
		Update("status", models.EventStatusOngoing).Error; err != nil {
		return err
	}

	return db.Model(&models.Event{}).
		Where("status = ? AND end_time <= ?", models.EventStatusOngoing, now).
		Update("status", models.EventStatusFinished).Error
}
