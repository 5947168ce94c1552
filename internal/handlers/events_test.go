package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/campushub/backend/internal/models"
)

type EventTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	admin  *models.User
	event  *models.Event
}

func (s *EventTestSuite) SetupTest() {
	db := newTestDB(s.T())
	s.db = db

	h := NewHandlers(nil)
	s.router = gin.New()

	events := s.router.Group("/api/v1/events")
	events.Use(testAuthMiddleware(db))
	events.POST("/:id/register", h.RegisterForEvent)
	events.DELETE("/:id/register", h.CancelRegistration)

	s.admin = createAdmin(s.T(), db, "organizer")
	s.event = &models.Event{
		CreatorID: s.admin.ID,
		Title:     "career fair",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(26 * time.Hour),
		Capacity:  2,
	}
	s.Require().NoError(db.Create(s.event).Error)
}

func (s *EventTestSuite) registeredCount() int {
	var event models.Event
	s.Require().NoError(s.db.First(&event, "id = ?", s.event.ID).Error)
	return event.RegisteredCount
}

func (s *EventTestSuite) TestRegisterEnforcesCapacity() {
	users := make([]*models.User, 3)
	for i := range users {
		users[i] = createUser(s.T(), s.db, fmt.Sprintf("attendee%d", i))
	}

	for i := 0; i < 2; i++ {
		w := doJSON(s.router, http.MethodPost, "/api/v1/events/"+s.event.ID+"/register", nil, users[i].ID)
		s.Equal(http.StatusOK, w.Code)
	}
	s.Equal(2, s.registeredCount())

	// Third registration must bounce off the capacity limit
	w := doJSON(s.router, http.MethodPost, "/api/v1/events/"+s.event.ID+"/register", nil, users[2].ID)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(2, s.registeredCount())
}

func (s *EventTestSuite) TestRegisterIsIdempotent() {
	user := createUser(s.T(), s.db, "repeat")

	for i := 0; i < 3; i++ {
		w := doJSON(s.router, http.MethodPost, "/api/v1/events/"+s.event.ID+"/register", nil, user.ID)
		s.Equal(http.StatusOK, w.Code)
	}
	s.Equal(1, s.registeredCount())
}

func (s *EventTestSuite) TestCancelFreesASlot() {
	first := createUser(s.T(), s.db, "first")
	second := createUser(s.T(), s.db, "second")
	third := createUser(s.T(), s.db, "third")

	doJSON(s.router, http.MethodPost, "/api/v1/events/"+s.event.ID+"/register", nil, first.ID)
	doJSON(s.router, http.MethodPost, "/api/v1/events/"+s.event.ID+"/register", nil, second.ID)

	w := doJSON(s.router, http.MethodPost, "/api/v1/events/"+s.event.ID+"/register", nil, third.ID)
	s.Equal(http.StatusBadRequest, w.Code)

	w = doJSON(s.router, http.MethodDelete, "/api/v1/events/"+s.event.ID+"/register", nil, first.ID)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(1, s.registeredCount())

	w = doJSON(s.router, http.MethodPost, "/api/v1/events/"+s.event.ID+"/register", nil, third.ID)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(2, s.registeredCount())
}

func (s *EventTestSuite) TestCancelAndReregisterRestoresRow() {
	user := createUser(s.T(), s.db, "waffler")

	doJSON(s.router, http.MethodPost, "/api/v1/events/"+s.event.ID+"/register", nil, user.ID)
	doJSON(s.router, http.MethodDelete, "/api/v1/events/"+s.event.ID+"/register", nil, user.ID)
	doJSON(s.router, http.MethodPost, "/api/v1/events/"+s.event.ID+"/register", nil, user.ID)

	s.Equal(1, s.registeredCount())

	var rows int64
	s.db.Unscoped().Model(&models.EventRegistration{}).
		Where("event_id = ? AND user_id = ?", s.event.ID, user.ID).
		Count(&rows)
	s.Equal(int64(1), rows)
}

func (s *EventTestSuite) TestRegisterUnknownEvent404s() {
	user := createUser(s.T(), s.db, "lost")
	w := doJSON(s.router, http.MethodPost, "/api/v1/events/00000000-0000-0000-0000-000000000000/register", nil, user.ID)
	s.Equal(http.StatusNotFound, w.Code)
}

func TestEventTestSuite(t *testing.T) {
	suite.Run(t, new(EventTestSuite))
}
