package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/logger"
	"github.com/campushub/backend/internal/models"
)

type ServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *Service
}

func (s *ServiceTestSuite) SetupTest() {
	logger.InitializeForTest()

	dsn := fmt.Sprintf("file:auth_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&models.User{}))

	s.db = db
	database.DB = db
	s.svc = NewService([]byte("test-secret"))
}

func (s *ServiceTestSuite) register(email, username string) *AuthResponse {
	resp, err := s.svc.Register(RegisterRequest{
		Email:    email,
		Username: username,
		Password: "correct-horse",
		Nickname: username,
	})
	s.Require().NoError(err)
	return resp
}

func (s *ServiceTestSuite) TestRegisterAndLogin() {
	reg := s.register("alice@campus.test", "alice")
	s.NotEmpty(reg.Token)
	s.Equal("alice", reg.User.Username)
	s.True(reg.ExpiresAt.After(time.Now()))

	login, err := s.svc.Login(LoginRequest{
		Email:    "alice@campus.test",
		Password: "correct-horse",
	})
	s.Require().NoError(err)
	s.Equal(reg.User.ID, login.User.ID)
	s.NotNil(login.User.LastActiveAt)
}

func (s *ServiceTestSuite) TestRegisterDuplicateEmail() {
	s.register("alice@campus.test", "alice")

	_, err := s.svc.Register(RegisterRequest{
		Email:    "ALICE@campus.test",
		Username: "alice2",
		Password: "correct-horse",
		Nickname: "alice2",
	})
	s.ErrorIs(err, ErrUserExists)
}

func (s *ServiceTestSuite) TestRegisterDuplicateUsername() {
	s.register("alice@campus.test", "alice")

	_, err := s.svc.Register(RegisterRequest{
		Email:    "other@campus.test",
		Username: "Alice",
		Password: "correct-horse",
		Nickname: "other",
	})
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceTestSuite) TestLoginWrongPassword() {
	s.register("alice@campus.test", "alice")

	_, err := s.svc.Login(LoginRequest{
		Email:    "alice@campus.test",
		Password: "wrong-password",
	})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestLoginUnknownEmail() {
	_, err := s.svc.Login(LoginRequest{
		Email:    "nobody@campus.test",
		Password: "whatever12",
	})
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ServiceTestSuite) TestLoginBannedUser() {
	reg := s.register("alice@campus.test", "alice")
	s.Require().NoError(s.db.Model(&models.User{}).
		Where("id = ?", reg.User.ID).
		Update("status", models.UserStatusBanned).Error)

	_, err := s.svc.Login(LoginRequest{
		Email:    "alice@campus.test",
		Password: "correct-horse",
	})
	s.ErrorIs(err, ErrUserBanned)
}

func (s *ServiceTestSuite) TestValidateToken() {
	reg := s.register("alice@campus.test", "alice")

	user, err := s.svc.ValidateToken(reg.Token)
	s.Require().NoError(err)
	s.Equal(reg.User.ID, user.ID)
}

func (s *ServiceTestSuite) TestValidateTokenWrongSecret() {
	reg := s.register("alice@campus.test", "alice")

	other := NewService([]byte("different-secret"))
	_, err := other.ValidateToken(reg.Token)
	s.Error(err)
}

func (s *ServiceTestSuite) TestValidateTokenBannedUser() {
	reg := s.register("alice@campus.test", "alice")
	s.Require().NoError(s.db.Model(&models.User{}).
		Where("id = ?", reg.User.ID).
		Update("status", models.UserStatusBanned).Error)

	_, err := s.svc.ValidateToken(reg.Token)
	s.ErrorIs(err, ErrUserBanned)
}

func (s *ServiceTestSuite) TestValidateGarbageToken() {
	_, err := s.svc.ValidateToken("not.a.token")
	s.Error(err)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
