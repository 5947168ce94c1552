package handlers

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/backend/internal/auth"
	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/util"
)

// Register creates a new account
// POST /api/v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Register(req)
	if err != nil {
		switch err {
		case auth.ErrUserExists:
			util.RespondValidationError(c, "email", "email already registered")
		case auth.ErrUsernameExists:
			util.RespondValidationError(c, "username", "username already taken")
		default:
			util.RespondInternalError(c, "registration failed")
		}
		return
	}

	h.indexUserAsync(&resp.User)

	util.RespondCreated(c, resp)
}

// Login authenticates with email and password
// POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		switch err {
		case auth.ErrUserBanned:
			util.RespondForbidden(c, "account is banned")
		case auth.ErrInvalidCredentials, auth.ErrUserNotFound:
			util.RespondUnauthorized(c, "invalid email or password")
		default:
			util.RespondInternalError(c, "login failed")
		}
		return
	}

	util.RespondData(c, resp)
}

// GetMe returns the authenticated user's own record
// GET /api/v1/auth/me
func (h *Handlers) GetMe(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	util.RespondData(c, user)
}

// UpdateMeRequest holds the editable profile fields
type UpdateMeRequest struct {
	Nickname  *string `json:"nickname" binding:"omitempty,min=1,max=50"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=500"`
	College   *string `json:"college" binding:"omitempty,max=100"`
	Major     *string `json:"major" binding:"omitempty,max=100"`
}

// UpdateMe updates the authenticated user's profile
// PUT /api/v1/users/me
func (h *Handlers) UpdateMe(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.College != nil {
		updates["college"] = *req.College
	}
	if req.Major != nil {
		updates["major"] = *req.Major
	}
	if len(updates) == 0 {
		util.RespondBadRequest(c, "no fields to update")
		return
	}

	if err := database.DB.Model(user).Updates(updates).Error; err != nil {
		util.RespondInternalError(c, "failed to update profile")
		return
	}

	h.indexUserAsync(user)

	util.RespondData(c, user)
}

// ChangePasswordRequest carries the old and new password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword rotates the authenticated user's password
// POST /api/v1/auth/change-password
func (h *Handlers) ChangePassword(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		util.RespondUnauthorized(c, "old password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		util.RespondInternalError(c, "failed to hash password")
		return
	}

	if err := database.DB.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		util.RespondInternalError(c, "failed to update password")
		return
	}

	util.RespondMessage(c, "password updated")
}
