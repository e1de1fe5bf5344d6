package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmfintech/bytebank_backend/models"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUp handles POST /user.
func (a *API) SignUp(c *gin.Context) {
	var input models.NewUser
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	user, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "User created successfully", user)
}

// Login handles POST /user/auth.
func (a *API) Login(c *gin.Context) {
	var input loginRequest
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	info, err := models.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Authentication successful", info)
}

// GetUsers handles GET /user.
func (a *API) GetUsers(c *gin.Context) {
	users, err := models.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Users retrieved successfully", users)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ChangePassword handles PUT /user/password. All sessions are revoked on
// success, including the one making the request.
func (a *API) ChangePassword(c *gin.Context) {
	var input changePasswordRequest
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	user, err := models.ChangePassword(c.Request.Context(), input.OldPassword, input.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	user.PrepareGive()
	respond(c, http.StatusOK, "Password changed successfully", user)
}

// Logout handles POST /user/logout, revoking the current token.
func (a *API) Logout(c *gin.Context) {
	if _, err := models.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Logged out successfully", nil)
}
