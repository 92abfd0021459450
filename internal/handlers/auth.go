package handlers

import (
	"errors"
	"net/http"

	"mini-crm/internal/auth"
	"mini-crm/internal/middleware"
	"mini-crm/internal/models"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Auth *auth.Service
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionData is the auth response body: the identity plus a bearer token.
type sessionData struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
	Token string          `json:"token"`
}

func session(u *models.User, token string) sessionData {
	return sessionData{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Token: token}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.Auth.Register(auth.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}
	respondData(c, http.StatusCreated, session(user, token))
}

// Login handles POST /api/auth/login. Unknown emails are provisioned on
// the fly — see auth.Service.LoginOrRegister.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.Auth.LoginOrRegister(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	respondData(c, http.StatusOK, session(user, token))
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	respondData(c, http.StatusOK, middleware.CurrentUser(c))
}

func respondAuthError(c *gin.Context, err error) {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, auth.ErrEmailTaken):
		respondError(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	default:
		respondError(c, http.StatusInternalServerError, "Server Error")
	}
}
