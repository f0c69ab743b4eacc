package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/admission-portal/internal/api/middleware"
	"github.com/linskybing/admission-portal/internal/application"
	"github.com/linskybing/admission-portal/internal/config"
	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/pkg/response"
)

const tokenCookie = "token"

type AuthHandler struct {
	svc *application.AuthService
}

func NewAuthHandler(svc *application.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary Admin login
// @Description Exchanges admin credentials with the admissions backend and opens a dashboard session.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body admission.LoginDTO true "Admin credentials"
// @Success 200 {object} response.TokenResponse "Dashboard token and admin info"
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 401 {object} response.ErrorResponse "Invalid email or password"
// @Failure 502 {object} response.ErrorResponse "Backend unavailable"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input admission.LoginDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: bindError(err)})
		return
	}

	res, err := h.svc.Login(c.Request.Context(), strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		tokenCookie,
		res.Token,
		int(time.Until(res.ExpiresAt).Seconds()),
		"/",
		"",
		config.IsProduction,
		true,
	)

	c.JSON(http.StatusOK, response.TokenResponse{
		Token:     res.Token,
		AdminID:   res.Admin.ID,
		AdminName: res.Admin.FullName,
		Email:     res.Admin.Email,
	})
}

// Logout godoc
// @Summary Admin logout
// @Description Clears the stored backend credential and the dashboard cookie. Succeeds without a session.
// @Tags auth
// @Produce json
// @Success 200 {object} response.MessageResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims := middleware.OptionalClaims(c); claims != nil {
		if err := h.svc.Logout(c.Request.Context(), claims.SessionID); err != nil {
			respondError(c, err)
			return
		}
	}

	c.SetCookie(tokenCookie, "", -1, "/", "", config.IsProduction, true)
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Logout successful"})
}

type statusResponse struct {
	Status    string                 `json:"status"`
	Admin     admission.AdminProfile `json:"admin"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// Status godoc
// @Summary Session status
// @Description Reports whether the stored backend credential is still usable.
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} statusResponse
// @Failure 401 {object} response.ErrorResponse "Session expired"
// @Router /auth/status [get]
func (h *AuthHandler) Status(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "token expired", Code: response.CodeSessionExpired})
		return
	}

	cred, err := h.svc.Status(c.Request.Context(), claims.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{Status: "valid", Admin: cred.Admin, ExpiresAt: cred.ExpiresAt})
}
