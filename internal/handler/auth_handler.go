package handler

import (
	"net/http"

	"paintflow-api/internal/middleware"
	"paintflow-api/internal/service"
	"paintflow-api/pkg/logger"
	"paintflow-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login, and refresh token rotation
type AuthHandler struct {
	sessions *service.SessionService
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// Register creates a new account and signs the user in
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	user, err := h.sessions.Register(req.Email, req.Password, req.FullName, req.Phone)
	if err != nil {
		log.Warn("Registration failed", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("register_failed")
		return respondError(c, err)
	}

	pair, err := h.sessions.IssueTokenPair(user)
	if err != nil {
		log.Error("Failed to issue tokens after registration", zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RegisterCounter.Inc()
	prometheus.TokensIssuedCounter.Inc()
	log.Info("User registered", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusCreated, pair)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates credentials and issues a token pair
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	user, err := h.sessions.Authenticate(req.Email, req.Password)
	if err != nil {
		log.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("login_failed")
		return respondError(c, err)
	}

	pair, err := h.sessions.IssueTokenPair(user)
	if err != nil {
		log.Error("Failed to issue tokens", zap.Error(err))
		return respondError(c, err)
	}

	prometheus.LoginCounter.Inc()
	prometheus.TokensIssuedCounter.Inc()
	log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return c.JSON(http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates a refresh token and returns a fresh pair
func (h *AuthHandler) Refresh(c echo.Context) error {
	log := logger.FromEcho(c)

	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	pair, err := h.sessions.Refresh(req.RefreshToken)
	if err != nil {
		log.Warn("Refresh token rejected", zap.Error(err))
		prometheus.RecordAuthError("refresh_failed")
		return respondError(c, err)
	}

	prometheus.TokensRefreshedCounter.Inc()
	return c.JSON(http.StatusOK, pair)
}

// Logout revokes the presented refresh token. Always answers 200: revoking an
// already-dead token is not an error worth telling the caller about.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	if h.sessions.Revoke(req.RefreshToken) {
		prometheus.TokensRevokedCounter.Inc()
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	user, err := h.sessions.UserByID(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
