package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/middleware"
)

// Handler handles HTTP requests for authentication. Handlers are thin: they
// bind the request, call the service, and render the response. No business
// logic lives here.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		return err
	}

	user, token, err := h.service.Signup(c.Request().Context(), SignupInput{
		Email:     req.Email,
		Name:      req.Name,
		Password:  req.Password,
		Age:       req.Age,
		City:      req.City,
		Bio:       req.Bio,
		Interests: req.Interests,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AuthResponse{User: user, SessionToken: token})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		return err
	}

	user, token, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AuthResponse{User: user, SessionToken: token})
}

// GoogleAuth handles POST /api/auth/google.
func (h *Handler) GoogleAuth(c echo.Context) error {
	var req GoogleAuthRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		return err
	}

	user, token, err := h.service.GoogleLogin(c.Request().Context(), req.SessionID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AuthResponse{User: user, SessionToken: token})
}

// Me handles GET /api/auth/me. The middleware has already resolved and
// sanitized the user.
func (h *Handler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]*User{"user": CurrentUser(c)})
}

// Logout handles POST /api/auth/logout, revoking the presented token only.
// Other sessions for the same user stay valid until their own expiry.
func (h *Handler) Logout(c echo.Context) error {
	if err := h.service.Logout(c.Request().Context(), currentToken(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out successfully"})
}
