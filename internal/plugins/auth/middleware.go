package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/apperror"
)

// Context keys for storing the resolved user in the Echo context. Other
// plugins use these keys via the exported getter functions below.
const (
	contextKeyUser   = "auth_user"
	contextKeyUserID = "auth_user_id"
	contextKeyToken  = "auth_token"
)

// bearerPrefix is the required Authorization header scheme.
const bearerPrefix = "Bearer "

// RequireAuth returns middleware that resolves the request's bearer token to
// a user and injects the sanitized user into the request context. A missing
// or malformed header fails with missing_credentials; an unknown or expired
// token fails with invalid_session. Both are 401s.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return apperror.NewMissingCredentials()
			}

			user, err := service.Resolve(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(contextKeyUser, user)
			c.Set(contextKeyUserID, user.ID)
			c.Set(contextKeyToken, token)

			return next(c)
		}
	}
}

// bearerToken extracts the token from a "Bearer <token>" Authorization
// header. Returns false for an absent header, a different scheme, or an
// empty token.
func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", false
	}
	return token, true
}

// --- Exported getters for other plugins ---

// CurrentUser retrieves the authenticated user from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
// The returned user is already sanitized -- it carries no password hash.
func CurrentUser(c echo.Context) *User {
	user, ok := c.Get(contextKeyUser).(*User)
	if !ok {
		return nil
	}
	return user
}

// CurrentUserID retrieves the authenticated user's ID from the Echo context.
// Returns empty string if the request is not authenticated.
func CurrentUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}

// currentToken retrieves the raw bearer token for the logout path.
func currentToken(c echo.Context) string {
	token, ok := c.Get(contextKeyToken).(string)
	if !ok {
		return ""
	}
	return token
}
