package app

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/plugins/activity"
	"github.com/xelaconnect/backend/internal/plugins/auth"
	"github.com/xelaconnect/backend/internal/plugins/circles"
	"github.com/xelaconnect/backend/internal/plugins/companion"
	"github.com/xelaconnect/backend/internal/plugins/connections"
	"github.com/xelaconnect/backend/internal/plugins/courses"
	"github.com/xelaconnect/backend/internal/plugins/messaging"
	"github.com/xelaconnect/backend/internal/plugins/presence"
	"github.com/xelaconnect/backend/internal/plugins/safety"
	"github.com/xelaconnect/backend/internal/plugins/users"
	"github.com/xelaconnect/backend/internal/plugins/video"
)

// RegisterRoutes builds every plugin's dependency chain and mounts its
// routes under /api. This is the single place where all routes are
// aggregated; a new plugin gets wired here.
func (a *App) RegisterRoutes() {
	e := a.Echo
	logger := slog.Default()

	// Health check endpoint for container orchestration.
	e.GET("/healthz", func(c echo.Context) error {
		if err := a.DB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- Repositories ---
	userRepo := auth.NewUserRepository(a.DB)
	sessionRepo := auth.NewSessionRepository(a.DB)
	profileRepo := users.NewUserRepository(a.DB)
	conversationRepo := messaging.NewConversationRepository(a.DB)
	presenceRepo := presence.NewPresenceRepository(a.DB)
	safetyRepo := safety.NewSafetyRepository(a.DB)
	connectionRepo := connections.NewConnectionRepository(a.DB)
	circleRepo := circles.NewCircleRepository(a.DB)
	courseRepo := courses.NewCourseRepository(a.DB)
	activityRepo := activity.NewActivityRepository(a.DB)

	// --- Services ---
	identityClient := auth.NewIdentityClient(a.Config.Identity.URL, a.Config.Identity.Timeout)
	authService := auth.NewAuthService(userRepo, sessionRepo, identityClient, a.Config.Auth.SessionTTL)
	userService := users.NewUserService(profileRepo)
	conversationService := messaging.NewConversationService(conversationRepo, profileRepo)
	typingStore := messaging.NewTypingStore(a.Redis)
	presenceService := presence.NewPresenceService(presenceRepo, profileRepo)
	safetyService := safety.NewSafetyService(safetyRepo, profileRepo, logger)
	connectionService := connections.NewConnectionService(connectionRepo, profileRepo, logger)
	circleService := circles.NewCircleService(circleRepo, logger)
	courseService := courses.NewCourseService(courseRepo)
	chatClient := companion.NewChatClient(a.Config.AI)
	companionService := companion.NewCompanionService(conversationService, chatClient, logger)
	roomClient := video.NewRoomClient(a.Config.Video)
	videoService := video.NewVideoService(roomClient, logger)
	activityService := activity.NewActivityService(activityRepo)

	// --- Routes ---
	requireAuth := auth.RequireAuth(authService)

	api := e.Group("/api")
	auth.RegisterRoutes(api, auth.NewHandler(authService), requireAuth)
	presence.RegisterRoutes(api, presence.NewHandler(presenceService), requireAuth)
	circles.RegisterRoutes(api, circles.NewHandler(circleService), requireAuth)
	courses.RegisterRoutes(api, courses.NewHandler(courseService), requireAuth)

	// Everything below requires a session.
	authed := api.Group("", requireAuth)
	users.RegisterRoutes(authed, users.NewHandler(userService))
	messaging.RegisterRoutes(authed, messaging.NewHandler(conversationService, typingStore))
	safety.RegisterRoutes(authed, safety.NewHandler(safetyService))
	connections.RegisterRoutes(authed, connections.NewHandler(connectionService))
	companion.RegisterRoutes(authed, companion.NewHandler(companionService))
	video.RegisterRoutes(authed, video.NewHandler(videoService))
	activity.RegisterRoutes(authed, activity.NewHandler(activityService))
}
