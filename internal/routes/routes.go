package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/templui/workoutbuddy/internal/app"
	"github.com/templui/workoutbuddy/internal/handler"
	"github.com/templui/workoutbuddy/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	goal := handler.NewGoalHandler(app.GoalService)
	workout := handler.NewWorkoutHandler(app.WorkoutService)
	progress := handler.NewProgressHandler(app.ProgressService)
	buddy := handler.NewBuddyHandler(app.BuddyService)
	notification := handler.NewNotificationHandler(app.NotificationService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	if app.Cfg.MetricsEnabled {
		var metricsHandler http.Handler = promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})
		if app.Cfg.MetricsProtected() {
			metricsHandler = middleware.BasicAuth(app.Cfg.MetricsUser, app.Cfg.MetricsPass)(metricsHandler)
		}
		mux.Handle("GET /metrics", metricsHandler)
	}

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Goal
	mux.HandleFunc("GET /api/goal", middleware.RequireAuth(goal.State))
	mux.HandleFunc("PUT /api/goal", middleware.RequireAuth(goal.Set))
	mux.HandleFunc("DELETE /api/goal", middleware.RequireAuth(goal.Clear))
	mux.HandleFunc("GET /api/goal/history", middleware.RequireAuth(goal.History))

	// Workouts
	mux.HandleFunc("GET /api/workouts", middleware.RequireAuth(workout.List))
	mux.HandleFunc("POST /api/workouts", middleware.RequireAuth(workout.Start))
	mux.HandleFunc("POST /api/workouts/start-with-goal", middleware.RequireAuth(workout.StartWithGoal))
	mux.HandleFunc("GET /api/workouts/current", middleware.RequireAuth(workout.Current))
	mux.HandleFunc("GET /api/workouts/{id}", middleware.RequireAuth(workout.Show))
	mux.HandleFunc("GET /api/workouts/{id}/in-progress", middleware.RequireAuth(workout.InProgress))
	mux.HandleFunc("POST /api/workouts/{id}/complete", middleware.RequireAuth(workout.Complete))
	mux.HandleFunc("POST /api/workouts/{id}/cancel", middleware.RequireAuth(workout.Cancel))
	mux.HandleFunc("GET /api/workouts/{id}/reactions", middleware.RequireAuth(workout.Reactions))
	mux.HandleFunc("POST /api/workouts/{id}/reactions", middleware.RequireAuth(workout.React))

	// Progress
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(progress.Weekly))
	mux.HandleFunc("GET /api/progress/buddies", middleware.RequireAuth(progress.Buddies))

	// Buddies
	mux.HandleFunc("GET /api/buddies", middleware.RequireAuth(buddy.List))
	mux.HandleFunc("GET /api/buddies/pending", middleware.RequireAuth(buddy.Pending))
	mux.HandleFunc("GET /api/buddies/search", middleware.RequireAuth(buddy.Search))
	mux.HandleFunc("POST /api/buddies/requests", middleware.RequireAuth(buddy.SendRequest))
	mux.HandleFunc("POST /api/buddies/requests/{id}/accept", middleware.RequireAuth(buddy.Accept))
	mux.HandleFunc("POST /api/buddies/requests/{id}/reject", middleware.RequireAuth(buddy.Reject))
	mux.HandleFunc("DELETE /api/buddies/{userId}", middleware.RequireAuth(buddy.Remove))

	// Notifications
	mux.HandleFunc("GET /api/notifications", middleware.RequireAuth(notification.List))
	mux.HandleFunc("GET /api/notifications/unread", middleware.RequireAuth(notification.Unread))
	mux.HandleFunc("GET /api/notifications/check-new", middleware.RequireAuth(notification.CheckNew))
	mux.HandleFunc("POST /api/notifications/read-all", middleware.RequireAuth(notification.MarkAllRead))
	mux.HandleFunc("GET /api/notifications/{id}", middleware.RequireAuth(notification.Show))
	mux.HandleFunc("POST /api/notifications/{id}/read", middleware.RequireAuth(notification.MarkRead))
	mux.HandleFunc("DELETE /api/notifications/{id}", middleware.RequireAuth(notification.Delete))

	// Global middleware - executed in order (top to bottom)
	rateLimiter := middleware.NewRateLimiter(app.Cfg.RateLimitRPS, app.Cfg.RateLimitBurst)
	handler := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Auth(app.TokenService), // user id must be known before logging and rate limiting
		middleware.RequestLogging,
		middleware.Monitor,
		middleware.RateLimit(rateLimiter), // mutating methods only
	)

	return handler
}
