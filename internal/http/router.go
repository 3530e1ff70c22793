package api

import (
	"log/slog"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shuttlego/internal/auth"
	intconfig "shuttlego/internal/config"
	"shuttlego/internal/domain"
	h "shuttlego/internal/http/handlers"
	"shuttlego/internal/http/middleware"
	"shuttlego/internal/metrics"
	"shuttlego/internal/realtime"
)

// Deps is everything the router mounts. Hub, Metrics and Limiter are optional.
type Deps struct {
	Env     intconfig.Env
	Handler *h.Handler
	JWT     *auth.JWTService
	Metrics *metrics.Metrics
	Hub     *realtime.Hub
	Limiter *middleware.RateLimiter
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(d.Env.CORSAllowedOrigins),
		middleware.Metrics(d.Metrics),
		middleware.Authenticate(d.JWT),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		slog.Warn("failed to set trusted proxies", slog.String("error", err.Error()))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	hd := d.Handler
	signedIn := middleware.RequireAuth()

	api := r.Group("/api")
	{
		api.GET("/health", hd.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/routes", hd.Routes)
		api.GET("/catalog", hd.GetCatalog)

		if d.Hub != nil {
			api.GET("/ws", gin.WrapF(d.Hub.ServeWS))
		}

		// Auth
		authGroup := api.Group("/auth")
		authGroup.POST("/register", hd.Register)
		authGroup.POST("/login", hd.Login)
		authGroup.GET("/me", signedIn, hd.Me)

		// Bookings. Commit checks the caller itself so the 401 carries the
		// page the rider was booking from.
		bookings := api.Group("/bookings")
		bookings.GET("/availability", hd.GetAvailability)
		bookings.POST("/quote", hd.Quote)
		commit := []gin.HandlerFunc{}
		if d.Limiter != nil {
			commit = append(commit, d.Limiter.Handler())
		}
		bookings.POST("", append(commit, hd.CommitBooking)...)
		bookings.GET("", signedIn, hd.ListBookings)
		bookings.GET("/active", signedIn, hd.ActiveBookings)
		bookings.GET("/:id", signedIn, hd.GetBooking)
		bookings.POST("/:id/cancel", signedIn, hd.CancelBooking)
		bookings.GET("/:id/boarding-pass", signedIn, hd.BoardingPass)

		// Notifications
		notifications := api.Group("/notifications", signedIn)
		notifications.GET("", hd.ListNotifications)
		notifications.GET("/unread-count", hd.UnreadCount)
		notifications.POST("/read-all", hd.MarkAllNotificationsRead)
		notifications.POST("/:id/read", hd.MarkNotificationRead)
		notifications.POST("/broadcast", middleware.RequireRoles(domain.RoleAdmin), hd.BroadcastNotification)

		api.GET("/dashboard", signedIn, hd.GetDashboard)

		// Tracking
		api.GET("/tracking/shuttles", hd.TrackShuttles)
		api.GET("/tracking/map", hd.TrackingMap)
		api.PUT("/shuttles/:id/location", signedIn, middleware.RequireRoles(domain.RoleDriver, domain.RoleAdmin), hd.UpdateShuttleLocation)

		// Profile, settings, feedback
		api.GET("/profile", signedIn, hd.GetProfile)
		api.PUT("/profile", signedIn, hd.UpdateProfile)
		api.GET("/settings", signedIn, hd.GetSettings)
		api.PUT("/settings", signedIn, hd.PutSettings)
		api.POST("/feedback", signedIn, hd.SubmitFeedback)
		api.GET("/feedback", signedIn, hd.ListFeedback)
	}

	h.SetRouter(r)
	return r
}
