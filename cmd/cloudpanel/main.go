package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"cloudpanel/internal/config"
	"cloudpanel/internal/directory"
	"cloudpanel/internal/handlers"
	"cloudpanel/internal/middleware"
	"cloudpanel/internal/monitor"
	"cloudpanel/internal/store"
	"cloudpanel/internal/utils"
)

// App bundles the wired services behind the router.
type App struct {
	identity    *store.IdentityStore
	support     *store.SupportStore
	alerts      *store.AlertsStore
	servers     *store.ServersStore
	authService *middleware.AuthService
	wsHub       *middleware.Hub
	rateLimiter *middleware.RateLimiter
	telemetry   *monitor.Telemetry
	sweeper     *monitor.Sweeper
	dirClient   *directory.Client
	logger      *utils.Logger
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to YAML configuration")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("GIN_MODE") == "" && cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := utils.NewLogger(cfg.Storage.LogFile)
	defer logger.Close()

	snaps, err := store.NewFileSnapshots(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot storage: %v", err)
	}

	identity, err := store.NewIdentityStore(snaps)
	if err != nil {
		log.Fatalf("Failed to load identity store: %v", err)
	}
	support, err := store.NewSupportStore(snaps)
	if err != nil {
		log.Fatalf("Failed to load support store: %v", err)
	}
	alerts, err := store.NewAlertsStore(snaps)
	if err != nil {
		log.Fatalf("Failed to load alerts store: %v", err)
	}
	servers, err := store.NewServersStore(snaps,
		config.ParseDuration(cfg.Simulation.StartDelay, 3*time.Second),
		config.ParseDuration(cfg.Simulation.StopDelay, 2*time.Second),
	)
	if err != nil {
		log.Fatalf("Failed to load servers store: %v", err)
	}

	app := &App{
		identity: identity,
		support:  support,
		alerts:   alerts,
		servers:  servers,
		authService: middleware.NewAuthService(cfg.Auth.JWTSecret,
			config.ParseDuration(cfg.Auth.TokenExpiry, 24*time.Hour)),
		wsHub:       middleware.NewHub(logger),
		rateLimiter: middleware.NewRateLimiter(rate.Every(time.Minute/100), 10),
		telemetry:   monitor.NewTelemetry(),
		sweeper:     monitor.NewSweeper(servers, alerts, logger),
		dirClient: directory.NewClient(cfg.Directory.BaseURL,
			config.ParseDuration(cfg.Directory.Timeout, 10*time.Second)),
		logger: logger,
	}

	// Instance changes (lifecycle flips, metric ticks) stream to clients.
	servers.SetOnChange(func() {
		payload, err := json.Marshal(gin.H{"type": "instances", "instances": servers.Instances()})
		if err != nil {
			return
		}
		app.wsHub.Broadcast(payload)
	})

	go app.wsHub.Run()
	app.telemetry.Start()
	servers.StartSimulator(config.ParseDuration(cfg.Simulation.MetricInterval, 5*time.Second))
	if err := app.sweeper.Start(cfg.Alerts.SweepSchedule); err != nil {
		log.Fatalf("Failed to start alert sweep: %v", err)
	}

	r := setupRouter(app)

	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	app.sweeper.Stop()
	app.telemetry.Stop()
	app.servers.Shutdown()
	app.rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func setupRouter(app *App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(app.rateLimiter.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandlers := handlers.NewAuthHandlers(app.identity, app.authService, app.dirClient, app.logger)
	supportHandlers := handlers.NewSupportHandlers(app.support, app.identity)
	alertHandlers := handlers.NewAlertHandlers(app.alerts)
	serverHandlers := handlers.NewServerHandlers(app.servers)
	systemHandlers := handlers.NewSystemHandlers(app.telemetry)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandlers.Register)
		auth.POST("/login", authHandlers.Login)
		auth.POST("/logout", authHandlers.Logout)
	}

	protected := api.Group("")
	protected.Use(app.authService.RequireAuth())
	{
		protected.GET("/auth/me", authHandlers.Me)

		protected.POST("/tickets", supportHandlers.SubmitTicket)
		protected.GET("/tickets", supportHandlers.ListTickets)
		protected.GET("/tickets/open", supportHandlers.OpenTickets)
		protected.POST("/tickets/:id/auto-response/:answer_id", supportHandlers.AutoRespond)
		protected.GET("/answers", supportHandlers.ListAnswers)

		protected.GET("/alerts", alertHandlers.List)
		protected.POST("/alerts", alertHandlers.Add)
		protected.POST("/alerts/:id/toggle-read", alertHandlers.ToggleRead)
		protected.POST("/alerts/:id/resolve", alertHandlers.Resolve)
		protected.DELETE("/alerts/:id", alertHandlers.Delete)
		protected.GET("/alerts/settings", alertHandlers.GetSettings)

		protected.GET("/servers/catalog", serverHandlers.Catalog)
		protected.POST("/servers/recommendations", serverHandlers.Recommend)
		protected.GET("/servers/requirements", serverHandlers.GetRequirements)
		protected.PUT("/servers/requirements", serverHandlers.SetRequirements)
		protected.DELETE("/servers/requirements", serverHandlers.ClearRequirements)
		protected.GET("/servers/instances", serverHandlers.ListInstances)
		protected.POST("/servers/instances", serverHandlers.CreateInstance)
		protected.GET("/servers/instances/:id", serverHandlers.GetInstance)
		protected.DELETE("/servers/instances/:id", serverHandlers.DeleteInstance)
		protected.POST("/servers/instances/:id/start", serverHandlers.Start)
		protected.POST("/servers/instances/:id/stop", serverHandlers.Stop)
		protected.POST("/servers/instances/:id/restart", serverHandlers.Restart)
		protected.POST("/servers/instances/:id/cancel", serverHandlers.CancelTransition)
		protected.GET("/servers/instances/:id/events", serverHandlers.ListEvents)
		protected.DELETE("/servers/instances/:id/events/:event_id", serverHandlers.DeleteEvent)
	}

	admin := api.Group("")
	admin.Use(app.authService.RequireAuth(), middleware.RequireAdmin())
	{
		admin.POST("/tickets/:id/respond", supportHandlers.Respond)
		admin.POST("/tickets/:id/close", supportHandlers.CloseTicket)
		admin.DELETE("/tickets/:id", supportHandlers.DeleteTicket)
		admin.POST("/tickets/clear-closed", supportHandlers.ClearClosed)
		admin.POST("/answers", supportHandlers.AddAnswer)
		admin.DELETE("/answers/:id", supportHandlers.DeleteAnswer)

		admin.POST("/alerts/generate-mock", alertHandlers.GenerateMock)
		admin.POST("/alerts/reset", alertHandlers.Reset)
		admin.PUT("/alerts/settings", alertHandlers.UpdateSettings)

		admin.GET("/system/health", systemHandlers.Health)
	}

	r.GET("/ws", app.wsHub.HandleWebSocket())

	return r
}
