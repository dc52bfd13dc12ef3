package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/OldStager01/latency-dashboard/api/docs"
	"github.com/OldStager01/latency-dashboard/api/handlers"
	"github.com/OldStager01/latency-dashboard/api/middleware"
	"github.com/OldStager01/latency-dashboard/api/websocket"
	"github.com/OldStager01/latency-dashboard/internal/auth"
	"github.com/OldStager01/latency-dashboard/internal/chart"
	"github.com/OldStager01/latency-dashboard/internal/dashboard"
	"github.com/OldStager01/latency-dashboard/internal/events"
	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/internal/metrics"
	"github.com/OldStager01/latency-dashboard/pkg/config"
	"github.com/OldStager01/latency-dashboard/pkg/database"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

const maxRequestBody = 1 << 20

// Dependencies are the collaborators the API serves. DB and History are
// nil when status history is disabled; Bus may be nil when nothing should
// be pushed to websocket clients.
type Dependencies struct {
	Service *dashboard.Service
	Bus     *events.EventBus
	DB      *database.DB
	History handlers.HistoryStore
	Metrics *metrics.Metrics
}

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      *config.Config
	deps        Dependencies
	authService *auth.Service
	wsHub       *websocket.Hub
	wsBridge    *websocket.EventBridge
	cancel      context.CancelFunc
}

func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	if cfg.App.Mode == "development" || cfg.API.JWTSecret == config.DefaultJWTSecret {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Get()
	}

	tmpl, err := handlers.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	authService := auth.NewService(cfg.API.JWTSecret, cfg.API.JWTDuration)
	if cfg.API.JWTIssuer != "" {
		authService = authService.WithIssuer(cfg.API.JWTIssuer)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		router:      router,
		config:      cfg,
		deps:        deps,
		authService: authService,
		wsHub:       websocket.NewHub(&cfg.WebSocket),
		cancel:      cancel,
	}

	s.setupMiddleware()
	s.setupRoutes()

	go s.wsHub.Run(ctx)

	// Forward evaluations and reloads to websocket clients
	if deps.Bus != nil {
		eventsChan := deps.Bus.Subscribe(
			models.EventTypeStatusEvaluated,
			models.EventTypeDatasetLoaded,
			models.EventTypeDatasetReloadFailed,
			models.EventTypeAlert,
		)
		s.wsBridge = websocket.NewEventBridge(s.wsHub, eventsChan)
		s.wsBridge.Start()
	}

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(s.config.API.CORS))
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.RequestSizeLimit(maxRequestBody))

	rateLimiter := middleware.NewRateLimiter(s.config.API.RateLimit, time.Minute)
	s.router.Use(middleware.RateLimit(rateLimiter))

	endpointLimiter := middleware.NewEndpointRateLimiter()
	endpointLimiter.AddEndpoint(http.MethodPost, "/auth/login", 5, time.Minute)
	endpointLimiter.AddEndpoint(http.MethodPost, "/api/reload", s.config.API.ReloadLimit, time.Minute)
	s.router.Use(endpointLimiter.Middleware())
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.deps.Service, s.deps.DB)
	dashboardHandler := handlers.NewDashboardHandler(s.deps.Service, s.config.Data.ExportFilename)
	historyHandler := handlers.NewHistoryHandler(s.deps.History, s.config.History.DefaultLimit, s.config.History.MaxLimit)

	// Public routes
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)
	s.router.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/", dashboardHandler.Page)
	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	api := s.router.Group("/api")
	{
		api.GET("/servers", dashboardHandler.Servers)
		api.GET("/view", dashboardHandler.View)
		api.GET("/status", dashboardHandler.Status)
		api.GET("/chart.png", dashboardHandler.Chart(chart.FormatPNG))
		api.GET("/chart.svg", dashboardHandler.Chart(chart.FormatSVG))
		api.GET("/export", dashboardHandler.Export)
		api.GET("/history", historyHandler.List)
	}

	// Reload swaps the served table, so it needs a token once an operator
	// is configured
	if s.config.API.Auth.Enabled {
		operator := auth.Operator{
			Username:     s.config.API.Auth.Username,
			PasswordHash: s.config.API.Auth.PasswordHash,
		}
		authHandler := handlers.NewAuthHandler(operator, s.authService)
		s.router.POST("/auth/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.JWTAuth(s.authService))
		protected.POST("/reload", dashboardHandler.Reload)
	} else {
		api.POST("/reload", dashboardHandler.Reload)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.API.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.API.ReadTimeout,
		WriteTimeout: s.config.API.WriteTimeout,
		IdleTimeout:  s.config.API.IdleTimeout,
	}

	logger.Infof("API server listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the event bridge first
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}
	s.cancel()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
