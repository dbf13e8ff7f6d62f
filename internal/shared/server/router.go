package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumematch-backend/internal/analysis"
	loginauth "resumematch-backend/internal/auth"
	"resumematch-backend/internal/documents"
	"resumematch-backend/internal/llm"
	"resumematch-backend/internal/llm/gemini"
	"resumematch-backend/internal/llm/openai"
	"resumematch-backend/internal/rewrite"
	"resumematch-backend/internal/shared/config"
	"resumematch-backend/internal/shared/metrics"
	"resumematch-backend/internal/shared/server/middleware"
	"resumematch-backend/internal/shared/server/respond"
	"resumematch-backend/internal/shared/storage/db"
	"resumematch-backend/internal/shared/storage/object"
	localstore "resumematch-backend/internal/shared/storage/object/local"
	s3store "resumematch-backend/internal/shared/storage/object/s3"
	"resumematch-backend/internal/usage"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(rateLimitConfig()),
	)

	// Dependencies
	store := newObjectStore(cfg)
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, opts)
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var docRepo documents.Repo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}
	docSvc := &documents.Service{Store: store, Repo: docRepo}
	docHandler := documents.NewHandler(docSvc)

	var usageSvc *usage.Service
	if sqlDB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(sqlDB, cfg.FreeAnalyses))
	} else {
		usageSvc = usage.NewService(cfg.FreeAnalyses)
	}
	usageHandler := usage.NewHandler(usageSvc, cfg.Env == "dev")

	llmClient := newLLMClient(cfg)

	var analysisRepo analysis.Repo
	if sqlDB != nil {
		analysisRepo = &analysis.PGRepo{DB: sqlDB}
	} else {
		analysisRepo = analysis.NewMemoryRepo()
	}
	analysisSvc := &analysis.Service{
		Repo:     analysisRepo,
		Usage:    usageSvc,
		DocRepo:  docRepo,
		Store:    store,
		LLM:      llmClient,
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
	}
	analysisHandler := analysis.NewHandler(analysisSvc)

	rewriteSvc := &rewrite.Service{LLM: llmClient}
	rewriteHandler := rewrite.NewHandler(rewriteSvc, analysisSvc)

	loginSvc := loginauth.NewService(cfg.AppUser, cfg.AppPass)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	loginSvc.RegisterRoutes(api)
	registerMeRoutes(api)
	docHandler.RegisterRoutes(api)
	analysisHandler.RegisterRoutes(api)
	rewriteHandler.RegisterRoutes(api)
	usageHandler.RegisterRoutes(api)

	return r
}

// rateLimitConfig keeps model-backed endpoints on a tight budget while
// status polling stays cheap.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			path := c.FullPath()
			switch {
			case c.Request.Method == http.MethodPost &&
				(path == "/api/v1/documents/:id/analyze" ||
					path == "/api/v1/analyses/:id/rewrite" ||
					path == "/api/v1/analyses/:id/summary"):
				return "LLM"
			case c.Request.Method == http.MethodGet && path == "/api/v1/analyses/:id":
				return "POLLING"
			default:
				return "DEFAULT"
			}
		},
		Rules: map[string]middleware.RateLimitRule{
			"LLM":     {Rate: 0.2, Burst: 3},
			"POLLING": {Rate: 5, Burst: 10},
		},
	}
}

func newObjectStore(cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Printf("failed to init s3 store, falling back to local: %v", err)
		} else {
			return store
		}
	}
	return localstore.New(cfg.LocalStoreDir)
}

func newLLMClient(cfg config.Config) llm.Client {
	if cfg.LLMProvider == "gemini" {
		client, err := gemini.NewClient(context.Background(), cfg.LLMAPIKey, cfg.LLMModel)
		if err != nil {
			log.Printf("failed to init gemini client: %v", err)
			return nil
		}
		return client
	}
	client, err := openai.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	if err != nil {
		log.Printf("failed to init llm client: %v", err)
		return nil
	}
	return client
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
