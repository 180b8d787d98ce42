package main

import (
	"context"

	appcontext "github.com/dsnakex/Biotech-Dashboard/internal/app_context"
	"github.com/dsnakex/Biotech-Dashboard/internal/auth"
	"github.com/dsnakex/Biotech-Dashboard/internal/config"
	"github.com/dsnakex/Biotech-Dashboard/internal/controller"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/env"
	filestorage "github.com/dsnakex/Biotech-Dashboard/internal/file_storage"
	"github.com/dsnakex/Biotech-Dashboard/internal/mailer"
	"github.com/dsnakex/Biotech-Dashboard/internal/middleware"
	ratelimiter "github.com/dsnakex/Biotech-Dashboard/internal/rate_limiter"
	"github.com/dsnakex/Biotech-Dashboard/internal/repository"
	"github.com/dsnakex/Biotech-Dashboard/internal/route"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	defer logger.Sync()

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		logger.Panic(err)
	}
	defer sqlDb.Close()
	logger.Infof("Database connected (%s)", db.Dialector.Name())

	s3, err := filestorage.NewMinioClient(&cfg.Minio)
	if err != nil {
		logger.Error("Error connecting to minio")
		logger.Panic(err)
	}
	if s3 == nil {
		logger.Warn("MINIO_ENDPOINT is not set, experiment file uploads are disabled")
	} else if err := filestorage.EnsureBucket(context.Background(), s3, cfg.Minio.BUCKET); err != nil {
		logger.Panicf("Failed to prepare bucket %s: %v", cfg.Minio.BUCKET, err)
	}

	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterValidators(v); err != nil {
			logger.Panic(err)
		}
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	mail := mailer.NewSendgrid(cfg.Mail.SEND_GRID.API_KEY, cfg.Mail.FROM_EMAIL, cfg.IsProduction(), logger)
	if !mail.Enabled() {
		logger.Warn("SendGrid is not configured, low stock alerts will not be mailed")
	}
	jwtService := auth.NewJwt(cfg.Auth, logger)
	repo := repository.NewRepository(db, logger, repository.Options{
		JWTService:           jwtService,
		S3:                   s3,
		Bucket:               cfg.Minio.BUCKET,
		DashboardCacheBucket: cfg.Dashboard.CacheBucket,
	})
	app := appcontext.Application{
		Config:     &cfg,
		Repository: repo,
		Logger:     logger,
		Mailer:     mail,
		JWTService: jwtService,
		S3:         s3,
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(_middleware.RequestLogger)

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	if len(cfg.Cors.AllowOrigins) == 0 || cfg.Cors.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Cors.AllowOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "X-Request-ID", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID", "Retry-After"}
	r.Use(cors.New(corsConfig))
	r.Use(_middleware.RateLimiterMiddleware)

	_controller := controller.NewController(&app)
	route.Register(r, _controller, _middleware)

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panicf("Error running server: %v \n", err)
	}
}
