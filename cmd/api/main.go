package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/internship-noc-api/api/swagger"
	"github.com/noah-isme/internship-noc-api/internal/handler"
	"github.com/noah-isme/internship-noc-api/internal/middleware"
	"github.com/noah-isme/internship-noc-api/internal/repository"
	"github.com/noah-isme/internship-noc-api/internal/service"
	"github.com/noah-isme/internship-noc-api/pkg/cache"
	"github.com/noah-isme/internship-noc-api/pkg/config"
	"github.com/noah-isme/internship-noc-api/pkg/database"
	"github.com/noah-isme/internship-noc-api/pkg/export"
	"github.com/noah-isme/internship-noc-api/pkg/logger"
	"github.com/noah-isme/internship-noc-api/pkg/mailer"
	corsmiddleware "github.com/noah-isme/internship-noc-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/internship-noc-api/pkg/middleware/requestid"
	"github.com/noah-isme/internship-noc-api/pkg/signedurl"
)

// @title Internship NOC API
// @version 1.0.0
// @description Internship registration, NOC approval and mentor evaluation backend
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	accounts := repository.NewAccountRepository(db)
	students := repository.NewStudentRepository(db)
	teachers := repository.NewTeacherRepository(db)
	internships := repository.NewInternshipRepository(db)
	applications := repository.NewNOCRepository(db)
	evaluations := repository.NewEvaluationRepository(db)
	dashboards := repository.NewDashboardRepository(db)
	codes := repository.NewOneTimeCodeRepository(redisClient, "auth")

	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient, logr),
		metrics,
		cfg.Dashboard.CacheTTL,
		logr,
		cfg.Dashboard.CacheEnabled,
	)

	sender := mailer.New(mailer.Config{
		SendgridAPIKey: cfg.Mail.SendgridAPIKey,
		FromAddress:    cfg.Mail.FromAddress,
		FromName:       cfg.Mail.FromName,
		SubjectPrefix:  "[" + cfg.App.Name + "] ",
	}, logr)
	notifications := service.NewNotificationService(sender, metrics, logr, service.NotificationConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
	})
	notifications.Start(ctx)
	defer notifications.Stop()

	signer := signedurl.NewSigner(cfg.Certificates.SignedURLSecret, cfg.Certificates.SignedURLTTL)

	authSvc := service.NewAuthService(service.AuthServiceParams{
		Repo:      accounts,
		Codes:     codes,
		Notifier:  notifications,
		Cache:     cacheSvc,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
		Config: service.AuthConfig{
			AccessTokenSecret:  cfg.JWT.Secret,
			AccessTokenExpiry:  cfg.JWT.Expiration,
			RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
			Issuer:             cfg.JWT.Issuer,
			SingleSession:      cfg.Auth.SingleSession,
			OTPTTL:             cfg.Auth.OTPTTL,
			MagicLinkTTL:       cfg.Auth.MagicLinkTTL,
			AppBaseURL:         cfg.App.BaseURL,
		},
	})
	sessionSvc := service.NewSessionService(authSvc, accounts, logr)
	studentSvc := service.NewStudentService(students, internships, cacheSvc, validate, logr)
	teacherSvc := service.NewTeacherService(teachers, students, cacheSvc, validate, logr)
	nocSvc := service.NewNOCService(service.NOCServiceParams{
		Applications:   applications,
		Students:       students,
		Teachers:       teachers,
		Internships:    internships,
		Profiles:       accounts,
		Cache:          cacheSvc,
		Notifier:       notifications,
		Signer:         signer,
		Metrics:        metrics,
		Validator:      validate,
		Logger:         logr,
		CertificateURL: cfg.App.PublicAPIURL + cfg.APIPrefix + "/certificates",
	})
	evaluationSvc := service.NewEvaluationService(evaluations, students, teachers, internships, cacheSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Repo:     dashboards,
		Teachers: teachers,
		Cache:    cacheSvc,
		Logger:   logr,
		Config:   service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})
	certificateSvc := service.NewCertificateService(service.CertificateServiceParams{
		Applications: applications,
		Students:     students,
		Internships:  internships,
		Profiles:     accounts,
		Roster:       dashboards,
		Tokens:       signer,
		CSV:          export.NewCSVExporter(),
		PDF:          export.NewPDFExporter(),
		Institution:  cfg.Certificates.Institution,
		Logger:       logr,
	})

	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	handlers := routeHandlers{
		auth:        handler.NewAuthHandler(authSvc, handler.CookieConfig{Name: cfg.Auth.SessionCookie, Secure: cfg.Auth.SecureCookie}),
		pages:       handler.NewRouteHandler(sessionSvc, dashboardHandler, cfg.APIPrefix),
		dashboard:   dashboardHandler,
		student:     handler.NewStudentHandler(studentSvc),
		teacher:     handler.NewTeacherHandler(teacherSvc),
		noc:         handler.NewNOCHandler(nocSvc),
		evaluation:  handler.NewEvaluationHandler(evaluationSvc),
		certificate: handler.NewCertificateHandler(certificateSvc),
		metrics:     handler.NewMetricsHandler(metrics, db),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	registerRoutes(r, cfg, handlers, sessionSvc, accounts)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
