package main

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-noc-api/internal/handler"
	"github.com/noah-isme/internship-noc-api/internal/middleware"
	"github.com/noah-isme/internship-noc-api/internal/models"
	"github.com/noah-isme/internship-noc-api/internal/repository"
	"github.com/noah-isme/internship-noc-api/internal/service"
	"github.com/noah-isme/internship-noc-api/pkg/config"
	"github.com/noah-isme/internship-noc-api/pkg/middleware/apikey"
)

type routeHandlers struct {
	auth        *handler.AuthHandler
	pages       *handler.RouteHandler
	dashboard   *handler.DashboardHandler
	student     *handler.StudentHandler
	teacher     *handler.TeacherHandler
	noc         *handler.NOCHandler
	evaluation  *handler.EvaluationHandler
	certificate *handler.CertificateHandler
	metrics     *handler.MetricsHandler
}

func registerRoutes(r *gin.Engine, cfg *config.Config, h routeHandlers, sessions *service.SessionService, audit *repository.AccountRepository) {
	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	cookie := cfg.Auth.SessionCookie
	optional := middleware.OptionalSession(sessions, cookie)
	authed := middleware.Authenticate(sessions, cookie)

	// page routes
	r.GET(models.LoginPath, optional, h.pages.Login)
	dash := r.Group("/dashboard", optional)
	dash.GET("/student", h.pages.Dashboard(models.RoleStudent))
	dash.GET("/teacher", h.pages.Dashboard(models.RoleTeacher))
	dash.GET("/hod", h.pages.Dashboard(models.RoleHOD))

	api := r.Group(cfg.APIPrefix)
	if cfg.App.PublicAPIKey != "" {
		api.Use(apikey.Middleware(cfg.App.PublicAPIKey))
	}
	api.Use(middleware.WithResponseMeta())

	auth := api.Group("/auth")
	auth.POST("/signup", h.auth.SignUp)
	auth.POST("/signin", h.auth.SignIn)
	auth.POST("/otp", h.auth.RequestOTP)
	auth.POST("/otp/verify", h.auth.VerifyOTP)
	auth.POST("/magic-link", h.auth.RequestMagicLink)
	auth.POST("/magic-link/verify", h.auth.VerifyMagicLink)
	auth.POST("/refresh", h.auth.Refresh)
	auth.POST("/signout", authed, h.auth.SignOut)
	auth.GET("/session", authed, h.auth.Session)

	api.GET("/certificates/:token", h.certificate.ByToken)

	secured := api.Group("", authed)
	secured.GET("/dashboard", h.dashboard.Get)
	secured.GET("/metrics/system", middleware.RequireRoles(models.RoleHOD), h.metrics.System)

	student := secured.Group("/students/me", middleware.RequireRoles(models.RoleStudent))
	student.GET("", h.student.Me)
	student.PUT("", h.student.UpsertProfile)
	student.GET("/internship", h.student.Internship)
	student.PUT("/internship", middleware.Audit(audit, models.AuditActionInternshipSave, "internship"), h.student.UpsertInternship)
	student.GET("/noc", h.noc.Mine)
	student.POST("/noc", middleware.Audit(audit, models.AuditActionNOCSubmit, "noc_application"), h.noc.Submit)
	student.GET("/noc/certificate", middleware.Audit(audit, models.AuditActionCertificateView, "noc_application"), h.certificate.Mine)
	student.GET("/evaluation", h.evaluation.Mine)

	staff := secured.Group("", middleware.RequireRoles(models.RoleTeacher, models.RoleHOD))
	staff.GET("/teachers/me", h.teacher.Me)
	staff.PUT("/teachers/me", h.teacher.UpsertProfile)
	staff.GET("/teachers/students", h.teacher.Students)
	staff.GET("/noc/queue", h.noc.Queue)
	staff.POST("/noc/:id/decision", middleware.Audit(audit, models.AuditActionNOCDecision, "noc_application"), h.noc.Decide)
	staff.PUT("/evaluations/:id", middleware.RequireRoles(models.RoleTeacher), middleware.Audit(audit, models.AuditActionEvaluationSave, "evaluation"), h.evaluation.Save)

	secured.GET("/evaluations/:id", h.evaluation.ForStudent)

	hod := secured.Group("/hod", middleware.RequireRoles(models.RoleHOD))
	hod.GET("/teachers", h.teacher.Teachers)
	hod.GET("/students", h.teacher.Students)
	hod.GET("/students/export", h.certificate.Roster)
	hod.PUT("/students/:id/mentor", middleware.Audit(audit, models.AuditActionMentorAssign, "student"), h.teacher.AssignMentor)
}
