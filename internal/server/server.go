package server

import (
	"net/http"
	"strings"
	"time"

	"anoa.com/academicrecords/internal/config"
	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/middleware"
	"anoa.com/academicrecords/pkg/flatfile"

	activityHttp "anoa.com/academicrecords/internal/modules/activity/delivery/http"
	activityRepo "anoa.com/academicrecords/internal/modules/activity/repository"
	activityService "anoa.com/academicrecords/internal/modules/activity/service"

	adminHttp "anoa.com/academicrecords/internal/modules/admin/delivery/http"
	adminService "anoa.com/academicrecords/internal/modules/admin/service"

	assessmentHttp "anoa.com/academicrecords/internal/modules/assessment/delivery/http"
	assessmentRepo "anoa.com/academicrecords/internal/modules/assessment/repository"
	assessmentService "anoa.com/academicrecords/internal/modules/assessment/service"

	classHttp "anoa.com/academicrecords/internal/modules/class/delivery/http"
	classRepo "anoa.com/academicrecords/internal/modules/class/repository"
	classService "anoa.com/academicrecords/internal/modules/class/service"

	enrollmentHttp "anoa.com/academicrecords/internal/modules/enrollment/delivery/http"
	enrollmentRepo "anoa.com/academicrecords/internal/modules/enrollment/repository"
	enrollmentService "anoa.com/academicrecords/internal/modules/enrollment/service"

	feedbackHttp "anoa.com/academicrecords/internal/modules/feedback/delivery/http"
	feedbackRepo "anoa.com/academicrecords/internal/modules/feedback/repository"
	feedbackService "anoa.com/academicrecords/internal/modules/feedback/service"

	gradingHttp "anoa.com/academicrecords/internal/modules/grading/delivery/http"
	gradingRepo "anoa.com/academicrecords/internal/modules/grading/repository"
	gradingService "anoa.com/academicrecords/internal/modules/grading/service"

	moduleHttp "anoa.com/academicrecords/internal/modules/module/delivery/http"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	moduleService "anoa.com/academicrecords/internal/modules/module/service"

	profileHttp "anoa.com/academicrecords/internal/modules/profile/delivery/http"
	profileService "anoa.com/academicrecords/internal/modules/profile/service"

	reportHttp "anoa.com/academicrecords/internal/modules/report/delivery/http"
	reportService "anoa.com/academicrecords/internal/modules/report/service"

	resultHttp "anoa.com/academicrecords/internal/modules/result/delivery/http"
	resultRepo "anoa.com/academicrecords/internal/modules/result/repository"
	resultService "anoa.com/academicrecords/internal/modules/result/service"

	searchService "anoa.com/academicrecords/internal/modules/search/service"

	statHttp "anoa.com/academicrecords/internal/modules/stat/delivery/http"
	statService "anoa.com/academicrecords/internal/modules/stat/service"

	userHttp "anoa.com/academicrecords/internal/modules/user/delivery/http"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	userService "anoa.com/academicrecords/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	engine *gin.Engine
}

func NewServer(cfg *config.Config, store *flatfile.Store, redisClient *redis.Client, searchSvc searchService.SearchService) *Server {
	userRepo := userRepo.NewUserRepository(store)
	moduleRepo := moduleRepo.NewModuleRepository(store)
	classRepo := classRepo.NewClassRepository(store)
	assessmentRepo := assessmentRepo.NewAssessmentRepository(store)
	resultRepo := resultRepo.NewResultRepository(store)
	gradingRepo := gradingRepo.NewGradingRepository(store)
	enrollmentRepo := enrollmentRepo.NewEnrollmentRepository(store)
	feedbackRepo := feedbackRepo.NewFeedbackRepository(store)

	// Activity Module
	activitySvc := activityService.NewActivityService(activityRepo.NewActivityRepository(store), redisClient)
	activityHandler := activityHttp.NewActivityHandler(activitySvc, redisClient)

	limiter := userService.NewLoginLimiter(redisClient, cfg.LoginMaxAttempts, cfg.LoginLockout)
	authSvc := userService.NewAuthService(userRepo, activitySvc, limiter, redisClient, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := userHttp.NewAuthHandler(authSvc)

	profileSvc := profileService.NewProfileService(userRepo, activitySvc)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	adminSvc := adminService.NewAdminService(userRepo, moduleRepo, resultRepo, enrollmentRepo, searchSvc, activitySvc)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	gradingSvc := gradingService.NewGradingService(gradingRepo, activitySvc)
	gradingHandler := gradingHttp.NewGradingHandler(gradingSvc)

	classSvc := classService.NewClassService(classRepo, moduleRepo, enrollmentRepo, activitySvc)
	classHandler := classHttp.NewClassHandler(classSvc)

	moduleSvc := moduleService.NewModuleService(moduleRepo, userRepo, assessmentRepo, classRepo, searchSvc, activitySvc)
	moduleHandler := moduleHttp.NewModuleHandler(moduleSvc)

	assessmentSvc := assessmentService.NewAssessmentService(assessmentRepo, moduleRepo, resultRepo, activitySvc)
	assessmentHandler := assessmentHttp.NewAssessmentHandler(assessmentSvc)

	resultSvc := resultService.NewResultService(resultRepo, assessmentRepo, moduleRepo, userRepo, classRepo, enrollmentRepo, gradingRepo, activitySvc)
	resultHandler := resultHttp.NewResultHandler(resultSvc)

	enrollmentSvc := enrollmentService.NewEnrollmentService(enrollmentRepo, classRepo, moduleRepo, userRepo, activitySvc)
	enrollmentHandler := enrollmentHttp.NewEnrollmentHandler(enrollmentSvc)

	feedbackSvc := feedbackService.NewFeedbackService(feedbackRepo, moduleRepo, userRepo, activitySvc)
	feedbackHandler := feedbackHttp.NewFeedbackHandler(feedbackSvc)

	reportSvc := reportService.NewReportService(moduleRepo, assessmentRepo, resultRepo, gradingRepo, cfg.ReportMinResults)
	reportHandler := reportHttp.NewReportHandler(reportSvc)

	statSvc := statService.NewStatService(userRepo, moduleRepo, classRepo, assessmentRepo, resultRepo, enrollmentRepo, feedbackRepo)
	statHandler := statHttp.NewStatHandler(statSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(userRepo, redisClient, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.PUT("/profile/password", profileHandler.ChangePassword)

		protected.GET("/grading", gradingHandler.GetScale)
		protected.GET("/modules", moduleHandler.GetAll)
		protected.GET("/classes", classHandler.GetAll)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.POST("/users", adminHandler.CreateUser)
			adminGroup.GET("/users/search", adminHandler.SearchUsers)
			adminGroup.GET("/users/:id", adminHandler.GetUser)
			adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)

			adminGroup.PUT("/grading", gradingHandler.ReplaceScale)
			adminGroup.POST("/grading", gradingHandler.CreateBand)
			adminGroup.PUT("/grading/:grade", gradingHandler.UpdateBand)
			adminGroup.DELETE("/grading/:grade", gradingHandler.DeleteBand)

			adminGroup.POST("/classes", classHandler.Create)
			adminGroup.PUT("/classes/:id", classHandler.Update)
			adminGroup.DELETE("/classes/:id", classHandler.Delete)

			adminGroup.GET("/activity", activityHandler.List)
			adminGroup.GET("/activity/ws", activityHandler.Stream)
			adminGroup.GET("/stats", statHandler.GetOverview)
			adminGroup.GET("/reports/:code", reportHandler.GetReport)
		}

		leaderGroup := protected.Group("/leader")
		leaderGroup.Use(authMiddleware.RequireRole(entity.RoleAcademicLeader))
		{
			leaderGroup.GET("/modules", moduleHandler.GetMine)
			leaderGroup.POST("/modules", moduleHandler.Create)
			leaderGroup.PUT("/modules/:code/lecturer", moduleHandler.AssignLecturer)
			leaderGroup.DELETE("/modules/:code", moduleHandler.Delete)
			leaderGroup.GET("/lecturers", moduleHandler.GetLecturers)
			leaderGroup.GET("/reports/:code", reportHandler.GetReport)
		}

		lecturerGroup := protected.Group("/lecturer")
		lecturerGroup.Use(authMiddleware.RequireRole(entity.RoleLecturer))
		{
			lecturerGroup.GET("/modules", moduleHandler.GetMine)
			lecturerGroup.GET("/assessments", assessmentHandler.List)
			lecturerGroup.POST("/assessments", assessmentHandler.Create)
			lecturerGroup.DELETE("/assessments/:id", assessmentHandler.Delete)
			lecturerGroup.GET("/assessments/:id/results", resultHandler.ListByAssessment)
			lecturerGroup.GET("/assessments/:id/roster", resultHandler.Roster)
			lecturerGroup.POST("/results", resultHandler.Record)
			lecturerGroup.GET("/students", enrollmentHandler.ListStudents)
			lecturerGroup.GET("/feedback", feedbackHandler.ListMine)
		}

		studentGroup := protected.Group("/student")
		studentGroup.Use(authMiddleware.RequireRole(entity.RoleStudent))
		{
			studentGroup.GET("/classes", enrollmentHandler.ListClasses)
			studentGroup.POST("/enrollments", enrollmentHandler.Enroll)
			studentGroup.GET("/results", resultHandler.ListMine)
			studentGroup.GET("/lecturers", feedbackHandler.ListLecturers)
			studentGroup.POST("/feedback", feedbackHandler.Submit)
		}
	}

	return &Server{engine: router}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
