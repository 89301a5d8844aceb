package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/learnpath-backend/config"
	"github.com/vnkhanh/learnpath-backend/controllers"
	"github.com/vnkhanh/learnpath-backend/middleware"
	"github.com/vnkhanh/learnpath-backend/utils"
)

// NewRouter builds the HTTP engine. limiter may be nil to disable rate
// limiting.
func NewRouter(db *gorm.DB, cfg *config.Config, limiter middleware.Limiter) *gin.Engine {
	utils.InitAuth(cfg.JWTSecret, cfg.IsProduction())
	controllers.Configure(cfg.GoogleClientID)

	r := gin.New()
	r.Use(gin.Logger(), gin.CustomRecovery(controllers.Recovery))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if limiter != nil {
		r.Use(middleware.RateLimit(limiter))
	}
	r.Use(middleware.DBMiddleware(db))

	return SetupRouter(r, cfg.APIKey)
}

func SetupRouter(r *gin.Engine, apiKey string) *gin.Engine {
	r.GET("/", controllers.Root)
	r.GET("/health", controllers.HealthCheck)

	// API key gate is only active when a key is configured
	var apiGate gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if apiKey != "" {
		apiGate = middleware.APIKey(apiKey)
	}
	auth := middleware.AuthMiddleware()
	admin := middleware.RequireAdmin()
	ids := middleware.ValidateIDParams("id", "sectionId", "resourceId")

	api := r.Group("/api")
	api.GET("/health", controllers.HealthCheck)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", controllers.Login)
		authGroup.POST("/signup", controllers.SignUp)
		authGroup.POST("/logout", controllers.Logout)
		authGroup.GET("/profile", auth, controllers.Profile)
		authGroup.POST("/google", controllers.GoogleLogin)
	}

	users := api.Group("/users", apiGate, ids)
	{
		users.GET("/profile", auth, controllers.Profile)
		users.PUT("/profile", auth, controllers.UpdateProfile)
		users.DELETE("/profile", auth, controllers.DeleteProfile)
		users.PUT("/profile/change-password", auth, controllers.ChangePassword)
		users.PUT("/profile/upload-image", auth, middleware.ImageUpload("image"), controllers.UploadProfileImage)
		users.GET("", auth, admin, controllers.GetAllUsers)
		users.GET("/:id", auth, admin, controllers.GetUser)
		users.PUT("/:id/role", auth, admin, controllers.ToggleRole)
	}

	quiz := api.Group("/quiz", ids)
	{
		quiz.GET("", controllers.GetQuizzes)
		quiz.GET("/:id", controllers.GetQuiz)
		quiz.POST("", auth, admin, controllers.CreateQuiz)
		quiz.PUT("/:id", auth, admin, controllers.UpdateQuiz)
		quiz.DELETE("/:id", auth, admin, controllers.DeleteQuiz)
		quiz.GET("/:id/history", auth, controllers.GetQuizHistory)

		//Questions
		quiz.POST("/:id/questions", auth, admin, controllers.CreateQuestion)
		quiz.POST("/:id/questions/submit", auth, controllers.SubmitAnswers)
		quiz.GET("/:id/questions/restart", auth, controllers.RestartQuiz)
		quiz.GET("/:id/questions/:questionNumber", auth, controllers.GetQuestion)
		quiz.PUT("/:id/questions/:questionNumber", auth, admin, controllers.UpdateQuestion)
		quiz.DELETE("/:id/questions/:questionNumber", auth, admin, controllers.DeleteQuestion)
	}

	roadmap := api.Group("/roadmap", apiGate, ids)
	{
		roadmap.GET("", controllers.GetRoadmaps)
		roadmap.POST("", auth, admin, controllers.CreateRoadmap)
		roadmap.GET("/:id", controllers.GetRoadmap)
		roadmap.PUT("/:id", auth, admin, controllers.UpdateRoadmap)
		roadmap.DELETE("/:id", auth, admin, controllers.DeleteRoadmap)
		roadmap.GET("/:id/progress", auth, controllers.GetRoadmapProgress)

		//Sections
		roadmap.GET("/:id/sections", controllers.GetSections)
		roadmap.POST("/:id/sections", auth, admin, controllers.CreateSection)
		roadmap.GET("/:id/sections/:sectionId", controllers.GetSection)
		roadmap.PUT("/:id/sections/:sectionId", auth, admin, controllers.UpdateSection)
		roadmap.DELETE("/:id/sections/:sectionId", auth, admin, controllers.DeleteSection)
		roadmap.POST("/:id/sections/:sectionId/complete", auth, controllers.ToggleSectionCompletion)

		//Resources
		roadmap.GET("/:id/sections/:sectionId/resources", controllers.GetResources)
		roadmap.POST("/:id/sections/:sectionId/resources", auth, admin, controllers.CreateResource)
		roadmap.GET("/:id/sections/:sectionId/resources/:resourceId", controllers.GetResource)
		roadmap.PUT("/:id/sections/:sectionId/resources/:resourceId", auth, admin, controllers.UpdateResource)
		roadmap.DELETE("/:id/sections/:sectionId/resources/:resourceId", auth, admin, controllers.DeleteResource)
	}

	r.NoRoute(controllers.NotFound)
	return r
}
