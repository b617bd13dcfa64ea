package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"academy/backend/cache"
	"academy/backend/config"
	"academy/backend/contentstore"
	"academy/backend/controllers"
	"academy/backend/middleware"
	"academy/backend/tutor"
	"academy/backend/video"
)

func SetupRoutes(app *fiber.App, cfg *config.Config, logger *log.Logger) {
	store := contentstore.New(cfg)
	videoClient := video.New(cfg, store)
	agent := tutor.New(cfg, store)
	viewCache := cache.New(time.Minute)

	withIdentity := middleware.WithIdentity(cfg)
	requireAuth := middleware.RequireAuth(cfg)
	requireUltra := middleware.RequireUltra(cfg)
	requireAdmin := middleware.RequireAdmin(cfg)

	// Catalog routes
	coursesController := controllers.NewCoursesController(store, viewCache, cfg)
	app.Get("/api/courses", coursesController.GetCourses)
	app.Get("/api/courses/featured", coursesController.GetFeaturedCourses)
	app.Get("/api/courses/:slug", withIdentity, coursesController.GetCourseDetails)
	app.Get("/api/stats", coursesController.GetStats)
	app.Get("/api/dashboard", requireAuth, coursesController.GetDashboard)

	// Lesson routes
	lessonsController := controllers.NewLessonsController(store, videoClient, viewCache, cfg, logger)
	app.Get("/api/lessons/:slug", withIdentity, lessonsController.GetLessonDetails)

	// Completion toggles
	progressController := controllers.NewProgressController(store, viewCache, cfg, logger)
	app.Post("/api/lessons/:id/completion", withIdentity, progressController.ToggleLessonCompletion)
	app.Post("/api/courses/:id/completion", withIdentity, progressController.ToggleCourseCompletion)

	// Tutor chat (Ultra members only)
	chatController := controllers.NewChatController(agent, cfg, logger)
	app.Post("/api/chat", requireUltra, chatController.Chat)

	// Admin routes
	adminController := controllers.NewAdminController(store, videoClient, cfg, logger)
	admin := app.Group("/api/admin", requireAdmin)
	admin.Post("/documents", adminController.CreateDocument)
	admin.Patch("/documents/:id", adminController.PatchDocument)
	admin.Post("/documents/:id/publish", adminController.PublishDocument)
	admin.Post("/documents/:id/unpublish", adminController.UnpublishDocument)
	admin.Post("/documents/:id/discard", adminController.DiscardDraft)
	admin.Delete("/documents/:id", adminController.DeleteDocument)
	admin.Post("/documents/:id/references", adminController.AddReference)
	admin.Put("/documents/:id/references", adminController.ReorderReferences)
	admin.Delete("/documents/:id/references/:key", adminController.RemoveReference)
	admin.Post("/images", adminController.UploadImage)
	admin.Delete("/images/:id", adminController.DeleteImage)
	admin.Post("/videos/uploads", adminController.CreateVideoUpload)
	admin.Get("/videos/uploads/:id", adminController.GetVideoUploadStatus)
	admin.Get("/videos/:playbackId/tokens", adminController.GetPlaybackTokens)
}
