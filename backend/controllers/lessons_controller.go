package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"academy/backend/access"
	"academy/backend/cache"
	"academy/backend/config"
	"academy/backend/contentstore"
	"academy/backend/middleware"
	"academy/backend/models"
	"academy/backend/video"
)

type LessonsController struct {
	Store  *contentstore.Client
	Video  *video.Client
	Cache  *cache.Cache
	Cfg    *config.Config
	Logger *log.Logger
}

func NewLessonsController(store *contentstore.Client, videoClient *video.Client, viewCache *cache.Cache, cfg *config.Config, logger *log.Logger) *LessonsController {
	return &LessonsController{Store: store, Video: videoClient, Cache: viewCache, Cfg: cfg, Logger: logger}
}

// GetLessonDetails renders a lesson page. The lesson inherits its tier
// from the cheapest parent course (there is no per-lesson tier
// override); signed playback tokens are only minted once access is
// granted.
func (lc *LessonsController) GetLessonDetails(c *fiber.Ctx) error {
	slug := c.Params("slug")
	userID := middleware.UserID(c)

	cacheKey := "/lessons/" + slug + "#" + userID
	if cached, ok := lc.Cache.Get(cacheKey); ok {
		return c.JSON(cached)
	}

	lesson, err := lc.Store.LessonBySlug(c.Context(), slug)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load lesson",
		})
	}
	if lesson == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lesson not found",
		})
	}

	ent := middleware.Entitlements(c)
	granted := false
	requiredTier := models.TierFree
	if len(lesson.Courses) > 0 {
		// Parent courses arrive cheapest tier first; the cheapest one
		// that grants access decides.
		requiredTier = lesson.Courses[0].Tier
		for _, course := range lesson.Courses {
			if access.HasAccess(ent, course.Tier) {
				granted = true
				break
			}
		}
	} else {
		// An orphan lesson has no course tier to gate on.
		granted = true
	}

	base := fiber.Map{
		"id":          lesson.ID,
		"title":       lesson.Title,
		"slug":        lesson.SlugValue(),
		"description": lesson.Description,
	}

	if !granted {
		return c.JSON(fiber.Map{
			"lesson":       base,
			"gated":        true,
			"requiredTier": requiredTier,
		})
	}

	base["content"] = lesson.ContentText
	base["completed"] = userID != "" && contains(lesson.CompletedBy, userID)

	// Absent video is the empty case, never an error.
	var videoPayload interface{}
	if lesson.Video != nil && lesson.Video.Asset != nil && lesson.Video.Asset.PlaybackID != "" {
		asset := lesson.Video.Asset
		payload := fiber.Map{
			"playbackId": asset.PlaybackID,
			"status":     asset.Status,
		}
		if asset.Data != nil {
			payload["duration"] = asset.Data.Duration
		}
		if tokens, err := lc.Video.SignTokens(asset.PlaybackID); err != nil {
			lc.Logger.Printf("Failed to sign playback tokens for lesson %s: %v", lesson.ID, err)
		} else {
			payload["tokens"] = tokens
		}
		videoPayload = payload
	}

	result := fiber.Map{
		"lesson":  base,
		"gated":   false,
		"video":   videoPayload,
		"courses": lessonCourseNav(lesson.Courses, userID),
	}

	lc.Cache.Set(cacheKey, result)
	return c.JSON(result)
}

// lessonCourseNav builds the sidebar navigation: each parent course's
// module tree with the caller's completion marks.
func lessonCourseNav(courses []models.Course, userID string) []fiber.Map {
	result := make([]fiber.Map, 0, len(courses))
	for i := range courses {
		course := &courses[i]
		result = append(result, fiber.Map{
			"id":      course.ID,
			"title":   course.Title,
			"slug":    course.SlugValue(),
			"tier":    course.Tier,
			"modules": moduleTree(course.Modules, userID),
		})
	}
	return result
}
