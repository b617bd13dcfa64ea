package controllers

import (
	"github.com/gofiber/fiber/v2"

	"academy/backend/access"
	"academy/backend/cache"
	"academy/backend/config"
	"academy/backend/contentstore"
	"academy/backend/middleware"
	"academy/backend/models"
	"academy/backend/progress"
)

type CoursesController struct {
	Store *contentstore.Client
	Cache *cache.Cache
	Cfg   *config.Config
}

func NewCoursesController(store *contentstore.Client, viewCache *cache.Cache, cfg *config.Config) *CoursesController {
	return &CoursesController{Store: store, Cache: viewCache, Cfg: cfg}
}

func courseSummary(course *models.Course) fiber.Map {
	summary := fiber.Map{
		"id":          course.ID,
		"title":       course.Title,
		"slug":        course.SlugValue(),
		"description": course.Description,
		"tier":        course.Tier,
		"featured":    course.Featured,
		"moduleCount": course.ModuleCount,
		"lessonCount": course.LessonCount,
	}
	if course.Thumbnail != nil && course.Thumbnail.Asset != nil {
		summary["thumbnail"] = course.Thumbnail.Asset.URL
	}
	if course.Category != nil {
		summary["category"] = course.Category.Title
	}
	return summary
}

func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	courses, err := cc.Store.AllCourses(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load courses",
		})
	}

	result := make([]fiber.Map, 0, len(courses))
	for i := range courses {
		result = append(result, courseSummary(&courses[i]))
	}
	return c.JSON(result)
}

func (cc *CoursesController) GetFeaturedCourses(c *fiber.Ctx) error {
	courses, err := cc.Store.FeaturedCourses(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load courses",
		})
	}

	result := make([]fiber.Map, 0, len(courses))
	for i := range courses {
		result = append(result, courseSummary(&courses[i]))
	}
	return c.JSON(result)
}

func (cc *CoursesController) GetStats(c *fiber.Ctx) error {
	stats, err := cc.Store.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load stats",
		})
	}
	return c.JSON(stats)
}

// GetCourseDetails renders one of two branches: the full module tree
// with the caller's progress when the tier grants access, or a gated
// upsell payload when it does not. Denial is a branch, not an error.
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	slug := c.Params("slug")
	userID := middleware.UserID(c)

	cacheKey := "/courses/" + slug + "#" + userID
	if cached, ok := cc.Cache.Get(cacheKey); ok {
		return c.JSON(cached)
	}

	course, err := cc.Store.CourseBySlug(c.Context(), slug)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load course",
		})
	}
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	ent := middleware.Entitlements(c)
	if !access.HasAccess(ent, course.Tier) {
		payload := fiber.Map{
			"course":       courseSummary(course),
			"gated":        true,
			"requiredTier": course.Tier,
		}
		return c.JSON(payload)
	}

	prog := progress.Aggregate(course, userID)
	payload := fiber.Map{
		"course":   courseSummary(course),
		"gated":    false,
		"modules":  moduleTree(course.Modules, userID),
		"progress": prog,
		// The mark-complete action is offered only when every lesson is
		// done; the stored course mark itself is not re-derived.
		"canMarkComplete": prog.AllLessonsCompleted(),
	}

	cc.Cache.Set(cacheKey, payload)
	return c.JSON(payload)
}

func moduleTree(modules []models.Module, userID string) []fiber.Map {
	result := make([]fiber.Map, 0, len(modules))
	for i := range modules {
		m := &modules[i]
		mp := progress.ModuleProgress{Total: len(m.Lessons)}

		lessons := make([]fiber.Map, 0, len(m.Lessons))
		for j := range m.Lessons {
			l := &m.Lessons[j]
			completed := userID != "" && contains(l.CompletedBy, userID)
			if completed {
				mp.Completed++
			}
			lessons = append(lessons, fiber.Map{
				"id":        l.ID,
				"title":     l.Title,
				"slug":      l.SlugValue(),
				"completed": completed,
				"hasVideo":  l.Video != nil && l.Video.Asset != nil && l.Video.Asset.PlaybackID != "",
			})
		}

		result = append(result, fiber.Map{
			"id":        m.ID,
			"title":     m.Title,
			"lessons":   lessons,
			"total":     mp.Total,
			"completed": mp.Completed,
			"complete":  mp.Complete(),
		})
	}
	return result
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// GetDashboard lists every course with the caller's aggregated
// completion state and effective subscription tier.
func (cc *CoursesController) GetDashboard(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	ent := middleware.Entitlements(c)

	cacheKey := "/dashboard#" + userID
	if cached, ok := cc.Cache.Get(cacheKey); ok {
		return c.JSON(cached)
	}

	courses, err := cc.Store.DashboardCourses(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load dashboard",
		})
	}

	userTier := ent.EffectiveTier()
	result := make([]fiber.Map, 0, len(courses))
	for i := range courses {
		course := &courses[i]
		prog := progress.Aggregate(course, userID)

		summary := courseSummary(course)
		summary["progress"] = prog
		summary["accessible"] = access.HasTierAccess(userTier, course.Tier)
		result = append(result, summary)
	}

	payload := fiber.Map{
		"tier":    userTier,
		"courses": result,
	}

	cc.Cache.Set(cacheKey, payload)
	return c.JSON(payload)
}
