package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"academy/backend/cache"
	"academy/backend/config"
	"academy/backend/contentstore"
	"academy/backend/middleware"
)

// ProgressController owns the two mutating paths of the system: the
// lesson and course completion toggles. Both write only the caller's
// own user id, so no request can touch another user's completion entry.
type ProgressController struct {
	Store  *contentstore.Client
	Cache  *cache.Cache
	Cfg    *config.Config
	Logger *log.Logger
}

func NewProgressController(store *contentstore.Client, viewCache *cache.Cache, cfg *config.Config, logger *log.Logger) *ProgressController {
	return &ProgressController{Store: store, Cache: viewCache, Cfg: cfg, Logger: logger}
}

type toggleInput struct {
	Slug         string `json:"slug"`
	MarkComplete bool   `json:"markComplete"`
}

// ToggleLessonCompletion adds or removes the caller on a lesson's
// completedBy set.
func (pc *ProgressController) ToggleLessonCompletion(c *fiber.Ctx) error {
	return pc.toggle(c, "/lessons/")
}

// ToggleCourseCompletion sets or clears the caller's explicit course-
// level completion mark. The UI only offers this once every lesson is
// done, but the stored mark is an independent fact and is not
// re-validated here.
func (pc *ProgressController) ToggleCourseCompletion(c *fiber.Ctx) error {
	return pc.toggle(c, "/courses/")
}

func (pc *ProgressController) toggle(c *fiber.Ctx, viewPrefix string) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success":     false,
			"isCompleted": false,
		})
	}

	var input toggleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	docID := c.Params("id")
	if err := pc.Store.ToggleCompletion(c.Context(), docID, userID, input.MarkComplete); err != nil {
		// Stop propagation here: report the pre-toggle state so the
		// caller's optimistic UI reverts instead of crashing.
		pc.Logger.Printf("Failed to toggle completion for %s: %v", docID, err)
		return c.JSON(fiber.Map{
			"success":     false,
			"isCompleted": !input.MarkComplete,
		})
	}

	// Exactly the two views that display this fact.
	pc.Cache.Invalidate(
		viewPrefix+input.Slug+"#"+userID,
		"/dashboard#"+userID,
	)

	return c.JSON(fiber.Map{
		"success":     true,
		"isCompleted": input.MarkComplete,
	})
}
