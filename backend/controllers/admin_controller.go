package controllers

import (
	"io"
	"log"

	"github.com/gofiber/fiber/v2"

	"academy/backend/config"
	"academy/backend/contentstore"
	"academy/backend/models"
	"academy/backend/video"
)

// AdminController is the thin caller of the content platform's
// document-action protocol plus the video and image upload glue. It
// owns no lifecycle state of its own.
type AdminController struct {
	Store  *contentstore.Client
	Video  *video.Client
	Cfg    *config.Config
	Logger *log.Logger
}

func NewAdminController(store *contentstore.Client, videoClient *video.Client, cfg *config.Config, logger *log.Logger) *AdminController {
	return &AdminController{Store: store, Video: videoClient, Cfg: cfg, Logger: logger}
}

var editableTypes = map[string]bool{
	"course":   true,
	"module":   true,
	"lesson":   true,
	"category": true,
}

func (ac *AdminController) CreateDocument(c *fiber.Ctx) error {
	var input struct {
		Type   string                 `json:"type"`
		Fields map[string]interface{} `json:"fields"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if !editableTypes[input.Type] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document type",
		})
	}

	id, err := ac.Store.CreateDocument(c.Context(), input.Type, input.Fields)
	if err != nil {
		ac.Logger.Printf("Failed to create %s document: %v", input.Type, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not create document",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Document created",
		"id":      id,
	})
}

func (ac *AdminController) PatchDocument(c *fiber.Ctx) error {
	var input struct {
		Set map[string]interface{} `json:"set"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if len(input.Set) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nothing to update",
		})
	}

	id := c.Params("id")
	if err := ac.Store.Patch(id).Set(input.Set).Commit(c.Context()); err != nil {
		ac.Logger.Printf("Failed to patch document %s: %v", id, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not update document",
		})
	}

	return c.JSON(fiber.Map{"message": "Document updated"})
}

func (ac *AdminController) lifecycleAction(c *fiber.Ctx, name string, run func(ctx *fiber.Ctx, id string) error) error {
	id := c.Params("id")
	if err := run(c, id); err != nil {
		ac.Logger.Printf("Failed to %s document %s: %v", name, id, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not " + name + " document",
		})
	}
	return c.JSON(fiber.Map{"message": "Document " + name + "ed"})
}

func (ac *AdminController) PublishDocument(c *fiber.Ctx) error {
	return ac.lifecycleAction(c, "publish", func(ctx *fiber.Ctx, id string) error {
		return ac.Store.PublishDocument(ctx.Context(), id)
	})
}

func (ac *AdminController) UnpublishDocument(c *fiber.Ctx) error {
	return ac.lifecycleAction(c, "unpublish", func(ctx *fiber.Ctx, id string) error {
		return ac.Store.UnpublishDocument(ctx.Context(), id)
	})
}

func (ac *AdminController) DiscardDraft(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ac.Store.DiscardDraft(c.Context(), id); err != nil {
		ac.Logger.Printf("Failed to discard draft %s: %v", id, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not discard draft",
		})
	}
	return c.JSON(fiber.Map{"message": "Draft discarded"})
}

func (ac *AdminController) DeleteDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ac.Store.DeleteDocument(c.Context(), id); err != nil {
		ac.Logger.Printf("Failed to delete document %s: %v", id, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not delete document",
		})
	}
	return c.JSON(fiber.Map{"message": "Document deleted"})
}

// Reference array editing: entries are identified by the stable key
// assigned at insertion, never by the referenced document id.

func (ac *AdminController) AddReference(c *fiber.Ctx) error {
	var input struct {
		Field string `json:"field"`
		Ref   string `json:"ref"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Field == "" || input.Ref == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Field and ref are required",
		})
	}

	key, err := ac.Store.AddReference(c.Context(), c.Params("id"), input.Field, input.Ref)
	if err != nil {
		ac.Logger.Printf("Failed to add reference on %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not add reference",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Reference added",
		"key":     key,
	})
}

func (ac *AdminController) RemoveReference(c *fiber.Ctx) error {
	field := c.Query("field")
	if field == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Field is required",
		})
	}

	err := ac.Store.RemoveReference(c.Context(), c.Params("id"), field, c.Params("key"))
	if err != nil {
		ac.Logger.Printf("Failed to remove reference on %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not remove reference",
		})
	}

	return c.JSON(fiber.Map{"message": "Reference removed"})
}

func (ac *AdminController) ReorderReferences(c *fiber.Ctx) error {
	var input struct {
		Field string             `json:"field"`
		Items []models.Reference `json:"items"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Field == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Field is required",
		})
	}
	for _, item := range input.Items {
		if item.Key == "" || item.Ref == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Every item needs a key and a ref",
			})
		}
	}

	err := ac.Store.SetReferenceOrder(c.Context(), c.Params("id"), input.Field, input.Items)
	if err != nil {
		ac.Logger.Printf("Failed to reorder references on %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not reorder references",
		})
	}

	return c.JSON(fiber.Map{"message": "References reordered"})
}

func (ac *AdminController) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read file",
		})
	}

	assetID, err := ac.Store.UploadImage(c.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		ac.Logger.Printf("Image upload failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Image uploaded",
		"assetId": assetID,
	})
}

func (ac *AdminController) DeleteImage(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ac.Store.DeleteDocument(c.Context(), id); err != nil {
		ac.Logger.Printf("Failed to delete image %s: %v", id, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not delete image",
		})
	}
	return c.JSON(fiber.Map{"message": "Image deleted"})
}

func (ac *AdminController) CreateVideoUpload(c *fiber.Ctx) error {
	upload, err := ac.Video.CreateUpload(c.Context())
	if err != nil {
		ac.Logger.Printf("Failed to create video upload: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not create upload URL",
		})
	}

	return c.JSON(fiber.Map{
		"uploadId":  upload.ID,
		"uploadUrl": upload.URL,
	})
}

// GetVideoUploadStatus answers one poll tick; the editor polls every
// two seconds until the asset is ready or its five-minute cap expires.
func (ac *AdminController) GetVideoUploadStatus(c *fiber.Ctx) error {
	status, err := ac.Video.ResolveUploadStatus(c.Context(), c.Params("id"))
	if err != nil {
		ac.Logger.Printf("Failed to resolve video upload %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not get upload status",
		})
	}
	return c.JSON(status)
}

func (ac *AdminController) GetPlaybackTokens(c *fiber.Ctx) error {
	tokens, err := ac.Video.SignTokens(c.Params("playbackId"))
	if err != nil {
		ac.Logger.Printf("Failed to sign playback tokens: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not generate signed tokens",
		})
	}
	return c.JSON(tokens)
}
