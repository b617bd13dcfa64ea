package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"academy/backend/config"
	"academy/backend/tutor"
)

// ChatController exposes the tutor agent to Ultra members.
type ChatController struct {
	Agent  *tutor.Agent
	Cfg    *config.Config
	Logger *log.Logger
}

func NewChatController(agent *tutor.Agent, cfg *config.Config, logger *log.Logger) *ChatController {
	return &ChatController{Agent: agent, Cfg: cfg, Logger: logger}
}

type chatInput struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func (cc *ChatController) Chat(c *fiber.Ctx) error {
	var input chatInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if len(input.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No messages provided",
		})
	}

	conversation := make([]tutor.Message, 0, len(input.Messages))
	for _, m := range input.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid message role",
			})
		}
		conversation = append(conversation, tutor.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := cc.Agent.Chat(c.Context(), conversation)
	if err != nil {
		cc.Logger.Printf("Tutor chat failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "The tutor is unavailable right now",
		})
	}

	return c.JSON(fiber.Map{
		"message": reply,
	})
}
