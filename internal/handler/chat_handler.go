package handler

import (
	"errors"

	"ia-papeleria/internal/chatbot"
	"ia-papeleria/internal/transcript"
	"ia-papeleria/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const defaultHistoryLimit = 20

type ChatHandler struct {
	router  *chatbot.Router
	history transcript.Store
}

func NewChatHandler(router *chatbot.Router, history transcript.Store) *ChatHandler {
	return &ChatHandler{router: router, history: history}
}

// bindInbound returns the message, or the 400 body when it is unusable.
func bindInbound(c *fiber.Ctx) (chatbot.Inbound, fiber.Map) {
	var in chatbot.Inbound
	if err := c.BodyParser(&in); err != nil {
		return in, fiber.Map{"error": "Invalid JSON"}
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return in, fiber.Map{"error": "Validation failed", "details": errs}
	}
	return in, nil
}

// Webhook answers a messaging-platform delivery.
// POST /whatsapp/webhook
// Always 200 with a reply so the platform does not redeliver the message.
func (h *ChatHandler) Webhook(c *fiber.Ctx) error {
	in, bad := bindInbound(c)
	if bad != nil {
		return c.Status(fiber.StatusBadRequest).JSON(bad)
	}

	out, err := h.router.Route(c.UserContext(), in)
	if err != nil {
		log.Warn().Err(err).Str("sender", in.Sender).Msg("Webhook answered in degraded mode")
	}
	return c.JSON(fiber.Map{"response": out.Reply})
}

// Message is the API variant; it reports the intent and 503 when the catalog is down.
// POST /api/v1/chat/message
func (h *ChatHandler) Message(c *fiber.Ctx) error {
	in, bad := bindInbound(c)
	if bad != nil {
		return c.Status(fiber.StatusBadRequest).JSON(bad)
	}

	out, err := h.router.Route(c.UserContext(), in)
	if errors.Is(err, chatbot.ErrStoreUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(out)
	}
	return c.JSON(out)
}

// History returns the most recent transcript entries for a sender.
// GET /api/v1/chat/:sender/history?limit=20
func (h *ChatHandler) History(c *fiber.Ctx) error {
	if h.history == nil {
		return c.JSON(fiber.Map{"sender": c.Params("sender"), "data": []transcript.Entry{}})
	}

	sender := c.Params("sender")
	entries, err := h.history.Recent(c.UserContext(), sender, queryInt(c, "limit", defaultHistoryLimit))
	if err != nil {
		return fail(c, err)
	}
	if entries == nil {
		entries = []transcript.Entry{}
	}
	return c.JSON(fiber.Map{"sender": sender, "data": entries})
}
