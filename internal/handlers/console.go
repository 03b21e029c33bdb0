package handlers

import (
	"time"

	"fraudconsole/internal/console"
	"fraudconsole/internal/samples"
	"fraudconsole/internal/services/health"
	"fraudconsole/internal/services/prediction"
	"fraudconsole/internal/utils"
	"fraudconsole/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ConsoleHandler serves the HTML console.
type ConsoleHandler struct {
	renderer    *view.Renderer
	predictions prediction.Service
	health      health.Service
	generator   *samples.Generator
	now         func() time.Time
}

func NewConsoleHandler(renderer *view.Renderer, predictions prediction.Service, healthService health.Service, generator *samples.Generator) *ConsoleHandler {
	return &ConsoleHandler{
		renderer:    renderer,
		predictions: predictions,
		health:      healthService,
		generator:   generator,
		now:         time.Now,
	}
}

// Index renders an empty form. The session middleware has already started a
// fresh session, so panel and history are empty.
func (h *ConsoleHandler) Index(c *fiber.Ctx) error {
	return h.page(c, view.DefaultForm(h.now()))
}

// Sample fills the form with the fixed sample transaction.
func (h *ConsoleHandler) Sample(c *fiber.Ctx) error {
	return h.page(c, view.FormFromInput(samples.Fixed(h.now())))
}

// RandomSample fills the form with generated values.
func (h *ConsoleHandler) RandomSample(c *fiber.Ctx) error {
	return h.page(c, view.FormFromInput(h.generator.Random(h.now())))
}

// Submit scores the posted form and re-renders it with the outcome.
func (h *ConsoleHandler) Submit(c *fiber.Ctx) error {
	sess, err := utils.GetSession(c)
	if err != nil {
		return err
	}

	form := view.ParseForm(func(key string) string { return c.FormValue(key) })

	// A failure is already on the panel; the page is rendered either way.
	_, _ = h.predictions.Submit(c.UserContext(), sess, form.Input())

	return h.render(c, form, sess)
}

// Panel renders the current panel on its own, for polling while a
// submission is in flight.
func (h *ConsoleHandler) Panel(c *fiber.Ctx) error {
	sess, err := utils.GetSession(c)
	if err != nil {
		return err
	}

	out, err := h.renderer.Panel(sess.Snapshot().Panel)
	if err != nil {
		log.Error().Err(err).Msg("failed to render panel")
		return fiber.ErrInternalServerError
	}
	return sendHTML(c, out)
}

func (h *ConsoleHandler) page(c *fiber.Ctx, form view.FormState) error {
	sess, err := utils.GetSession(c)
	if err != nil {
		return err
	}
	return h.render(c, form, sess)
}

func (h *ConsoleHandler) render(c *fiber.Ctx, form view.FormState, sess *console.Session) error {
	snap := sess.Snapshot()
	status, healthErr := h.health.Status(c.UserContext())
	if healthErr != nil {
		log.Debug().Err(healthErr).Msg("scoring API health probe failed")
	}

	out, err := h.renderer.Page(view.PageData{
		Form:    form,
		Panel:   snap.Panel,
		History: snap.History,
		Health:  view.HealthBadgeFor(status, healthErr),
	})
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("failed to render page")
		return fiber.ErrInternalServerError
	}
	return sendHTML(c, out)
}

func sendHTML(c *fiber.Ctx, body []byte) error {
	c.Type("html", "utf-8")
	return c.Send(body)
}
