package handlers

import (
	"errors"

	domainerrors "fraudconsole/internal/errors"
	"fraudconsole/internal/models"
	"fraudconsole/internal/scoring"
	"fraudconsole/internal/services/prediction"
	"fraudconsole/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// APIHandler is the JSON twin of the console form. It shares the session,
// so results show up in the page history too.
type APIHandler struct {
	predictions prediction.Service
}

func NewAPIHandler(predictions prediction.Service) *APIHandler {
	return &APIHandler{predictions: predictions}
}

func (h *APIHandler) Predict(c *fiber.Ctx) error {
	sess, err := utils.GetSession(c)
	if err != nil {
		return err
	}

	var req models.PredictionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, domainerrors.ErrInvalidPayload.WithMessage("invalid request body: %v", err))
	}

	result, err := h.predictions.Submit(c.UserContext(), sess, req.Input())
	if err != nil {
		return utils.BadGateway(c, scoringError(err))
	}
	return utils.Success(c, result)
}

func (h *APIHandler) History(c *fiber.Ctx) error {
	sess, err := utils.GetSession(c)
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.Map{"history": sess.Snapshot().History})
}

// scoringError maps a scoring failure to its domain code, keeping the message
// the panel shows.
func scoringError(err error) *domainerrors.DomainError {
	switch {
	case errors.Is(err, scoring.ErrStatus):
		return domainerrors.ErrScoringRejected.WithMessage("%s", err.Error())
	case errors.Is(err, scoring.ErrMalformedResponse):
		return domainerrors.ErrMalformedResponse.WithMessage("%s", err.Error())
	default:
		return domainerrors.ErrScoringUnavailable.WithMessage("%s", err.Error())
	}
}
