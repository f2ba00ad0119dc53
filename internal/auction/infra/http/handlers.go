package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/auction/application"
	"github.com/mintbay/nftauction/internal/auction/domain"
)

// RegisterRoutes mounts the read-only REST projections: the resolved
// schedule and the active auction's state. Mutations go through the WS
// channel.
func RegisterRoutes(app *fiber.App, svc application.AuctionService) {
	api := app.Group("/api")

	api.Get("/schedule", func(c *fiber.Ctx) error {
		sched, err := svc.GetSchedule(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to resolve schedule")
		}
		return c.JSON(sched)
	})

	api.Get("/auctions/:id/state", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid auction id")
		}
		state, err := svc.GetAuctionState(c.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrAuctionNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "auction is not active")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to get auction state")
		}
		return c.JSON(state)
	})
}
