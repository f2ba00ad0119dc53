package websocket

import (
	"context"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/shared/websocket"
)

func parseAuctionID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// RegisterRoutes mounts the ws upgrade route. Each accepted connection
// becomes a hub client subscribed to one auction.
func RegisterRoutes(app *fiber.App, hub *websocket.Hub, ctx context.Context) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/auctions/:id", fiberws.New(func(conn *fiberws.Conn) {
		auctionID := conn.Params("id")
		if _, err := parseAuctionID(auctionID); err != nil {
			_ = conn.Close()
			return
		}

		client := &websocket.Client{
			Hub:       hub,
			Conn:      conn,
			Send:      make(chan []byte, 64),
			AuctionID: auctionID,
			ID:        uuid.NewString(),
		}
		hub.RegisterClient(client)

		go client.WritePump(ctx)
		// ReadPump blocks until the connection drops, keeping the fiber
		// handler alive for the lifetime of the socket.
		client.ReadPump(ctx)
	}))
}
