package websocket

import (
	"context"
	"encoding/json"

	"github.com/mintbay/nftauction/internal/auction/application"
	"github.com/mintbay/nftauction/internal/shared/logger"
	"github.com/mintbay/nftauction/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionWSHandler handles the ws inbound messages specific to the
// auction module.
type AuctionWSHandler struct {
	auctionService application.AuctionService
	hub            *websocket.Hub
}

func NewAuctionWSHandler(auctionService application.AuctionService, hub *websocket.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{
		auctionService: auctionService,
		hub:            hub,
	}
}

// ListenForMessages consumes the hub's inbound channel and processes each
// message in its own goroutine.
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("AuctionWSHandler started listening for inbound messages from hub")
	for {
		select {
		case <-ctx.Done():
			log.Info("AuctionWSHandler stopped listening for inbound messages from hub")
			return
		case msg := <-h.hub.InboundMessages:
			go h.processMessage(ctx, msg.Client, msg.Data)
		}
	}
}

// processMessage dispatches the message by its type.
func (h *AuctionWSHandler) processMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		h.sendErrorToClient(client, "invalid message format")
		return
	}
	switch baseMsg.Type {
	case MessageTypeClientBid:
		h.handleClientBid(ctx, client, data)
	case MessageTypeClientWithdraw:
		h.handleClientWithdraw(ctx, client, data)
	case MessageTypeClientMaxPain:
		h.handleClientMaxPain(ctx, client, data)
	case MessageTypeClientCancelMaxPain:
		h.handleClientCancelMaxPain(ctx, client, data)
	default:
		h.sendErrorToClient(client, "unknown message type")
	}
}

func (h *AuctionWSHandler) handleClientBid(ctx context.Context, client *websocket.Client, data []byte) {
	var bidMsg ClientBidMessage
	if err := json.Unmarshal(data, &bidMsg); err != nil {
		h.sendErrorToClient(client, "invalid bid message format")
		return
	}
	if bidMsg.Payload.AuctionID.String() != client.AuctionID {
		h.sendErrorToClient(client, "auction ID mismatch")
		return
	}

	cmd := application.PlaceBidDTO{
		AuctionID: bidMsg.Payload.AuctionID,
		Bidder:    bidMsg.Payload.Bidder,
		Amount:    bidMsg.Payload.Amount,
	}
	if _, err := h.auctionService.PlaceBid(ctx, cmd); err != nil {
		h.sendErrorToClient(client, err.Error())
		return
	}
	h.broadcastState(ctx, client)
}

func (h *AuctionWSHandler) handleClientWithdraw(ctx context.Context, client *websocket.Client, data []byte) {
	var msg ClientWithdrawMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendErrorToClient(client, "invalid withdraw message format")
		return
	}
	if msg.Payload.AuctionID.String() != client.AuctionID {
		h.sendErrorToClient(client, "auction ID mismatch")
		return
	}

	cmd := application.WithdrawDTO{
		AuctionID: msg.Payload.AuctionID,
		Bidder:    msg.Payload.Bidder,
	}
	if _, err := h.auctionService.Withdraw(ctx, cmd); err != nil {
		h.sendErrorToClient(client, err.Error())
		return
	}
	h.broadcastState(ctx, client)
}

func (h *AuctionWSHandler) handleClientMaxPain(ctx context.Context, client *websocket.Client, data []byte) {
	var msg ClientMaxPainMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendErrorToClient(client, "invalid max pain message format")
		return
	}
	if msg.Payload.AuctionID.String() != client.AuctionID {
		h.sendErrorToClient(client, "auction ID mismatch")
		return
	}

	cmd := application.MaxPainDTO{
		AuctionID: msg.Payload.AuctionID,
		Bidder:    msg.Payload.Bidder,
		Ceiling:   msg.Payload.Ceiling,
	}
	if err := h.auctionService.SetMaxPain(ctx, cmd); err != nil {
		h.sendErrorToClient(client, err.Error())
		return
	}
}

func (h *AuctionWSHandler) handleClientCancelMaxPain(ctx context.Context, client *websocket.Client, data []byte) {
	var msg ClientCancelMaxPainMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendErrorToClient(client, "invalid cancel max pain message format")
		return
	}
	if err := h.auctionService.CancelMaxPain(ctx, msg.Payload.AuctionID); err != nil {
		h.sendErrorToClient(client, err.Error())
		return
	}
}

// broadcastState pushes the refreshed auction state to every watcher of
// the client's auction.
func (h *AuctionWSHandler) broadcastState(ctx context.Context, client *websocket.Client) {
	auctionID, err := parseAuctionID(client.AuctionID)
	if err != nil {
		h.sendErrorToClient(client, "invalid auction ID")
		return
	}
	state, err := h.auctionService.GetAuctionState(ctx, auctionID)
	if err != nil {
		h.sendErrorToClient(client, "failed to get updated auction state")
		return
	}

	updateMsg := struct {
		BaseMessage
		Payload *application.AuctionStateDTO `json:"payload"`
	}{
		BaseMessage: BaseMessage{Type: MessageTypeServerAuctionUpdate},
		Payload:     state,
	}
	data, err := json.Marshal(updateMsg)
	if err != nil {
		h.sendErrorToClient(client, "failed to serialize auction update")
		return
	}
	h.hub.BroadcastToAuction(client.AuctionID, data)
}

// sendErrorToClient serializes and sends an error message to one client.
func (h *AuctionWSHandler) sendErrorToClient(client *websocket.Client, errorMessage string) {
	errMsg := ServerErrorMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerError},
	}
	errMsg.Payload.Error = errorMessage
	data, err := json.Marshal(errMsg)
	if err != nil {
		log.Error("failed to marshal ServerErrorMessage", zap.Error(err))
		return
	}
	select {
	case client.Send <- data:
	default:
		log.Warn("client send channel full or closed, could not send error msg")
	}
}
