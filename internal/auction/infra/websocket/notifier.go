package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/auction/domain"
	"github.com/mintbay/nftauction/internal/shared/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HubNotifier implements domain.Notifier by broadcasting state-change
// events to the auction's watchers. Auto-bids placed by the max-pain
// evaluator surface here too, since they never pass through the inbound
// WS handlers.
type HubNotifier struct {
	hub *websocket.Hub
}

func NewHubNotifier(hub *websocket.Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) BidConfirmed(bid *domain.Bid) {
	msg := ServerBidMessage{BaseMessage: BaseMessage{Type: MessageTypeServerBid}}
	msg.Payload.AuctionID = bid.AuctionID
	msg.Payload.BidID = bid.ID
	msg.Payload.Bidder = bid.Bidder
	msg.Payload.Amount = bid.Amount
	msg.Payload.AutoBid = bid.AutoBid
	msg.Payload.Timestamp = bid.Timestamp
	n.broadcast(bid.AuctionID, msg)
}

func (n *HubNotifier) Outbid(auctionID uuid.UUID, bidder string, newBid decimal.Decimal) {
	msg := ServerOutbidMessage{BaseMessage: BaseMessage{Type: MessageTypeServerOutbid}}
	msg.Payload.AuctionID = auctionID
	msg.Payload.Bidder = bidder
	msg.Payload.NewBid = newBid
	n.broadcast(auctionID, msg)
}

func (n *HubNotifier) Winner(auctionID uuid.UUID, winner string, finalBid decimal.Decimal, endedAt time.Time) {
	msg := ServerWinnerMessage{BaseMessage: BaseMessage{Type: MessageTypeServerWinner}}
	msg.Payload.AuctionID = auctionID
	msg.Payload.Winner = winner
	msg.Payload.FinalBid = finalBid
	msg.Payload.EndedAt = endedAt
	n.broadcast(auctionID, msg)
}

func (n *HubNotifier) broadcast(auctionID uuid.UUID, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal notifier message", zap.Error(err))
		return
	}
	n.hub.BroadcastToAuction(auctionID.String(), data)
}
