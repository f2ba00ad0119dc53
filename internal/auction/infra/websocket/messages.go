package websocket

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MessageType identifies a ws message.
type MessageType string

const (
	MessageTypeClientBid           MessageType = "client_bid"
	MessageTypeClientWithdraw      MessageType = "client_withdraw"
	MessageTypeClientMaxPain       MessageType = "client_max_pain"
	MessageTypeClientCancelMaxPain MessageType = "client_cancel_max_pain"

	MessageTypeServerAuctionUpdate MessageType = "server_auction_update"
	MessageTypeServerBid           MessageType = "server_bid"
	MessageTypeServerOutbid        MessageType = "server_outbid"
	MessageTypeServerWinner        MessageType = "server_winner"
	MessageTypeServerError         MessageType = "server_error"
)

// BaseMessage is the base struct for all WS messages; Type routes the
// payload.
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientBidMessage is a bid sent by the client.
type ClientBidMessage struct {
	BaseMessage
	Payload struct {
		AuctionID uuid.UUID       `json:"auction_id"`
		Bidder    string          `json:"bidder"`
		Amount    decimal.Decimal `json:"amount"`
	} `json:"payload"`
}

// ClientWithdrawMessage asks to withdraw the bidder's pool.
type ClientWithdrawMessage struct {
	BaseMessage
	Payload struct {
		AuctionID uuid.UUID `json:"auction_id"`
		Bidder    string    `json:"bidder"`
	} `json:"payload"`
}

// ClientMaxPainMessage opts the bidder into the auto-bid directive.
type ClientMaxPainMessage struct {
	BaseMessage
	Payload struct {
		AuctionID uuid.UUID       `json:"auction_id"`
		Bidder    string          `json:"bidder"`
		Ceiling   decimal.Decimal `json:"ceiling"`
	} `json:"payload"`
}

// ClientCancelMaxPainMessage clears the directive.
type ClientCancelMaxPainMessage struct {
	BaseMessage
	Payload struct {
		AuctionID uuid.UUID `json:"auction_id"`
	} `json:"payload"`
}

// ServerBidMessage announces a recorded bid (user-placed or auto-bid) to
// the auction's watchers.
type ServerBidMessage struct {
	BaseMessage
	Payload struct {
		AuctionID uuid.UUID       `json:"auction_id"`
		BidID     uuid.UUID       `json:"bid_id"`
		Bidder    string          `json:"bidder"`
		Amount    decimal.Decimal `json:"amount"`
		AutoBid   bool            `json:"auto_bid"`
		Timestamp time.Time       `json:"timestamp"`
	} `json:"payload"`
}

// ServerOutbidMessage tells watchers who lost the lead.
type ServerOutbidMessage struct {
	BaseMessage
	Payload struct {
		AuctionID uuid.UUID       `json:"auction_id"`
		Bidder    string          `json:"bidder"`
		NewBid    decimal.Decimal `json:"new_bid"`
	} `json:"payload"`
}

// ServerWinnerMessage announces the completed auction's winner.
type ServerWinnerMessage struct {
	BaseMessage
	Payload struct {
		AuctionID uuid.UUID       `json:"auction_id"`
		Winner    string          `json:"winner"`
		FinalBid  decimal.Decimal `json:"final_bid"`
		EndedAt   time.Time       `json:"ended_at"`
	} `json:"payload"`
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}
