package domain

import "errors"

var (
	ErrAuctionNotFound            = errors.New("auction not found")
	ErrAuctionClosed              = errors.New("auction has already ended")
	ErrSelfOutbid                 = errors.New("bidder is already the current leader")
	ErrWithdrawnBidder            = errors.New("bidder has withdrawn from this auction")
	ErrStaleBid                   = errors.New("bid does not exceed bidder's own committed amount")
	ErrCannotWithdrawWhileLeading = errors.New("current leader cannot withdraw")
	ErrNoActivePool               = errors.New("bidder has no active pool in this auction")
	ErrInvalidMaxPainCeiling      = errors.New("max pain ceiling must be positive and exceed the current bid")
	ErrInvalidAmount              = errors.New("bid amount cannot be zero or less than zero")
)
