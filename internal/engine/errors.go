// internal/engine/errors.go
package engine

import "errors"

// Code identifies a settlement failure kind. Every engine operation either
// succeeds or returns one of these; there is no partial-failure mode.
type Code string

const (
	CodeNotAuthorized       Code = "NOT_AUTHORIZED"
	CodeAlreadyRegistered   Code = "ALREADY_REGISTERED"
	CodeAlreadyVerified     Code = "ALREADY_VERIFIED"
	CodeNotFound            Code = "NOT_FOUND"
	CodeNotForSale          Code = "NOT_FOR_SALE"
	CodeAlreadyForSale      Code = "ALREADY_FOR_SALE"
	CodeInsufficientPayment Code = "INSUFFICIENT_PAYMENT"
	CodeBidTooLow           Code = "BID_TOO_LOW"
	CodeAuctionNotActive    Code = "AUCTION_NOT_ACTIVE"
	CodeAuctionStillActive  Code = "AUCTION_STILL_ACTIVE"
)

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrNotAuthorized       = &Error{CodeNotAuthorized, "caller is not authorized for this operation"}
	ErrAlreadyRegistered   = &Error{CodeAlreadyRegistered, "identity already holds this role"}
	ErrAlreadyVerified     = &Error{CodeAlreadyVerified, "artwork is already verified"}
	ErrNotFound            = &Error{CodeNotFound, "no active record with this identifier"}
	ErrNotForSale          = &Error{CodeNotForSale, "instance is not for sale"}
	ErrAlreadyForSale      = &Error{CodeAlreadyForSale, "instance is already listed"}
	ErrInsufficientPayment = &Error{CodeInsufficientPayment, "attached payment does not cover the price"}
	ErrBidTooLow           = &Error{CodeBidTooLow, "bid must exceed the current highest bid and meet the minimum"}
	ErrAuctionNotActive    = &Error{CodeAuctionNotActive, "auction is outside its bidding window"}
	ErrAuctionStillActive  = &Error{CodeAuctionStillActive, "auction has not expired yet"}
)

// AsError unwraps err into an engine Error, if it carries one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
