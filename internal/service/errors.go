package service

import (
	"errors"
	"fmt"
)

// Every failure an operation can return is one of the errors below. Callers
// match with errors.Is; the struct errors additionally carry the detail a
// caller needs to act without re-querying.
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrTierNotFound    = errors.New("tier not found")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrListingNotFound = errors.New("listing not found")

	ErrInvalidSchedule = errors.New("invalid event schedule")
	ErrInvalidRoyalty  = errors.New("royalty exceeds 10000 basis points")
	ErrInvalidTierSpec = errors.New("invalid tier specification")

	ErrBookingClosed     = errors.New("booking window is closed")
	ErrBookingNotStarted = fmt.Errorf("%w: not yet open", ErrBookingClosed)
	ErrBookingEnded      = fmt.Errorf("%w: already ended", ErrBookingClosed)
	ErrSupplyExhausted   = errors.New("tier supply exhausted")
	ErrPurchaseLimit     = errors.New("purchase limit exceeded")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")

	ErrNotOwner      = errors.New("wallet does not own this ticket")
	ErrUnauthorized  = errors.New("caller is not authorized")
	ErrInvalidTicket = errors.New("ticket is not active")

	ErrEventNotStarted = errors.New("event has not started")

	ErrAlreadyListed       = errors.New("ticket already has an open listing")
	ErrPriceCapExceeded    = errors.New("ask price exceeds resale cap")
	ErrEventEnded          = errors.New("event has ended")
	ErrInvalidState        = errors.New("listing is not open")
	ErrInsufficientPayment = errors.New("tendered amount below ask price")
	ErrSelfPurchase        = errors.New("seller cannot buy their own listing")

	// ErrStorageUnavailable wraps persistence failures. The operation that
	// returns it has applied no partial mutation and is safe to retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// SupplyExhaustedError reports how many tickets the tier can still mint.
type SupplyExhaustedError struct {
	Requested int64
	Remaining int64
}

func (e *SupplyExhaustedError) Error() string {
	return fmt.Sprintf("tier supply exhausted: requested %d, %d remaining", e.Requested, e.Remaining)
}

func (e *SupplyExhaustedError) Is(target error) bool {
	return target == ErrSupplyExhausted
}

// PurchaseLimitError reports how much of the wallet's per-event quota is left.
type PurchaseLimitError struct {
	Requested int64
	Remaining int64
}

func (e *PurchaseLimitError) Error() string {
	return fmt.Sprintf("purchase limit exceeded: requested %d, %d remaining for wallet", e.Requested, e.Remaining)
}

func (e *PurchaseLimitError) Is(target error) bool {
	return target == ErrPurchaseLimit
}

// PriceCapError reports the highest ask the resale cap permits.
type PriceCapError struct {
	Ask    int64
	MaxAsk int64
}

func (e *PriceCapError) Error() string {
	return fmt.Sprintf("ask price %d exceeds resale cap of %d", e.Ask, e.MaxAsk)
}

func (e *PriceCapError) Is(target error) bool {
	return target == ErrPriceCapExceeded
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
