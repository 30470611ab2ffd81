package dto

import "time"

type TierSpecRequest struct {
	Name      string `json:"name" validate:"required"`
	Price     int64  `json:"price" validate:"gte=0"`
	MaxSupply int64  `json:"max_supply" validate:"required,gt=0"`
}

type CreateEventRequest struct {
	Organizer      string            `json:"organizer" validate:"required"`
	Name           string            `json:"name" validate:"required"`
	StartsAt       time.Time         `json:"starts_at" validate:"required"`
	EndsAt         time.Time         `json:"ends_at" validate:"required"`
	BookingStartAt time.Time         `json:"booking_start_at" validate:"required"`
	BookingEndAt   time.Time         `json:"booking_end_at" validate:"required"`
	RoyaltyBps     int64             `json:"royalty_bps" validate:"gte=0,lte=10000"`
	PurchaseLimit  int64             `json:"purchase_limit" validate:"gt=0"`
	ResellCapBps   int64             `json:"resell_cap_bps" validate:"gte=0"`
	Tiers          []TierSpecRequest `json:"tiers" validate:"required,min=1"`
}

type MintRequest struct {
	Wallet   string `json:"wallet" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,gte=1"`
}

type CreateListingRequest struct {
	TicketID uint   `json:"ticket_id" validate:"required"`
	Seller   string `json:"seller" validate:"required"`
	AskPrice int64  `json:"ask_price" validate:"gte=0"`
}

type CancelListingRequest struct {
	Caller string `json:"caller" validate:"required"`
}

type PurchaseRequest struct {
	Buyer          string `json:"buyer" validate:"required"`
	TenderedAmount int64  `json:"tendered_amount" validate:"gte=0"`
}

type VoidTicketRequest struct {
	Caller string `json:"caller" validate:"required"`
}
