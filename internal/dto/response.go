package dto

import (
	"time"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/models"
)

type TierResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	MaxSupply   int64  `json:"max_supply"`
	MintedCount int64  `json:"minted_count"`
	Remaining   int64  `json:"remaining"`
}

type EventResponse struct {
	ID             uint           `json:"id"`
	Organizer      string         `json:"organizer"`
	Name           string         `json:"name"`
	StartsAt       time.Time      `json:"starts_at"`
	EndsAt         time.Time      `json:"ends_at"`
	BookingStartAt time.Time      `json:"booking_start_at"`
	BookingEndAt   time.Time      `json:"booking_end_at"`
	RoyaltyBps     int64          `json:"royalty_bps"`
	PurchaseLimit  int64          `json:"purchase_limit"`
	ResellCapBps   int64          `json:"resell_cap_bps"`
	Tiers          []TierResponse `json:"tiers,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

type TicketResponse struct {
	ID           uint                `json:"id"`
	Serial       string              `json:"serial"`
	EventID      uint                `json:"event_id"`
	TierID       uint                `json:"tier_id"`
	MintPrice    int64               `json:"mint_price"`
	CurrentOwner string              `json:"current_owner"`
	Status       models.TicketStatus `json:"status"`
}

type ProvenanceResponse struct {
	FromWallet string    `json:"from_wallet"`
	ToWallet   string    `json:"to_wallet"`
	Price      int64     `json:"price"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ListingResponse struct {
	ID       uint                 `json:"id"`
	TicketID uint                 `json:"ticket_id"`
	EventID  uint                 `json:"event_id"`
	Seller   string               `json:"seller"`
	AskPrice int64                `json:"ask_price"`
	Status   models.ListingStatus `json:"status"`
	Ticket   *TicketResponse      `json:"ticket,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToTierResponse(t *models.Tier) TierResponse {
	return TierResponse{
		ID:          t.ID,
		Name:        t.Name,
		Price:       t.Price,
		MaxSupply:   t.MaxSupply,
		MintedCount: t.MintedCount,
		Remaining:   t.Remaining(),
	}
}

func ToEventResponse(e *models.Event) EventResponse {
	resp := EventResponse{
		ID:             e.ID,
		Organizer:      e.Organizer,
		Name:           e.Name,
		StartsAt:       e.StartsAt,
		EndsAt:         e.EndsAt,
		BookingStartAt: e.BookingStartAt,
		BookingEndAt:   e.BookingEndAt,
		RoyaltyBps:     e.RoyaltyBps,
		PurchaseLimit:  e.PurchaseLimit,
		ResellCapBps:   e.ResellCapBps,
		CreatedAt:      e.CreatedAt,
	}
	for i := range e.Tiers {
		resp.Tiers = append(resp.Tiers, ToTierResponse(&e.Tiers[i]))
	}
	return resp
}

func ToTicketResponse(t *models.Ticket) TicketResponse {
	return TicketResponse{
		ID:           t.ID,
		Serial:       t.Serial,
		EventID:      t.EventID,
		TierID:       t.TierID,
		MintPrice:    t.MintPrice,
		CurrentOwner: t.CurrentOwner,
		Status:       t.Status,
	}
}

func ToProvenanceResponse(r *models.ProvenanceRecord) ProvenanceResponse {
	return ProvenanceResponse{
		FromWallet: r.FromWallet,
		ToWallet:   r.ToWallet,
		Price:      r.Price,
		OccurredAt: r.OccurredAt,
	}
}

func ToListingResponse(l *models.Listing) ListingResponse {
	resp := ListingResponse{
		ID:       l.ID,
		TicketID: l.TicketID,
		EventID:  l.EventID,
		Seller:   l.Seller,
		AskPrice: l.AskPrice,
		Status:   l.Status,
	}
	if l.Ticket != nil {
		t := ToTicketResponse(l.Ticket)
		resp.Ticket = &t
	}
	return resp
}
