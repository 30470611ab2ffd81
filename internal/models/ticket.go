package models

import "time"

type TicketStatus string

const (
	TicketActive   TicketStatus = "active"
	TicketRedeemed TicketStatus = "redeemed"
	TicketVoided   TicketStatus = "voided"
)

type Ticket struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Serial       string       `gorm:"type:varchar(36);uniqueIndex;not null" json:"serial"`
	EventID      uint         `gorm:"not null;index:idx_tickets_event_tier" json:"event_id"`
	TierID       uint         `gorm:"not null;index:idx_tickets_event_tier" json:"tier_id"`
	MintPrice    int64        `gorm:"not null" json:"mint_price"`
	CurrentOwner string       `gorm:"not null;index" json:"current_owner"`
	Status       TicketStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ProvenanceRecord is one hop in a ticket's ownership history. The first
// record of every ticket has an empty FromWallet (the mint). Rows are
// append-only and never updated.
type ProvenanceRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TicketID   uint      `gorm:"not null;index" json:"ticket_id"`
	FromWallet string    `json:"from_wallet"`
	ToWallet   string    `gorm:"not null" json:"to_wallet"`
	Price      int64     `gorm:"not null" json:"price"`
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// WalletMintRecord counts primary mints per (event, wallet). The count only
// ever increases; reselling a ticket does not return quota.
type WalletMintRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_mint_record_event_wallet" json:"event_id"`
	Wallet    string    `gorm:"not null;uniqueIndex:idx_mint_record_event_wallet" json:"wallet"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
