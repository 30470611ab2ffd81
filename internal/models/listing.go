package models

import "time"

type ListingStatus string

const (
	ListingOpen      ListingStatus = "open"
	ListingFilled    ListingStatus = "filled"
	ListingCancelled ListingStatus = "cancelled"
)

type Listing struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	TicketID  uint          `gorm:"not null;index" json:"ticket_id"`
	EventID   uint          `gorm:"not null;index" json:"event_id"`
	Seller    string        `gorm:"not null;index" json:"seller"`
	AskPrice  int64         `gorm:"not null" json:"ask_price"`
	Status    ListingStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Ticket *Ticket `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
}
