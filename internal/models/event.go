package models

import "time"

type Event struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Organizer      string    `gorm:"not null;index" json:"organizer"`
	Name           string    `gorm:"not null" json:"name"`
	StartsAt       time.Time `gorm:"not null" json:"starts_at"`
	EndsAt         time.Time `gorm:"not null" json:"ends_at"`
	BookingStartAt time.Time `gorm:"not null" json:"booking_start_at"`
	BookingEndAt   time.Time `gorm:"not null" json:"booking_end_at"`
	RoyaltyBps     int64     `gorm:"not null" json:"royalty_bps"`
	PurchaseLimit  int64     `gorm:"not null" json:"purchase_limit"`
	ResellCapBps   int64     `gorm:"not null" json:"resell_cap_bps"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Tiers []Tier `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"tiers,omitempty"`
}

type Tier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     uint      `gorm:"not null;index" json:"event_id"`
	Name        string    `gorm:"not null" json:"name"`
	Price       int64     `gorm:"not null" json:"price"`
	MaxSupply   int64     `gorm:"not null" json:"max_supply"`
	MintedCount int64     `gorm:"not null;default:0" json:"minted_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Remaining is the number of tickets still mintable from this tier.
func (t *Tier) Remaining() int64 {
	return t.MaxSupply - t.MintedCount
}
