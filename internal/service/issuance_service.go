package service

import (
	"context"
	"errors"
	"time"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/models"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IssuanceService mints tickets against tiers. Minting is the only way a
// ticket comes into existence, and the only code path that touches
// tier.MintedCount or a wallet's mint record.
type IssuanceService interface {
	Mint(ctx context.Context, eventID, tierID uint, wallet string, quantity int64, now time.Time) ([]models.Ticket, error)
}

type issuanceService struct {
	events    repository.EventRepository
	tickets   repository.TicketRepository
	publisher Publisher
}

func NewIssuanceService(events repository.EventRepository, tickets repository.TicketRepository, publisher Publisher) IssuanceService {
	return &issuanceService{events: events, tickets: tickets, publisher: publisher}
}

// Mint checks the booking window, tier supply, per-wallet purchase limit and
// quantity, in that order; the first failing check wins and nothing is
// written. On success all counters and tickets commit together.
//
// Reselling never returns quota: the wallet mint record counts primary
// allocations permanently.
func (s *issuanceService) Mint(ctx context.Context, eventID, tierID uint, wallet string, quantity int64, now time.Time) ([]models.Ticket, error) {
	var minted []models.Ticket

	err := s.tickets.Transaction(ctx, func(tx *gorm.DB) error {
		// Lock the event row; all mutations against this event serialize here.
		event, err := s.events.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return storageErr("lock event", err)
		}

		tier, err := s.events.FindTierInTx(ctx, tx, tierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTierNotFound
			}
			return storageErr("find tier", err)
		}
		if tier.EventID != eventID {
			return ErrTierNotFound
		}

		// Booking window is half-open: [bookingStart, bookingEnd).
		if now.Before(event.BookingStartAt) {
			return ErrBookingNotStarted
		}
		if !now.Before(event.BookingEndAt) {
			return ErrBookingEnded
		}

		// Compare by subtraction: counter+quantity could wrap for a huge
		// quantity, the remainder cannot.
		if quantity > tier.Remaining() {
			return &SupplyExhaustedError{Requested: quantity, Remaining: tier.Remaining()}
		}

		already, err := s.tickets.MintCount(ctx, tx, eventID, wallet)
		if err != nil {
			return storageErr("read mint record", err)
		}
		if quantity > event.PurchaseLimit-already {
			return &PurchaseLimitError{Requested: quantity, Remaining: event.PurchaseLimit - already}
		}

		if quantity < 1 {
			return ErrInvalidQuantity
		}

		if err := s.events.IncrementMinted(ctx, tx, tierID, quantity); err != nil {
			return storageErr("increment minted count", err)
		}
		if err := s.tickets.AddMintCount(ctx, tx, eventID, wallet, quantity); err != nil {
			return storageErr("increment mint record", err)
		}

		batch := make([]*models.Ticket, quantity)
		for i := range batch {
			batch[i] = &models.Ticket{
				Serial:       uuid.NewString(),
				EventID:      eventID,
				TierID:       tierID,
				MintPrice:    tier.Price,
				CurrentOwner: wallet,
				Status:       models.TicketActive,
			}
		}
		if err := s.tickets.CreateBatch(ctx, tx, batch); err != nil {
			return storageErr("create tickets", err)
		}

		minted = make([]models.Ticket, quantity)
		for i, t := range batch {
			rec := &models.ProvenanceRecord{
				TicketID:   t.ID,
				FromWallet: "",
				ToWallet:   wallet,
				Price:      tier.Price,
				OccurredAt: now,
			}
			if err := s.tickets.AppendProvenance(ctx, tx, rec); err != nil {
				return storageErr("append provenance", err)
			}
			minted[i] = *t
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("ticket.minted", minted)
	}

	return minted, nil
}
