package service

import (
	"context"
	"errors"
	"time"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/models"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/repository"
	"gorm.io/gorm"
)

// Authority identifies which ledger component asked for an ownership change.
// Only the issuance and resale paths may move a ticket; nothing else can.
type Authority string

const (
	AuthorityIssuance Authority = "issuance"
	AuthorityResale   Authority = "resale"
)

// OwnershipService is the sole writer of a ticket's current owner after mint,
// and the keeper of its append-only provenance.
type OwnershipService interface {
	// TransferInTx moves a ticket between wallets inside the caller's
	// transaction, so a purchase commits the transfer, the provenance row and
	// the listing update together or not at all.
	TransferInTx(ctx context.Context, tx *gorm.DB, ticketID uint, from, to string, price int64, now time.Time, authorizedBy Authority) error
	OwnerOf(ctx context.Context, ticketID uint) (string, error)
	GetTicket(ctx context.Context, ticketID uint) (*models.Ticket, error)
	ProvenanceOf(ctx context.Context, ticketID uint) ([]models.ProvenanceRecord, error)
	ListByOwner(ctx context.Context, wallet string) ([]models.Ticket, error)
	Redeem(ctx context.Context, ticketID uint, now time.Time) error
	Void(ctx context.Context, ticketID uint, caller string) error
}

type ownershipService struct {
	events   repository.EventRepository
	tickets  repository.TicketRepository
	listings repository.ListingRepository
}

func NewOwnershipService(events repository.EventRepository, tickets repository.TicketRepository, listings repository.ListingRepository) OwnershipService {
	return &ownershipService{events: events, tickets: tickets, listings: listings}
}

func (s *ownershipService) TransferInTx(ctx context.Context, tx *gorm.DB, ticketID uint, from, to string, price int64, now time.Time, authorizedBy Authority) error {
	if authorizedBy != AuthorityIssuance && authorizedBy != AuthorityResale {
		return ErrUnauthorized
	}

	ticket, err := s.tickets.FindByIDForUpdate(ctx, tx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTicketNotFound
		}
		return storageErr("lock ticket", err)
	}
	if ticket.CurrentOwner != from {
		return ErrNotOwner
	}
	if ticket.Status != models.TicketActive {
		return ErrInvalidTicket
	}

	if err := s.tickets.UpdateOwner(ctx, tx, ticketID, to); err != nil {
		return storageErr("update owner", err)
	}
	record := &models.ProvenanceRecord{
		TicketID:   ticketID,
		FromWallet: from,
		ToWallet:   to,
		Price:      price,
		OccurredAt: now,
	}
	if err := s.tickets.AppendProvenance(ctx, tx, record); err != nil {
		return storageErr("append provenance", err)
	}
	return nil
}

func (s *ownershipService) OwnerOf(ctx context.Context, ticketID uint) (string, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return "", err
	}
	return ticket.CurrentOwner, nil
}

func (s *ownershipService) GetTicket(ctx context.Context, ticketID uint) (*models.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, storageErr("find ticket", err)
	}
	return ticket, nil
}

func (s *ownershipService) ProvenanceOf(ctx context.Context, ticketID uint) ([]models.ProvenanceRecord, error) {
	if _, err := s.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	records, err := s.tickets.ProvenanceOf(ctx, ticketID)
	if err != nil {
		return nil, storageErr("read provenance", err)
	}
	return records, nil
}

func (s *ownershipService) ListByOwner(ctx context.Context, wallet string) ([]models.Ticket, error) {
	tickets, err := s.tickets.FindByOwner(ctx, wallet)
	if err != nil {
		return nil, storageErr("list tickets by owner", err)
	}
	return tickets, nil
}

// Redeem marks a ticket used at check-in. Redemption is permitted from event
// start onward and never reverts.
func (s *ownershipService) Redeem(ctx context.Context, ticketID uint, now time.Time) error {
	return s.tickets.Transaction(ctx, func(tx *gorm.DB) error {
		ticket, err := s.tickets.FindByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return storageErr("find ticket", err)
		}

		event, err := s.events.FindByIDForUpdate(ctx, tx, ticket.EventID)
		if err != nil {
			return storageErr("lock event", err)
		}

		ticket, err = s.tickets.FindByIDForUpdate(ctx, tx, ticketID)
		if err != nil {
			return storageErr("lock ticket", err)
		}
		if ticket.Status != models.TicketActive {
			return ErrInvalidTicket
		}
		if now.Before(event.StartsAt) {
			return ErrEventNotStarted
		}

		return s.setStatusCancellingListing(ctx, tx, ticketID, models.TicketRedeemed)
	})
}

// Void invalidates a ticket. Only the event organizer may do this; any open
// listing for the ticket is cancelled in the same transaction.
func (s *ownershipService) Void(ctx context.Context, ticketID uint, caller string) error {
	return s.tickets.Transaction(ctx, func(tx *gorm.DB) error {
		ticket, err := s.tickets.FindByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return storageErr("find ticket", err)
		}

		event, err := s.events.FindByIDForUpdate(ctx, tx, ticket.EventID)
		if err != nil {
			return storageErr("lock event", err)
		}
		if event.Organizer != caller {
			return ErrUnauthorized
		}

		ticket, err = s.tickets.FindByIDForUpdate(ctx, tx, ticketID)
		if err != nil {
			return storageErr("lock ticket", err)
		}
		if ticket.Status != models.TicketActive {
			return ErrInvalidTicket
		}

		return s.setStatusCancellingListing(ctx, tx, ticketID, models.TicketVoided)
	})
}

func (s *ownershipService) setStatusCancellingListing(ctx context.Context, tx *gorm.DB, ticketID uint, status models.TicketStatus) error {
	if err := s.tickets.UpdateStatus(ctx, tx, ticketID, status); err != nil {
		return storageErr("update ticket status", err)
	}
	open, err := s.listings.FindOpenByTicket(ctx, tx, ticketID)
	if err != nil {
		return storageErr("find open listing", err)
	}
	if open != nil {
		if err := s.listings.UpdateStatus(ctx, tx, open.ID, models.ListingCancelled); err != nil {
			return storageErr("cancel listing", err)
		}
	}
	return nil
}
