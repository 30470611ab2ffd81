package service

import (
	"context"
	"errors"
	"time"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/bps"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/models"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/repository"
	"gorm.io/gorm"
)

// SaleReceipt is what a filled listing settles to. The ledger only computes
// the split; moving value units is the settlement collaborator's job, fed by
// the settlement.sale notification.
type SaleReceipt struct {
	ListingID      uint   `json:"listing_id"`
	TicketID       uint   `json:"ticket_id"`
	EventID        uint   `json:"event_id"`
	Organizer      string `json:"organizer"`
	Seller         string `json:"seller"`
	Buyer          string `json:"buyer"`
	AskPrice       int64  `json:"ask_price"`
	Royalty        int64  `json:"royalty"`
	SellerProceeds int64  `json:"seller_proceeds"`
	Refund         int64  `json:"refund"`
}

// ResaleService owns listings and is the only component allowed to ask the
// ownership ledger for a transfer.
type ResaleService interface {
	List(ctx context.Context, ticketID uint, seller string, askPrice int64, now time.Time) (*models.Listing, error)
	Cancel(ctx context.Context, listingID uint, caller string) (*models.Listing, error)
	Purchase(ctx context.Context, listingID uint, buyer string, tenderedAmount int64, now time.Time) (*SaleReceipt, error)
	GetListing(ctx context.Context, listingID uint) (*models.Listing, error)
	ListOpen(ctx context.Context, eventID *uint) ([]models.Listing, error)
}

type resaleService struct {
	events    repository.EventRepository
	tickets   repository.TicketRepository
	listings  repository.ListingRepository
	ownership OwnershipService
	publisher Publisher
}

func NewResaleService(
	events repository.EventRepository,
	tickets repository.TicketRepository,
	listings repository.ListingRepository,
	ownership OwnershipService,
	publisher Publisher,
) ResaleService {
	return &resaleService{
		events:    events,
		tickets:   tickets,
		listings:  listings,
		ownership: ownership,
		publisher: publisher,
	}
}

func (s *resaleService) List(ctx context.Context, ticketID uint, seller string, askPrice int64, now time.Time) (*models.Listing, error) {
	var created *models.Listing

	err := s.listings.Transaction(ctx, func(tx *gorm.DB) error {
		// Peek at the ticket to learn its event, then lock event before
		// ticket so every writer acquires locks in the same order.
		peek, err := s.tickets.FindByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return storageErr("find ticket", err)
		}

		event, err := s.events.FindByIDForUpdate(ctx, tx, peek.EventID)
		if err != nil {
			return storageErr("lock event", err)
		}

		ticket, err := s.tickets.FindByIDForUpdate(ctx, tx, ticketID)
		if err != nil {
			return storageErr("lock ticket", err)
		}

		if ticket.CurrentOwner != seller {
			return ErrNotOwner
		}
		if ticket.Status != models.TicketActive {
			return ErrInvalidTicket
		}

		open, err := s.listings.FindOpenByTicket(ctx, tx, ticketID)
		if err != nil {
			return storageErr("find open listing", err)
		}
		if open != nil {
			return ErrAlreadyListed
		}

		// maxAsk = mintPrice * resellCapBps / 10000, floored. The cap is
		// checked against the frozen mint price, never the last sale price.
		maxAsk, err := bps.Apply(ticket.MintPrice, event.ResellCapBps)
		if err != nil {
			return err
		}
		if askPrice > maxAsk {
			return &PriceCapError{Ask: askPrice, MaxAsk: maxAsk}
		}

		if !now.Before(event.EndsAt) {
			return ErrEventEnded
		}

		listing := &models.Listing{
			TicketID: ticketID,
			EventID:  event.ID,
			Seller:   seller,
			AskPrice: askPrice,
			Status:   models.ListingOpen,
		}
		if err := s.listings.Create(ctx, tx, listing); err != nil {
			return storageErr("create listing", err)
		}
		created = listing
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("listing.created", created)
	}

	return created, nil
}

func (s *resaleService) Cancel(ctx context.Context, listingID uint, caller string) (*models.Listing, error) {
	var cancelled *models.Listing

	err := s.listings.Transaction(ctx, func(tx *gorm.DB) error {
		peek, err := s.listings.FindByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return storageErr("find listing", err)
		}

		if _, err := s.events.FindByIDForUpdate(ctx, tx, peek.EventID); err != nil {
			return storageErr("lock event", err)
		}

		listing, err := s.listings.FindByIDForUpdate(ctx, tx, listingID)
		if err != nil {
			return storageErr("lock listing", err)
		}

		if listing.Seller != caller {
			return ErrUnauthorized
		}
		if listing.Status != models.ListingOpen {
			return ErrInvalidState
		}

		if err := s.listings.UpdateStatus(ctx, tx, listingID, models.ListingCancelled); err != nil {
			return storageErr("cancel listing", err)
		}
		listing.Status = models.ListingCancelled
		cancelled = listing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *resaleService) Purchase(ctx context.Context, listingID uint, buyer string, tenderedAmount int64, now time.Time) (*SaleReceipt, error) {
	var receipt *SaleReceipt

	err := s.listings.Transaction(ctx, func(tx *gorm.DB) error {
		peek, err := s.listings.FindByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return storageErr("find listing", err)
		}

		event, err := s.events.FindByIDForUpdate(ctx, tx, peek.EventID)
		if err != nil {
			return storageErr("lock event", err)
		}

		listing, err := s.listings.FindByIDForUpdate(ctx, tx, listingID)
		if err != nil {
			return storageErr("lock listing", err)
		}

		if listing.Status != models.ListingOpen {
			return ErrInvalidState
		}
		if tenderedAmount < listing.AskPrice {
			return ErrInsufficientPayment
		}
		if buyer == listing.Seller {
			return ErrSelfPurchase
		}
		if !now.Before(event.EndsAt) {
			return ErrEventEnded
		}

		royalty, proceeds, err := bps.SplitRoyalty(listing.AskPrice, event.RoyaltyBps)
		if err != nil {
			return err
		}

		if err := s.ownership.TransferInTx(ctx, tx, listing.TicketID, listing.Seller, buyer, listing.AskPrice, now, AuthorityResale); err != nil {
			return err
		}

		if err := s.listings.UpdateStatus(ctx, tx, listingID, models.ListingFilled); err != nil {
			return storageErr("fill listing", err)
		}

		receipt = &SaleReceipt{
			ListingID:      listingID,
			TicketID:       listing.TicketID,
			EventID:        event.ID,
			Organizer:      event.Organizer,
			Seller:         listing.Seller,
			Buyer:          buyer,
			AskPrice:       listing.AskPrice,
			Royalty:        royalty,
			SellerProceeds: proceeds,
			Refund:         tenderedAmount - listing.AskPrice,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Report the split to settlement; fund movement happens out of process.
	if s.publisher != nil {
		_ = s.publisher.Publish("settlement.sale", receipt)
	}

	return receipt, nil
}

func (s *resaleService) GetListing(ctx context.Context, listingID uint) (*models.Listing, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, storageErr("find listing", err)
	}
	return listing, nil
}

func (s *resaleService) ListOpen(ctx context.Context, eventID *uint) ([]models.Listing, error) {
	listings, err := s.listings.FindOpen(ctx, eventID)
	if err != nil {
		return nil, storageErr("list open listings", err)
	}
	return listings, nil
}
