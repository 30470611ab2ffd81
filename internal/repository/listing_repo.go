package repository

import (
	"context"
	"errors"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListingRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, listing *models.Listing) error
	FindByID(ctx context.Context, id uint) (*models.Listing, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Listing, error)
	FindOpenByTicket(ctx context.Context, tx *gorm.DB, ticketID uint) (*models.Listing, error)
	FindOpen(ctx context.Context, eventID *uint) ([]models.Listing, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, listingID uint, status models.ListingStatus) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *listingRepository) Create(ctx context.Context, tx *gorm.DB, listing *models.Listing) error {
	return tx.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindOpenByTicket returns nil without error when the ticket has no open
// listing.
func (r *listingRepository) FindOpenByTicket(ctx context.Context, tx *gorm.DB, ticketID uint) (*models.Listing, error) {
	var listing models.Listing
	err := tx.WithContext(ctx).
		Where("ticket_id = ? AND status = ?", ticketID, models.ListingOpen).
		First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindOpen(ctx context.Context, eventID *uint) ([]models.Listing, error) {
	var listings []models.Listing
	q := r.db.WithContext(ctx).Preload("Ticket").Where("status = ?", models.ListingOpen)
	if eventID != nil {
		q = q.Where("event_id = ?", *eventID)
	}
	if err := q.Order("id ASC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, listingID uint, status models.ListingStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", listingID).
		Update("status", status).Error
}
