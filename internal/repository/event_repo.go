package repository

import (
	"context"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository interface {
	CreateWithTiers(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error)
	FindAll(ctx context.Context) ([]models.Event, error)
	FindTier(ctx context.Context, tierID uint) (*models.Tier, error)
	FindTierInTx(ctx context.Context, tx *gorm.DB, tierID uint) (*models.Tier, error)
	IncrementMinted(ctx context.Context, tx *gorm.DB, tierID uint, quantity int64) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// CreateWithTiers persists the event and every tier in event.Tiers in one
// transaction; a failure on any tier rolls back the whole event.
func (r *eventRepository) CreateWithTiers(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(event).Error
	})
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Preload("Tiers").First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByIDForUpdate locks the event row for the duration of tx. Every
// mutating operation against an event takes this lock first, which is what
// serializes concurrent mints and purchases per event.
func (r *eventRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	var event models.Event
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).Preload("Tiers").Order("id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) FindTier(ctx context.Context, tierID uint) (*models.Tier, error) {
	return r.FindTierInTx(ctx, r.db, tierID)
}

func (r *eventRepository) FindTierInTx(ctx context.Context, tx *gorm.DB, tierID uint) (*models.Tier, error) {
	var tier models.Tier
	if err := tx.WithContext(ctx).First(&tier, tierID).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *eventRepository) IncrementMinted(ctx context.Context, tx *gorm.DB, tierID uint, quantity int64) error {
	return tx.WithContext(ctx).
		Model(&models.Tier{}).
		Where("id = ?", tierID).
		Update("minted_count", gorm.Expr("minted_count + ?", quantity)).Error
}
