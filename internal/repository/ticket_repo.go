package repository

import (
	"context"
	"errors"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TicketRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	CreateBatch(ctx context.Context, tx *gorm.DB, tickets []*models.Ticket) error
	FindByID(ctx context.Context, id uint) (*models.Ticket, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Ticket, error)
	FindBySerial(ctx context.Context, serial string) (*models.Ticket, error)
	FindByOwner(ctx context.Context, wallet string) ([]models.Ticket, error)
	UpdateOwner(ctx context.Context, tx *gorm.DB, ticketID uint, owner string) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, ticketID uint, status models.TicketStatus) error
	AppendProvenance(ctx context.Context, tx *gorm.DB, record *models.ProvenanceRecord) error
	ProvenanceOf(ctx context.Context, ticketID uint) ([]models.ProvenanceRecord, error)
	MintCount(ctx context.Context, tx *gorm.DB, eventID uint, wallet string) (int64, error)
	AddMintCount(ctx context.Context, tx *gorm.DB, eventID uint, wallet string, quantity int64) error
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *ticketRepository) CreateBatch(ctx context.Context, tx *gorm.DB, tickets []*models.Ticket) error {
	return tx.WithContext(ctx).Create(tickets).Error
}

func (r *ticketRepository) FindByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).First(&ticket, id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindBySerial(ctx context.Context, serial string) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).Where("serial = ?", serial).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindByOwner(ctx context.Context, wallet string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Where("current_owner = ?", wallet).
		Order("id ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) UpdateOwner(ctx context.Context, tx *gorm.DB, ticketID uint, owner string) error {
	return tx.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ?", ticketID).
		Update("current_owner", owner).Error
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, ticketID uint, status models.TicketStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ?", ticketID).
		Update("status", status).Error
}

func (r *ticketRepository) AppendProvenance(ctx context.Context, tx *gorm.DB, record *models.ProvenanceRecord) error {
	return tx.WithContext(ctx).Create(record).Error
}

func (r *ticketRepository) ProvenanceOf(ctx context.Context, ticketID uint) ([]models.ProvenanceRecord, error) {
	var records []models.ProvenanceRecord
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *ticketRepository) MintCount(ctx context.Context, tx *gorm.DB, eventID uint, wallet string) (int64, error) {
	var record models.WalletMintRecord
	err := tx.WithContext(ctx).
		Where("event_id = ? AND wallet = ?", eventID, wallet).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.Count, nil
}

// AddMintCount upserts the per-(event,wallet) mint counter. Callers hold the
// event row lock, so the increment cannot race with another mint.
func (r *ticketRepository) AddMintCount(ctx context.Context, tx *gorm.DB, eventID uint, wallet string, quantity int64) error {
	record := models.WalletMintRecord{EventID: eventID, Wallet: wallet, Count: quantity}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "wallet"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("wallet_mint_records.count + ?", quantity)}),
	}).Create(&record).Error
}
