package service

import (
	"context"
	"errors"
	"time"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/models"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/repository"
	"gorm.io/gorm"
)

// Publisher is the slice of pkg/rabbitmq the services need. Notifications are
// fire-and-forget: a publish failure never fails the operation that emitted it.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

type TierSpec struct {
	Name      string
	Price     int64
	MaxSupply int64
}

type CreateEventInput struct {
	Organizer      string
	Name           string
	StartsAt       time.Time
	EndsAt         time.Time
	BookingStartAt time.Time
	BookingEndAt   time.Time
	RoyaltyBps     int64
	PurchaseLimit  int64
	ResellCapBps   int64
	Tiers          []TierSpec
}

// RegistryService owns event and tier definitions. Configuration is immutable
// once created; there is deliberately no update or delete operation.
type RegistryService interface {
	CreateEvent(ctx context.Context, in CreateEventInput) (*models.Event, error)
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	GetTier(ctx context.Context, tierID uint) (*models.Tier, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
}

type registryService struct {
	events    repository.EventRepository
	publisher Publisher
}

func NewRegistryService(events repository.EventRepository, publisher Publisher) RegistryService {
	return &registryService{events: events, publisher: publisher}
}

func (s *registryService) CreateEvent(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	if !in.BookingStartAt.Before(in.BookingEndAt) {
		return nil, ErrInvalidSchedule
	}
	if in.BookingEndAt.After(in.StartsAt) {
		return nil, ErrInvalidSchedule
	}
	if !in.StartsAt.Before(in.EndsAt) {
		return nil, ErrInvalidSchedule
	}
	if in.RoyaltyBps < 0 || in.RoyaltyBps > 10000 {
		return nil, ErrInvalidRoyalty
	}
	if len(in.Tiers) == 0 {
		return nil, ErrInvalidTierSpec
	}
	for _, t := range in.Tiers {
		if t.MaxSupply <= 0 || t.Price < 0 {
			return nil, ErrInvalidTierSpec
		}
	}

	event := &models.Event{
		Organizer:      in.Organizer,
		Name:           in.Name,
		StartsAt:       in.StartsAt,
		EndsAt:         in.EndsAt,
		BookingStartAt: in.BookingStartAt,
		BookingEndAt:   in.BookingEndAt,
		RoyaltyBps:     in.RoyaltyBps,
		PurchaseLimit:  in.PurchaseLimit,
		ResellCapBps:   in.ResellCapBps,
	}
	for _, t := range in.Tiers {
		event.Tiers = append(event.Tiers, models.Tier{
			Name:      t.Name,
			Price:     t.Price,
			MaxSupply: t.MaxSupply,
		})
	}

	// Event and tiers land in one transaction; a partially-created event is
	// never observable.
	if err := s.events.CreateWithTiers(ctx, event); err != nil {
		return nil, storageErr("create event", err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("event.created", event)
	}

	return event, nil
}

func (s *registryService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, storageErr("get event", err)
	}
	return event, nil
}

func (s *registryService) GetTier(ctx context.Context, tierID uint) (*models.Tier, error) {
	tier, err := s.events.FindTier(ctx, tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, storageErr("get tier", err)
	}
	return tier, nil
}

func (s *registryService) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, storageErr("list events", err)
	}
	return events, nil
}
