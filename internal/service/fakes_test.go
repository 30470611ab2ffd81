package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Stateful in-memory store backing all three repository fakes ---
//
// Transaction takes the store mutex, which gives the same per-ledger
// serialization the real repositories get from the event row lock. The
// services never mutate anything before their precondition checks pass, so
// the fakes do not need rollback.

type fakeStore struct {
	mu sync.Mutex

	events     map[uint]*models.Event
	tiers      map[uint]*models.Tier
	tickets    map[uint]*models.Ticket
	listings   map[uint]*models.Listing
	provenance []models.ProvenanceRecord
	mintCounts map[string]int64

	nextID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:     make(map[uint]*models.Event),
		tiers:      make(map[uint]*models.Tier),
		tickets:    make(map[uint]*models.Ticket),
		listings:   make(map[uint]*models.Listing),
		mintCounts: make(map[string]int64),
	}
}

func (s *fakeStore) id() uint {
	s.nextID++
	return s.nextID
}

func mintKey(eventID uint, wallet string) string {
	return fmt.Sprintf("%d|%s", eventID, wallet)
}

// --- EventRepository fake ---

type fakeEventRepo struct {
	store *fakeStore
}

func (r *fakeEventRepo) CreateWithTiers(ctx context.Context, event *models.Event) error {
	event.ID = r.store.id()
	for i := range event.Tiers {
		event.Tiers[i].ID = r.store.id()
		event.Tiers[i].EventID = event.ID
		tier := event.Tiers[i]
		r.store.tiers[tier.ID] = &tier
	}
	stored := *event
	r.store.events[event.ID] = &stored
	return nil
}

func (r *fakeEventRepo) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	event, ok := r.store.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeEventRepo) FindAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	for _, e := range r.store.events {
		events = append(events, *e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (r *fakeEventRepo) FindTier(ctx context.Context, tierID uint) (*models.Tier, error) {
	tier, ok := r.store.tiers[tierID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *tier
	return &copied, nil
}

func (r *fakeEventRepo) FindTierInTx(ctx context.Context, tx *gorm.DB, tierID uint) (*models.Tier, error) {
	return r.FindTier(ctx, tierID)
}

func (r *fakeEventRepo) IncrementMinted(ctx context.Context, tx *gorm.DB, tierID uint, quantity int64) error {
	r.store.tiers[tierID].MintedCount += quantity
	return nil
}

// --- TicketRepository fake ---

type fakeTicketRepo struct {
	store *fakeStore
}

func (r *fakeTicketRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(nil)
}

func (r *fakeTicketRepo) CreateBatch(ctx context.Context, tx *gorm.DB, tickets []*models.Ticket) error {
	for _, t := range tickets {
		t.ID = r.store.id()
		stored := *t
		r.store.tickets[t.ID] = &stored
	}
	return nil
}

func (r *fakeTicketRepo) FindByID(ctx context.Context, id uint) (*models.Ticket, error) {
	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Ticket, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeTicketRepo) FindBySerial(ctx context.Context, serial string) (*models.Ticket, error) {
	for _, t := range r.store.tickets {
		if t.Serial == serial {
			copied := *t
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTicketRepo) FindByOwner(ctx context.Context, wallet string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	for _, t := range r.store.tickets {
		if t.CurrentOwner == wallet {
			tickets = append(tickets, *t)
		}
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets, nil
}

func (r *fakeTicketRepo) UpdateOwner(ctx context.Context, tx *gorm.DB, ticketID uint, owner string) error {
	r.store.tickets[ticketID].CurrentOwner = owner
	return nil
}

func (r *fakeTicketRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, ticketID uint, status models.TicketStatus) error {
	r.store.tickets[ticketID].Status = status
	return nil
}

func (r *fakeTicketRepo) AppendProvenance(ctx context.Context, tx *gorm.DB, record *models.ProvenanceRecord) error {
	record.ID = r.store.id()
	r.store.provenance = append(r.store.provenance, *record)
	return nil
}

func (r *fakeTicketRepo) ProvenanceOf(ctx context.Context, ticketID uint) ([]models.ProvenanceRecord, error) {
	var records []models.ProvenanceRecord
	for _, rec := range r.store.provenance {
		if rec.TicketID == ticketID {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (r *fakeTicketRepo) MintCount(ctx context.Context, tx *gorm.DB, eventID uint, wallet string) (int64, error) {
	return r.store.mintCounts[mintKey(eventID, wallet)], nil
}

func (r *fakeTicketRepo) AddMintCount(ctx context.Context, tx *gorm.DB, eventID uint, wallet string, quantity int64) error {
	r.store.mintCounts[mintKey(eventID, wallet)] += quantity
	return nil
}

// --- ListingRepository fake ---

type fakeListingRepo struct {
	store *fakeStore
}

func (r *fakeListingRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(nil)
}

func (r *fakeListingRepo) Create(ctx context.Context, tx *gorm.DB, listing *models.Listing) error {
	listing.ID = r.store.id()
	stored := *listing
	r.store.listings[listing.ID] = &stored
	return nil
}

func (r *fakeListingRepo) FindByID(ctx context.Context, id uint) (*models.Listing, error) {
	listing, ok := r.store.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *listing
	return &copied, nil
}

func (r *fakeListingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Listing, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeListingRepo) FindOpenByTicket(ctx context.Context, tx *gorm.DB, ticketID uint) (*models.Listing, error) {
	for _, l := range r.store.listings {
		if l.TicketID == ticketID && l.Status == models.ListingOpen {
			copied := *l
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeListingRepo) FindOpen(ctx context.Context, eventID *uint) ([]models.Listing, error) {
	var listings []models.Listing
	for _, l := range r.store.listings {
		if l.Status != models.ListingOpen {
			continue
		}
		if eventID != nil && l.EventID != *eventID {
			continue
		}
		listings = append(listings, *l)
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return listings, nil
}

func (r *fakeListingRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, listingID uint, status models.ListingStatus) error {
	r.store.listings[listingID].Status = status
	return nil
}

// --- Publisher fake ---

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

type publishedMessage struct {
	routingKey string
	payload    any
}

func (p *fakePublisher) Publish(routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishedMessage{routingKey: routingKey, payload: payload})
	return nil
}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.messages))
	for i, m := range p.messages {
		keys[i] = m.routingKey
	}
	return keys
}

// --- Fully wired ledger over the fakes ---

type fakeLedger struct {
	store     *fakeStore
	publisher *fakePublisher

	registry  RegistryService
	issuance  IssuanceService
	ownership OwnershipService
	resale    ResaleService
}

func newFakeLedger() *fakeLedger {
	store := newFakeStore()
	events := &fakeEventRepo{store: store}
	tickets := &fakeTicketRepo{store: store}
	listings := &fakeListingRepo{store: store}
	publisher := &fakePublisher{}

	ownership := NewOwnershipService(events, tickets, listings)
	return &fakeLedger{
		store:     store,
		publisher: publisher,
		registry:  NewRegistryService(events, publisher),
		issuance:  NewIssuanceService(events, tickets, publisher),
		ownership: ownership,
		resale:    NewResaleService(events, tickets, listings, ownership, publisher),
	}
}

// --- Shared fixtures ---

var (
	bookingOpens  = mustTime("2026-06-01T00:00:00Z")
	bookingCloses = mustTime("2026-06-10T00:00:00Z")
	eventStarts   = mustTime("2026-07-01T18:00:00Z")
	eventEnds     = mustTime("2026-07-01T23:00:00Z")
	duringBooking = mustTime("2026-06-05T12:00:00Z")
	afterEvent    = mustTime("2026-07-02T09:00:00Z")
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func defaultEventInput() CreateEventInput {
	return CreateEventInput{
		Organizer:      "0xOrganizer",
		Name:           "Web3 Summit 2026",
		StartsAt:       eventStarts,
		EndsAt:         eventEnds,
		BookingStartAt: bookingOpens,
		BookingEndAt:   bookingCloses,
		RoyaltyBps:     500,
		PurchaseLimit:  10,
		ResellCapBps:   12000,
		Tiers: []TierSpec{
			{Name: "General Admission", Price: 100, MaxSupply: 100},
		},
	}
}

func createTestEvent(t *testing.T, l *fakeLedger, mutate func(*CreateEventInput)) *models.Event {
	t.Helper()
	in := defaultEventInput()
	if mutate != nil {
		mutate(&in)
	}
	event, err := l.registry.CreateEvent(context.Background(), in)
	require.NoError(t, err)
	return event
}

func mintOne(t *testing.T, l *fakeLedger, event *models.Event, wallet string) models.Ticket {
	t.Helper()
	tickets, err := l.issuance.Mint(context.Background(), event.ID, event.Tiers[0].ID, wallet, 1, duringBooking)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	return tickets[0]
}
