package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/dto"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/models"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock RegistryService ---

type mockRegistryService struct {
	createFn  func(ctx context.Context, in service.CreateEventInput) (*models.Event, error)
	getFn     func(ctx context.Context, id uint) (*models.Event, error)
	getTierFn func(ctx context.Context, tierID uint) (*models.Tier, error)
	listFn    func(ctx context.Context) ([]models.Event, error)
}

func (m *mockRegistryService) CreateEvent(ctx context.Context, in service.CreateEventInput) (*models.Event, error) {
	return m.createFn(ctx, in)
}
func (m *mockRegistryService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	return m.getFn(ctx, id)
}
func (m *mockRegistryService) GetTier(ctx context.Context, tierID uint) (*models.Tier, error) {
	return m.getTierFn(ctx, tierID)
}
func (m *mockRegistryService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return m.listFn(ctx)
}

// --- Tests ---

func sampleCreateBody() string {
	body := map[string]any{
		"organizer":        "0xOrganizer",
		"name":             "Web3 Summit 2026",
		"starts_at":        "2026-07-01T18:00:00Z",
		"ends_at":          "2026-07-01T23:00:00Z",
		"booking_start_at": "2026-06-01T00:00:00Z",
		"booking_end_at":   "2026-06-10T00:00:00Z",
		"royalty_bps":      500,
		"purchase_limit":   10,
		"resell_cap_bps":   12000,
		"tiers": []map[string]any{
			{"name": "General Admission", "price": 100, "max_supply": 100},
		},
	}
	raw, _ := json.Marshal(body)
	return string(raw)
}

func TestCreateEventHandler_Success(t *testing.T) {
	svc := &mockRegistryService{
		createFn: func(ctx context.Context, in service.CreateEventInput) (*models.Event, error) {
			assert.Equal(t, "0xOrganizer", in.Organizer)
			assert.Equal(t, int64(500), in.RoyaltyBps)
			require.Len(t, in.Tiers, 1)
			assert.Equal(t, int64(100), in.Tiers[0].MaxSupply)

			return &models.Event{
				ID:         1,
				Organizer:  in.Organizer,
				Name:       in.Name,
				RoyaltyBps: in.RoyaltyBps,
				StartsAt:   in.StartsAt,
				EndsAt:     in.EndsAt,
				Tiers:      []models.Tier{{ID: 2, EventID: 1, Name: "General Admission", Price: 100, MaxSupply: 100}},
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(sampleCreateBody()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewEventHandler(svc).CreateEvent(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.ID)
	require.Len(t, resp.Tiers, 1)
	assert.Equal(t, int64(100), resp.Tiers[0].Remaining)
}

func TestCreateEventHandler_MissingOrganizer(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(`{"name":"No Organizer"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewEventHandler(&mockRegistryService{}).CreateEvent(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreateEventHandler_ServiceError(t *testing.T) {
	svc := &mockRegistryService{
		createFn: func(ctx context.Context, in service.CreateEventInput) (*models.Event, error) {
			return nil, service.ErrInvalidSchedule
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(sampleCreateBody()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewEventHandler(svc).CreateEvent(c)

	assert.ErrorIs(t, err, service.ErrInvalidSchedule)
}

func TestGetEventHandler(t *testing.T) {
	svc := &mockRegistryService{
		getFn: func(ctx context.Context, id uint) (*models.Event, error) {
			assert.Equal(t, uint(7), id)
			return &models.Event{ID: 7, Name: "Web3 Summit 2026", StartsAt: time.Now(), EndsAt: time.Now()}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/7", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	err := NewEventHandler(svc).GetEvent(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetEventHandler_BadID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := NewEventHandler(&mockRegistryService{}).GetEvent(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetTierHandler_WrongEvent(t *testing.T) {
	svc := &mockRegistryService{
		getTierFn: func(ctx context.Context, tierID uint) (*models.Tier, error) {
			return &models.Tier{ID: 5, EventID: 2}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/1/tiers/5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "tier_id")
	c.SetParamValues("1", "5")

	err := NewEventHandler(svc).GetTier(c)

	assert.ErrorIs(t, err, service.ErrTierNotFound)
}

func TestListEventsHandler(t *testing.T) {
	svc := &mockRegistryService{
		listFn: func(ctx context.Context) ([]models.Event, error) {
			return []models.Event{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewEventHandler(svc).ListEvents(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}
