package handler

import (
	"net/http"
	"strconv"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/dto"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/service"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	registry service.RegistryService
}

func NewEventHandler(registry service.RegistryService) *EventHandler {
	return &EventHandler{registry: registry}
}

func (h *EventHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/events", h.CreateEvent)
	g.GET("/events", h.ListEvents)
	g.GET("/events/:id", h.GetEvent)
	g.GET("/events/:id/tiers/:tier_id", h.GetTier)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req dto.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Organizer == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "organizer and name are required")
	}
	if req.PurchaseLimit < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "purchase_limit must be at least 1")
	}
	if req.ResellCapBps < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "resell_cap_bps must be non-negative")
	}

	in := service.CreateEventInput{
		Organizer:      req.Organizer,
		Name:           req.Name,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		BookingStartAt: req.BookingStartAt,
		BookingEndAt:   req.BookingEndAt,
		RoyaltyBps:     req.RoyaltyBps,
		PurchaseLimit:  req.PurchaseLimit,
		ResellCapBps:   req.ResellCapBps,
	}
	for _, t := range req.Tiers {
		in.Tiers = append(in.Tiers, service.TierSpec{
			Name:      t.Name,
			Price:     t.Price,
			MaxSupply: t.MaxSupply,
		})
	}

	event, err := h.registry.CreateEvent(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	event, err := h.registry.GetEvent(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) GetTier(c echo.Context) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tierID, err := parseID(c, "tier_id")
	if err != nil {
		return err
	}

	tier, err := h.registry.GetTier(c.Request().Context(), tierID)
	if err != nil {
		return err
	}
	if tier.EventID != eventID {
		return service.ErrTierNotFound
	}

	return c.JSON(http.StatusOK, dto.ToTierResponse(tier))
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.registry.ListEvents(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]dto.EventResponse, len(events))
	for i := range events {
		resp[i] = dto.ToEventResponse(&events[i])
	}

	return c.JSON(http.StatusOK, resp)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
