package handler

import (
	"net/http"
	"strconv"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/dto"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/service"
	"github.com/Meleegod01/IdeaTicks-MVP/pkg/clock"
	"github.com/labstack/echo/v4"
)

type MarketHandler struct {
	resale service.ResaleService
	clk    clock.Clock
}

func NewMarketHandler(resale service.ResaleService, clk clock.Clock) *MarketHandler {
	return &MarketHandler{resale: resale, clk: clk}
}

func (h *MarketHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/listings", h.CreateListing)
	g.GET("/listings", h.ListOpen)
	g.GET("/listings/:id", h.GetListing)
	g.POST("/listings/:id/cancel", h.CancelListing)
	g.POST("/listings/:id/purchase", h.Purchase)
}

func (h *MarketHandler) CreateListing(c echo.Context) error {
	var req dto.CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TicketID == 0 || req.Seller == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "ticket_id and seller are required")
	}
	if req.AskPrice < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "ask_price must be non-negative")
	}

	listing, err := h.resale.List(c.Request().Context(), req.TicketID, req.Seller, req.AskPrice, h.clk.Now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.ToListingResponse(listing))
}

func (h *MarketHandler) GetListing(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	listing, err := h.resale.GetListing(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

func (h *MarketHandler) ListOpen(c echo.Context) error {
	var eventID *uint
	if raw := c.QueryParam("event_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid event_id")
		}
		id := uint(parsed)
		eventID = &id
	}

	listings, err := h.resale.ListOpen(c.Request().Context(), eventID)
	if err != nil {
		return err
	}

	resp := make([]dto.ListingResponse, len(listings))
	for i := range listings {
		resp[i] = dto.ToListingResponse(&listings[i])
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *MarketHandler) CancelListing(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CancelListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Caller == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "caller is required")
	}

	listing, err := h.resale.Cancel(c.Request().Context(), id, req.Caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

func (h *MarketHandler) Purchase(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Buyer == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "buyer is required")
	}

	receipt, err := h.resale.Purchase(c.Request().Context(), id, req.Buyer, req.TenderedAmount, h.clk.Now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, receipt)
}
