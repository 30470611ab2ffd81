package handler

import (
	"net/http"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/dto"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/service"
	"github.com/Meleegod01/IdeaTicks-MVP/pkg/clock"
	"github.com/labstack/echo/v4"
)

type TicketHandler struct {
	issuance  service.IssuanceService
	ownership service.OwnershipService
	clk       clock.Clock
}

func NewTicketHandler(issuance service.IssuanceService, ownership service.OwnershipService, clk clock.Clock) *TicketHandler {
	return &TicketHandler{issuance: issuance, ownership: ownership, clk: clk}
}

func (h *TicketHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/events/:id/tiers/:tier_id/mint", h.Mint)
	g.GET("/tickets/:id", h.GetTicket)
	g.GET("/tickets/:id/owner", h.Owner)
	g.GET("/tickets/:id/provenance", h.Provenance)
	g.POST("/tickets/:id/redeem", h.Redeem)
	g.POST("/tickets/:id/void", h.Void)
	g.GET("/wallets/:wallet/tickets", h.WalletTickets)
}

func (h *TicketHandler) Mint(c echo.Context) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tierID, err := parseID(c, "tier_id")
	if err != nil {
		return err
	}

	var req dto.MintRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Wallet == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "wallet is required")
	}

	tickets, err := h.issuance.Mint(c.Request().Context(), eventID, tierID, req.Wallet, req.Quantity, h.clk.Now())
	if err != nil {
		return err
	}

	resp := make([]dto.TicketResponse, len(tickets))
	for i := range tickets {
		resp[i] = dto.ToTicketResponse(&tickets[i])
	}

	return c.JSON(http.StatusCreated, resp)
}

func (h *TicketHandler) GetTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	ticket, err := h.ownership.GetTicket(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

func (h *TicketHandler) Owner(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	owner, err := h.ownership.OwnerOf(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"owner": owner})
}

func (h *TicketHandler) Provenance(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	records, err := h.ownership.ProvenanceOf(c.Request().Context(), id)
	if err != nil {
		return err
	}

	resp := make([]dto.ProvenanceResponse, len(records))
	for i := range records {
		resp[i] = dto.ToProvenanceResponse(&records[i])
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *TicketHandler) Redeem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.ownership.Redeem(c.Request().Context(), id, h.clk.Now()); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *TicketHandler) Void(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.VoidTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Caller == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "caller is required")
	}

	if err := h.ownership.Void(c.Request().Context(), id, req.Caller); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *TicketHandler) WalletTickets(c echo.Context) error {
	wallet := c.Param("wallet")
	if wallet == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "wallet is required")
	}

	tickets, err := h.ownership.ListByOwner(c.Request().Context(), wallet)
	if err != nil {
		return err
	}

	resp := make([]dto.TicketResponse, len(tickets))
	for i := range tickets {
		resp[i] = dto.ToTicketResponse(&tickets[i])
	}

	return c.JSON(http.StatusOK, resp)
}
