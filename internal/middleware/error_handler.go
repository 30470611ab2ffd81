package middleware

import (
	"errors"
	"net/http"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/service"
	"github.com/labstack/echo/v4"
)

// ErrorHandler maps the services' closed error set onto HTTP statuses so
// handlers can return domain errors as-is.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := statusFor(err)
	msg := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	_ = c.JSON(code, map[string]string{"message": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrTierNotFound),
		errors.Is(err, service.ErrTicketNotFound),
		errors.Is(err, service.ErrListingNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrSelfPurchase):
		return http.StatusForbidden

	case errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrInvalidRoyalty),
		errors.Is(err, service.ErrInvalidTierSpec),
		errors.Is(err, service.ErrInvalidQuantity):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrBookingClosed),
		errors.Is(err, service.ErrSupplyExhausted),
		errors.Is(err, service.ErrPurchaseLimit),
		errors.Is(err, service.ErrAlreadyListed),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInvalidTicket),
		errors.Is(err, service.ErrEventEnded),
		errors.Is(err, service.ErrEventNotStarted):
		return http.StatusConflict

	case errors.Is(err, service.ErrPriceCapExceeded),
		errors.Is(err, service.ErrInsufficientPayment):
		return http.StatusUnprocessableEntity

	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
