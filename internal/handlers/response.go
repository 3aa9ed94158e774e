package handlers

import (
	"errors"
	"net/http"

	"food-storefront/internal/checkout"
	"food-storefront/internal/gateway"
	"food-storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError maps service and gateway errors to a status code.
func respondError(c *gin.Context, title string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrItemNotFound), errors.Is(err, services.ErrCuisineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidFilter):
		status = http.StatusBadRequest
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		status = http.StatusConflict
	case errors.Is(err, checkout.ErrSubmissionFailed),
		errors.Is(err, gateway.ErrTransport),
		errors.Is(err, gateway.ErrDecode),
		errors.Is(err, gateway.ErrStatus):
		status = http.StatusBadGateway
	}

	c.JSON(status, ErrorResponse{
		Error:   title,
		Message: err.Error(),
	})
}
