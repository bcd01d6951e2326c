package api

import (
	"errors"
	"net/http"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP statuses: conflicts are 409,
// missing ids are 404, everything else is the caller's fault until proven
// otherwise.
func respondError(c *gin.Context, err error) {
	var conflict *domain.ConflictError
	var seatTaken *domain.SeatTakenError

	switch {
	case errors.As(err, &conflict), errors.As(err, &seatTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
