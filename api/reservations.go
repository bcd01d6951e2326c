package api

import (
	"net/http"
	"strconv"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/service/reservations"
	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service reservations.ReservationUseCase
}

type reservationResponse struct {
	Token      string `json:"token"`
	Status     string `json:"status"`
	FlightID   int64  `json:"flight_id"`
	SeatNumber int    `json:"seat_number"`
	UserID     int64  `json:"user_id"`
}

func NewReservationHandler(service reservations.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:token", h.get)
	router.DELETE("/:token", h.cancel)
	router.GET("/flight/:id", h.listByFlight)
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		Token:      r.Token,
		Status:     string(r.Status),
		FlightID:   r.FlightID,
		SeatNumber: r.SeatNumber,
		UserID:     r.UserID,
	}
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req reservations.CreateReservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toReservationResponse(reservation))
}

func (h *ReservationHandler) get(c *gin.Context) {
	reservation, err := h.service.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	reservation, err := h.service.Cancel(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func (h *ReservationHandler) listByFlight(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	list, err := h.service.ListByFlight(c.Request.Context(), flightID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]reservationResponse, 0, len(list))
	for i := range list {
		out = append(out, toReservationResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}
