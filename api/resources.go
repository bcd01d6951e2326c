package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/domain"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/service/scheduling"
	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	service scheduling.SchedulingUseCase
}

func NewResourceHandler(service scheduling.SchedulingUseCase) *ResourceHandler {
	return &ResourceHandler{service: service}
}

func (h *ResourceHandler) Register(router *gin.RouterGroup) {
	router.GET("/:kind/available", h.available)
	router.POST("/:kind/:id/assign", h.assign)
	router.POST("/:kind/:id/release", h.release)
	router.POST("/:kind/reassign", h.reassign)
}

type assignRequest struct {
	FlightID      int64     `json:"flight_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

type releaseRequest struct {
	FlightID int64 `json:"flight_id"`
}

type reassignRequest struct {
	FlightID      int64     `json:"flight_id"`
	OldResourceID int64     `json:"old_resource_id"`
	NewResourceID int64     `json:"new_resource_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

type bookingResponse struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	ResourceID  int64  `json:"resource_id"`
	FlightID    int64  `json:"flight_id"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	Status      string `json:"status"`
}

type resourceResponse struct {
	ID   int64  `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

func toBookingResponse(b *domain.ResourceBooking) bookingResponse {
	return bookingResponse{
		ID:          b.ID,
		Kind:        string(b.Kind),
		ResourceID:  b.ResourceID,
		FlightID:    b.FlightID,
		WindowStart: b.Window.Start.Format(time.RFC3339),
		WindowEnd:   b.Window.End.Format(time.RFC3339),
		Status:      string(b.Status),
	}
}

func (h *ResourceHandler) available(c *gin.Context) {
	kind, err := domain.ParseResourceKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window, err := windowFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var excludeFlightID int64
	if raw := c.Query("exclude_flight"); raw != "" {
		excludeFlightID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exclude_flight"})
			return
		}
	}

	available, err := h.service.QueryAvailable(c.Request.Context(), kind, window, excludeFlightID)
	if err != nil {
		respondError(c, err)
		return
	}

	resources := make([]resourceResponse, 0, len(available))
	for _, res := range available {
		resources = append(resources, resourceResponse{ID: res.ID, Kind: string(res.Kind), Name: res.Name})
	}
	c.JSON(http.StatusOK, resources)
}

func (h *ResourceHandler) assign(c *gin.Context) {
	kind, resourceID, ok := kindAndID(c)
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.Assign(c.Request.Context(), kind, resourceID, req.FlightID,
		domain.TimeWindow{Start: req.DepartureTime, End: req.ArrivalTime})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (h *ResourceHandler) release(c *gin.Context) {
	kind, resourceID, ok := kindAndID(c)
	if !ok {
		return
	}

	var req releaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Release(c.Request.Context(), kind, resourceID, req.FlightID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler) reassign(c *gin.Context) {
	kind, err := domain.ParseResourceKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req reassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.Reassign(c.Request.Context(), kind, req.FlightID, req.OldResourceID, req.NewResourceID,
		domain.TimeWindow{Start: req.DepartureTime, End: req.ArrivalTime})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func kindAndID(c *gin.Context) (domain.ResourceKind, int64, bool) {
	kind, err := domain.ParseResourceKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", 0, false
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return "", 0, false
	}
	return kind, id, true
}

func windowFromQuery(c *gin.Context) (domain.TimeWindow, error) {
	departure, err := time.Parse(time.RFC3339, c.Query("departure"))
	if err != nil {
		return domain.TimeWindow{}, err
	}
	arrival, err := time.Parse(time.RFC3339, c.Query("arrival"))
	if err != nil {
		return domain.TimeWindow{}, err
	}
	return domain.TimeWindow{Start: departure, End: arrival}, nil
}
