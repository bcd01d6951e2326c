package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/api"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/config"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/ratelimit"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/service/flights"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/service/reservations"
	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/service/scheduling"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	schedulingSvc scheduling.SchedulingUseCase,
	flightSvc flights.FlightUseCase,
	reservationSvc reservations.ReservationUseCase,
) error {
	router := newRouter(cfg, schedulingSvc, flightSvc, reservationSvc)

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(
	cfg *config.Config,
	schedulingSvc scheduling.SchedulingUseCase,
	flightSvc flights.FlightUseCase,
	reservationSvc reservations.ReservationUseCase,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	limits := ratelimit.DefaultConfig()
	if cfg.HTTP.RateLimitRPS > 0 {
		limits.RequestsPerSecond = cfg.HTTP.RateLimitRPS
	}
	if cfg.HTTP.RateLimitBurst > 0 {
		limits.BurstSize = cfg.HTTP.RateLimitBurst
	}
	router.Use(api.RateLimit(ratelimit.NewClientLimiter(limits)))

	api.NewResourceHandler(schedulingSvc).Register(router.Group("/resources"))
	api.NewFlightHandler(flightSvc).Register(router.Group("/flights"))
	api.NewReservationHandler(reservationSvc).Register(router.Group("/reservations"))

	return router
}
