package email

import (
	"context"
	"fmt"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) SendFlightNotice(ctx context.Context, event kafka.FlightEvent) error {
	fmt.Printf("notify passengers of flight %s: %s (status %s)\n", event.Number, event.Type, event.Status)
	return nil
}
