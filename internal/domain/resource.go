package domain

import "fmt"

type ResourceKind string

const (
	ResourceKindGate     ResourceKind = "gate"
	ResourceKindRunway   ResourceKind = "runway"
	ResourceKindAirplane ResourceKind = "airplane"
)

func ParseResourceKind(s string) (ResourceKind, error) {
	switch ResourceKind(s) {
	case ResourceKindGate, ResourceKindRunway, ResourceKindAirplane:
		return ResourceKind(s), nil
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

type Resource struct {
	ID   int64
	Kind ResourceKind
	Name string
}
