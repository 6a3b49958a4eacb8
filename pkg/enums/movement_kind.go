package enums

import "fmt"

// MovementKind classifies a stock movement.
type MovementKind string

const (
	// MovementIn records stock received.
	MovementIn MovementKind = "IN"
	// MovementOut records stock consumed or shipped.
	MovementOut MovementKind = "OUT"
	// MovementAdjustment records an absolute correction: its request quantity
	// is the target balance, not a delta.
	MovementAdjustment MovementKind = "ADJUSTMENT"
)

var validMovementKinds = []MovementKind{
	MovementIn,
	MovementOut,
	MovementAdjustment,
}

// IsValid reports whether the value is a canonical movement kind.
func (k MovementKind) IsValid() bool {
	for _, candidate := range validMovementKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseMovementKind converts raw input into MovementKind.
func ParseMovementKind(value string) (MovementKind, error) {
	for _, candidate := range validMovementKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement kind %q", value)
}
