package dnc

import (
	"fmt"
	"math"
	"strconv"
)

// StepsFromMeters converts a physical distance to controller steps.
// Rounding is half away from zero; encode and decode paths share this rule.
func StepsFromMeters(meters, stepsPerMeter float64) int64 {
	return int64(math.Round(meters * stepsPerMeter))
}

// MetersFromSteps converts controller steps back to a physical distance.
func MetersFromSteps(steps int64, stepsPerMeter float64) float64 {
	return float64(steps) / stepsPerMeter
}

// ParseSignedHex decodes a fixed-width hexadecimal two's-complement value.
// The bit width is derived from the digit count, 4 bits per digit, so "ffff"
// decodes to -1 while "00ffff" decodes to 65535.
func ParseSignedHex(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty position payload")
	}
	u, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed position payload %q: %v", s, err)
	}
	bits := uint(4 * len(s))
	if bits >= 64 {
		return int64(u), nil
	}
	if u >= 1<<(bits-1) {
		return int64(u) - int64(1)<<bits, nil
	}
	return int64(u), nil
}

// FormatSignedHex encodes v as the two's-complement representation over
// digits hex digits. It is the inverse of ParseSignedHex for all values
// representable in that width.
func FormatSignedHex(v int64, digits int) string {
	u := uint64(v)
	if bits := uint(4 * digits); bits < 64 {
		u &= 1<<bits - 1
	}
	return fmt.Sprintf("%0*x", digits, u)
}
