package dnc

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStepsFromMeters(t *testing.T) {
	testCases := []struct {
		meters        float64
		stepsPerMeter float64
		steps         int64
	}{
		{0, 1000000, 0},
		{0.5, 1000000, 500000},
		{-0.5, 1000000, -500000},
		{1.2345678, 1000000, 1234568},
		{1.5, 1, 2}, // ties round away from zero
		{-1.5, 1, -2},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v", tc.meters), func(t *testing.T) {
			require.Equal(t, tc.steps, StepsFromMeters(tc.meters, tc.stepsPerMeter))
		})
	}
}

func TestMetersStepsRoundTrip(t *testing.T) {
	const stepsPerMeter = 1000000.0
	for _, m := range []float64{0, 0.1, 0.333333333, 1.5, 5.23, -2.75} {
		got := MetersFromSteps(StepsFromMeters(m, stepsPerMeter), stepsPerMeter)
		require.InDelta(t, m, got, 1/stepsPerMeter, "round trip of %v", m)
	}
}

func TestParseSignedHex(t *testing.T) {
	testCases := []struct {
		in  string
		out int64
	}{
		{"0", 0},
		{"7", 7},
		{"8", -8}, // 4-bit width
		{"f", -1},
		{"7fff", 32767},
		{"8000", -32768},
		{"ffff", -1},
		{"00ffff", 65535}, // width comes from digit count
		{"0007a120", 500000},
		{"fff85ee0", -500000},
		{"ffffffffffffffff", -1}, // full 64-bit width
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			v, err := ParseSignedHex(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.out, v)
		})
	}
}

func TestParseSignedHexMalformed(t *testing.T) {
	for _, in := range []string{"", "xyz", "12g4", "-1f"} {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			_, err := ParseSignedHex(in)
			require.Error(t, err)
		})
	}
}

func TestSignedHexRoundTrip(t *testing.T) {
	const digits = 4 // 16-bit width
	for v := int64(math.MinInt16); v <= math.MaxInt16; v += 17 {
		s := FormatSignedHex(v, digits)
		require.Len(t, s, digits)
		got, err := ParseSignedHex(s)
		require.NoError(t, err)
		require.Equalf(t, v, got, "round trip of %d via %q", v, s)
	}
}
