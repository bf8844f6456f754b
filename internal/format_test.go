package darkgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThousands(t *testing.T) {
	for _, tc := range []struct {
		in   uint64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{100, "100"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{18446744073709551615, "18,446,744,073,709,551,615"},
	} {
		assert.Equal(t, tc.want, Thousands(tc.in), "Thousands(%d)", tc.in)
	}
}

func TestThousandsString(t *testing.T) {
	assert.Equal(t, "", ThousandsString(""))
	assert.Equal(t, "999", ThousandsString("999"))
	assert.Equal(t, "9,999", ThousandsString("9999"))
}

func TestRateFraction(t *testing.T) {
	assert.Equal(t, "0.0", RateFraction(0))
	assert.Equal(t, "1.5", RateFraction(1536))
	assert.Equal(t, "0.1", RateFraction(100))
	assert.Equal(t, "1024.0", RateFraction(1024*1024))
}

func TestRateCompact(t *testing.T) {
	for _, tc := range []struct {
		desc string
		bps  float64
		want string
	}{
		{"zero", 0, "0.0"},
		{"half a kilobyte", 1024 * 0.5, "0.50"},
		{"two significant digits", 1024 * 0.0543, "0.054"},
		{"rounds up into the next decade", 1024 * 0.0999, "0.10"},
		{"rounds up to one", 1024 * 0.999, "1.0"},
		{"one byte", 1, "0.00098"},
		{"exponent form for tiny rates", 1.0 / 86400, "1.1e-8"},
		{"one decimal from one KB/s", 1024, "1.0"},
		{"five KB/s", 1024 * 5, "5.0"},
		{"large", 1024 * 1234.56, "1234.6"},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, RateCompact(tc.bps))
		})
	}
}
