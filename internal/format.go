package darkgraph

import (
	"strconv"
	"strings"
)

// Thousands formats n with a comma between every group of three digits.
func Thousands(n uint64) string {
	return ThousandsString(strconv.FormatUint(n, 10))
}

// ThousandsString groups the digit string s in runs of three from the right.
// The leading group may be shorter and is left unseparated.
func ThousandsString(s string) string {
	var out string
	for len(s) > 3 {
		out = "," + s[len(s)-3:] + out
		s = s[:len(s)-3]
	}
	return s + out
}

// RateFraction converts bytes per second to KB/s with exactly one decimal.
func RateFraction(bytesPerSecond float64) string {
	return strconv.FormatFloat(bytesPerSecond/1024, 'f', 1, 64)
}

// RateCompact converts bytes per second to KB/s. Values below 1 KB/s keep two
// significant digits so small rates stay visible; everything else gets one decimal.
func RateCompact(bytesPerSecond float64) string {
	kb := bytesPerSecond / 1024
	if kb >= 1 {
		return strconv.FormatFloat(kb, 'f', 1, 64)
	}
	return precision2(kb)
}

// precision2 formats v (0 <= v < 1) to two significant digits, switching to
// exponent notation below 1e-6.
func precision2(v float64) string {
	if v == 0 {
		return "0.0"
	}
	// "d.de±XX" after rounding to two significant digits
	sci := strconv.FormatFloat(v, 'e', 1, 64)
	mantissa, exp, _ := strings.Cut(sci, "e")
	e, err := strconv.Atoi(exp)
	if err != nil {
		return sci
	}
	if e < -6 {
		return mantissa + "e" + strconv.Itoa(e)
	}
	decimals := 1 - e
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
