package csscounter

import (
	"strconv"
	"strings"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"},
	{1, "I"},
}

// FormatCounter returns the text of the counter value in the given
// list-style. An empty style means decimal, unknown styles fall back to
// decimal.
func FormatCounter(value int, style string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "decimal-leading-zero":
		if value >= 0 && value < 10 {
			return "0" + strconv.Itoa(value)
		}
	case "lower-roman":
		return strings.ToLower(toRoman(value))
	case "upper-roman":
		return toRoman(value)
	case "lower-alpha", "lower-latin":
		return toAlphabetic(value)
	case "upper-alpha", "upper-latin":
		return strings.ToUpper(toAlphabetic(value))
	}
	return strconv.Itoa(value)
}

// toRoman uses subtractive notation. Values below 1 are returned as
// decimal.
func toRoman(value int) string {
	if value <= 0 {
		return strconv.Itoa(value)
	}
	var sb strings.Builder
	for _, n := range romanNumerals {
		for value >= n.value {
			sb.WriteString(n.symbol)
			value -= n.value
		}
	}
	return sb.String()
}

// toAlphabetic counts a, b, ..., z, aa, ab, ... (bijective base 26). Values
// below 1 are returned as decimal.
func toAlphabetic(value int) string {
	if value <= 0 {
		return strconv.Itoa(value)
	}
	var buf []byte
	for value > 0 {
		value--
		buf = append(buf, byte('a'+value%26))
		value /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
