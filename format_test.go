package csscounter

import "testing"

func TestFormatCounter(t *testing.T) {
	testdata := []struct {
		value int
		style string
		want  string
	}{
		{3, "", "3"},
		{3, "decimal", "3"},
		{-3, "decimal", "-3"},
		{7, "decimal-leading-zero", "07"},
		{0, "decimal-leading-zero", "00"},
		{12, "decimal-leading-zero", "12"},
		{-1, "decimal-leading-zero", "-1"},
		{1, "upper-roman", "I"},
		{4, "upper-roman", "IV"},
		{9, "upper-roman", "IX"},
		{14, "lower-roman", "xiv"},
		{1994, "upper-roman", "MCMXCIV"},
		{3999, "upper-roman", "MMMCMXCIX"},
		{0, "upper-roman", "0"},
		{-5, "lower-roman", "-5"},
		{1, "lower-alpha", "a"},
		{26, "lower-alpha", "z"},
		{27, "lower-alpha", "aa"},
		{28, "lower-latin", "ab"},
		{52, "lower-alpha", "az"},
		{53, "lower-alpha", "ba"},
		{702, "lower-alpha", "zz"},
		{703, "lower-alpha", "aaa"},
		{2, "upper-alpha", "B"},
		{27, "upper-latin", "AA"},
		{0, "lower-alpha", "0"},
		{5, " Upper-Roman ", "V"},
		{5, "georgian", "5"},
	}
	for _, td := range testdata {
		if got := FormatCounter(td.value, td.style); got != td.want {
			t.Errorf("FormatCounter(%d, %q) = %q, want %q", td.value, td.style, got, td.want)
		}
	}
}
