package services

import "testing"

func TestParseMoney(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"$1,234,567", 1234567},
		{"$1.2M", 1200000},
		{"650K", 650000},
		{"$2.5m", 2500000},
		{"$900", 900},
		{"  $450,000  ", 450000},
		{"3.5k", 3500},
	}

	for _, tt := range tests {
		got := ParseMoney(tt.raw)
		if got == nil {
			t.Errorf("ParseMoney(%q) = nil; want %.0f", tt.raw, tt.want)
			continue
		}
		if *got != tt.want {
			t.Errorf("ParseMoney(%q) = %.2f; want %.2f", tt.raw, *got, tt.want)
		}
	}
}

func TestParseMoneyAbsent(t *testing.T) {
	tests := []string{
		"",
		"Not Disclosed",
		"not disclosed",
		"N/A",
		"n/a",
		"call for price",
		"$",
	}

	for _, raw := range tests {
		if got := ParseMoney(raw); got != nil {
			t.Errorf("ParseMoney(%q) = %.2f; want nil", raw, *got)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	millions := 1200000.0
	thousands := 650000.0
	small := 900.0

	tests := []struct {
		n    *float64
		want string
	}{
		{&millions, "$1.2M"},
		{&thousands, "$650K"},
		{&small, "$900"},
		{nil, "N/A"},
	}

	for _, tt := range tests {
		if got := FormatMoney(tt.n); got != tt.want {
			t.Errorf("FormatMoney = %q; want %q", got, tt.want)
		}
	}
}
