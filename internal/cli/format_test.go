package cli

import "testing"

func TestFormatIndian(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{100000, "1,00,000"},
		{1234567, "12,34,567"},
		{123456789, "12,34,56,789"},
		{-50000, "-50,000"},
	}
	for _, tt := range tests {
		if got := FormatIndian(tt.in); got != tt.want {
			t.Errorf("FormatIndian(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRupees(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{525000, "₹5,25,000"},
		{-50000, "-₹50,000"},
		{0, "₹0"},
		{999.6, "₹1,000"},
	}
	for _, tt := range tests {
		if got := FormatRupees(tt.in); got != tt.want {
			t.Errorf("FormatRupees(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{500, "₹500"},
		{9500, "₹9.5K"},
		{550000, "₹5.5L"},
		{12_000_000, "₹1.2Cr"},
		{-600000, "-₹6.0L"},
	}
	for _, tt := range tests {
		if got := FormatCompact(tt.in); got != tt.want {
			t.Errorf("FormatCompact(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Fatalf("FormatNumber = %q", got)
	}
	if got := FormatNumber(-1000); got != "-1,000" {
		t.Fatalf("FormatNumber = %q", got)
	}
}

func TestFormatSmallHelpers(t *testing.T) {
	if got := FormatMonths(10.9); got != "10.9 months" {
		t.Errorf("FormatMonths = %q", got)
	}
	if got := FormatPercent(15); got != "15%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatSigned(95000); got != "+₹95,000" {
		t.Errorf("FormatSigned = %q", got)
	}
	if got := FormatSigned(-1); got != "-₹1" {
		t.Errorf("FormatSigned = %q", got)
	}
}
