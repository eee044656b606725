package scenario

import (
	"math"
	"testing"
)

func TestSetHiresClamps(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{15, 10},
		{-3, 0},
		{0, 0},
		{10, 10},
		{4, 4},
	}
	for _, tt := range tests {
		var p Parameters
		p.SetHires(tt.in)
		if got := p.Hires(); got != tt.want {
			t.Errorf("SetHires(%d) -> %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSetExtraSpendClampsAndSnaps(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-500, 0},
		{250_000, 200_000},
		{50_000, 50_000},
		{50_499, 50_000},
		{50_500, 51_000},
		{199_600, 200_000},
		{math.NaN(), 0},
		{math.Inf(1), 200_000},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		var p Parameters
		p.SetExtraSpend(tt.in)
		if got := p.ExtraSpend(); got != tt.want {
			t.Errorf("SetExtraSpend(%v) -> %v, want %v", tt.in, got, tt.want)
		}
		if math.Mod(p.ExtraSpend(), SpendStep) != 0 {
			t.Errorf("SetExtraSpend(%v) -> %v is not a multiple of %d", tt.in, p.ExtraSpend(), SpendStep)
		}
	}
}

func TestSetPriceDeltaClamps(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, 0},
		{51, 50},
		{10, 10},
	}
	for _, tt := range tests {
		var p Parameters
		p.SetPriceDeltaPercent(tt.in)
		if got := p.PriceDeltaPercent(); got != tt.want {
			t.Errorf("SetPriceDeltaPercent(%d) -> %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSettersMarkDirty(t *testing.T) {
	var p Parameters
	if p.Dirty() {
		t.Fatal("zero Parameters should not be dirty")
	}

	p.SetHires(2)
	if !p.Dirty() {
		t.Fatal("SetHires did not mark dirty")
	}

	p.MarkClean()
	p.SetExtraSpend(1000)
	if !p.Dirty() {
		t.Fatal("SetExtraSpend did not mark dirty")
	}

	p.MarkClean()
	p.SetPriceDeltaPercent(3)
	if !p.Dirty() {
		t.Fatal("SetPriceDeltaPercent did not mark dirty")
	}
}

func TestNewClampsAndIsClean(t *testing.T) {
	p := New(Values{Hires: 99, ExtraSpend: -1, PriceDeltaPercent: 7})
	if p.Dirty() {
		t.Fatal("New should return clean parameters")
	}
	want := Values{Hires: 10, ExtraSpend: 0, PriceDeltaPercent: 7}
	if got := p.Values(); got != want {
		t.Fatalf("Values() = %+v, want %+v", got, want)
	}
}

func TestNudge(t *testing.T) {
	var p Parameters

	p.Nudge(FieldHires, 1, false)
	p.Nudge(FieldHires, 1, true)
	if p.Hires() != 3 {
		t.Fatalf("hires after nudges = %d, want 3", p.Hires())
	}

	p.Nudge(FieldExtraSpend, 3, false)
	if p.ExtraSpend() != 3000 {
		t.Fatalf("extra spend = %v, want 3000", p.ExtraSpend())
	}
	p.Nudge(FieldExtraSpend, 100, true)
	if p.ExtraSpend() != MaxExtraSpend {
		t.Fatalf("extra spend = %v, want clamp at %d", p.ExtraSpend(), MaxExtraSpend)
	}

	p.Nudge(FieldPriceDelta, -1, false)
	if p.PriceDeltaPercent() != 0 {
		t.Fatalf("price delta = %d, want clamp at 0", p.PriceDeltaPercent())
	}
	p.Nudge(FieldPriceDelta, 2, true)
	if p.PriceDeltaPercent() != 10 {
		t.Fatalf("price delta = %d, want 10", p.PriceDeltaPercent())
	}
}

func TestFraction(t *testing.T) {
	p := New(Values{Hires: 5, ExtraSpend: 50_000, PriceDeltaPercent: 50})
	if got := p.Fraction(FieldHires); got != 0.5 {
		t.Errorf("hires fraction = %v, want 0.5", got)
	}
	if got := p.Fraction(FieldExtraSpend); got != 0.25 {
		t.Errorf("spend fraction = %v, want 0.25", got)
	}
	if got := p.Fraction(FieldPriceDelta); got != 1 {
		t.Errorf("price fraction = %v, want 1", got)
	}
}
