// Package scenario holds the bounded input assumptions submitted for forecasting.
package scenario

import "math"

// Parameter bounds. ExtraSpend moves in whole SpendStep increments.
const (
	MinHires = 0
	MaxHires = 10

	MinExtraSpend = 0
	MaxExtraSpend = 200_000
	SpendStep     = 1_000

	MinPriceDelta = 0
	MaxPriceDelta = 50
)

// Parameters is the scenario being edited. The zero value is a valid
// starting scenario (all inputs at zero, not dirty).
type Parameters struct {
	hires      int
	extraSpend float64
	priceDelta int
	dirty      bool
}

// Values is an immutable snapshot of Parameters, used for requests and comparisons.
type Values struct {
	Hires             int
	ExtraSpend        float64
	PriceDeltaPercent int
}

// Range describes one slider: its bounds and the small/large nudge steps.
type Range struct {
	Label string
	Min   float64
	Max   float64
	Step  float64
	Big   float64
}

// Bounds returns the ranges for hires, extra spend and price delta, in that order.
func Bounds() [3]Range {
	return [3]Range{
		{Label: "Hires", Min: MinHires, Max: MaxHires, Step: 1, Big: 2},
		{Label: "Extra Spend", Min: MinExtraSpend, Max: MaxExtraSpend, Step: SpendStep, Big: 10 * SpendStep},
		{Label: "Price Increase %", Min: MinPriceDelta, Max: MaxPriceDelta, Step: 1, Big: 5},
	}
}

// New returns parameters initialised from v, with every field clamped.
// The result is not dirty.
func New(v Values) Parameters {
	var p Parameters
	p.SetHires(v.Hires)
	p.SetExtraSpend(v.ExtraSpend)
	p.SetPriceDeltaPercent(v.PriceDeltaPercent)
	p.dirty = false
	return p
}

// Hires returns the number of planned hires.
func (p *Parameters) Hires() int { return p.hires }

// ExtraSpend returns the additional monthly spend.
func (p *Parameters) ExtraSpend() float64 { return p.extraSpend }

// PriceDeltaPercent returns the planned price increase in percent.
func (p *Parameters) PriceDeltaPercent() int { return p.priceDelta }

// Dirty reports whether the parameters changed since the last MarkClean.
func (p *Parameters) Dirty() bool { return p.dirty }

// MarkClean clears the dirty flag.
func (p *Parameters) MarkClean() { p.dirty = false }

// Values returns a snapshot of the current parameters.
func (p *Parameters) Values() Values {
	return Values{
		Hires:             p.hires,
		ExtraSpend:        p.extraSpend,
		PriceDeltaPercent: p.priceDelta,
	}
}

// SetHires clamps n to [MinHires, MaxHires].
func (p *Parameters) SetHires(n int) {
	p.hires = clampInt(n, MinHires, MaxHires)
	p.dirty = true
}

// SetExtraSpend clamps n to [MinExtraSpend, MaxExtraSpend] and snaps it to
// the nearest multiple of SpendStep. NaN is treated as zero.
func (p *Parameters) SetExtraSpend(n float64) {
	if math.IsNaN(n) {
		n = 0
	}
	snapped := math.Round(n/SpendStep) * SpendStep
	p.extraSpend = math.Max(MinExtraSpend, math.Min(MaxExtraSpend, snapped))
	p.dirty = true
}

// SetPriceDeltaPercent clamps n to [MinPriceDelta, MaxPriceDelta].
func (p *Parameters) SetPriceDeltaPercent(n int) {
	p.priceDelta = clampInt(n, MinPriceDelta, MaxPriceDelta)
	p.dirty = true
}

// Field identifies one of the three sliders.
type Field int

// Slider fields in display order.
const (
	FieldHires Field = iota
	FieldExtraSpend
	FieldPriceDelta
	FieldCount // sentinel
)

// Nudge moves field by steps increments (negative moves down). When big is
// true the large step is used. All movement goes through the clamping setters.
func (p *Parameters) Nudge(field Field, steps int, big bool) {
	r := Bounds()[field]
	step := r.Step
	if big {
		step = r.Big
	}
	delta := float64(steps) * step

	switch field {
	case FieldHires:
		p.SetHires(p.hires + int(delta))
	case FieldExtraSpend:
		p.SetExtraSpend(p.extraSpend + delta)
	case FieldPriceDelta:
		p.SetPriceDeltaPercent(p.priceDelta + int(delta))
	}
}

// Fraction returns the field's position within its range as 0.0-1.0,
// for slider rendering.
func (p *Parameters) Fraction(field Field) float64 {
	r := Bounds()[field]
	var v float64
	switch field {
	case FieldHires:
		v = float64(p.hires)
	case FieldExtraSpend:
		v = p.extraSpend
	case FieldPriceDelta:
		v = float64(p.priceDelta)
	}
	if r.Max <= r.Min {
		return 0
	}
	return (v - r.Min) / (r.Max - r.Min)
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
