// Package index defines the synthetic FX index baskets and computes their
// M1 bars from the member instruments' bars.
package index

import (
	"fmt"
	"math"
	"time"

	"fxi-data/internal/model"
)

// DayBarSet maps a member symbol to its bars for one day.
type DayBarSet map[string][]model.Bar

// Compute derives the index bars for one day. Open and close are computed
// independently per minute; high, low and ticks are derived from them.
func Compute(def Definition, day time.Time, set DayBarSet) ([]model.Bar, error) {
	p, err := prepare(def, set)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", def.Symbol, day.Format(model.DayLayout), err)
	}

	ref := set[def.Members[0].Symbol]
	out := make([]model.Bar, len(ref))
	for i, bar := range ref {
		open, err := p.value(i, func(b model.Bar) uint32 { return b.Open })
		if err != nil {
			return nil, fmt.Errorf("%s %s open: %w", def.Symbol, bar.Unix().Format("02-Jan-2006 15:04"), err)
		}
		cls, err := p.value(i, func(b model.Bar) uint32 { return b.Close })
		if err != nil {
			return nil, fmt.Errorf("%s %s close: %w", def.Symbol, bar.Unix().Format("02-Jan-2006 15:04"), err)
		}
		out[i] = model.Bar{
			Time:  bar.Time,
			Open:  open,
			High:  max(open, cls),
			Low:   min(open, cls),
			Close: cls,
			Ticks: absDiff(open, cls) << 1,
		}
	}
	return out, nil
}

type side struct {
	bars   []model.Bar
	digits int
}

type term struct {
	num, den *side
}

// plan is a Definition bound to one day's bars.
type plan struct {
	terms  []term
	adjust float64
	root   float64
	pre    float64
	anchor *side
	op     AnchorOp
	scale  float64
}

func prepare(def Definition, set DayBarSet) (*plan, error) {
	if len(def.Members) == 0 || len(def.Terms) == 0 {
		return nil, fmt.Errorf("%w: empty basket", model.ErrInvalidArgument)
	}
	f := def.Formula
	if f.Root <= 0 {
		return nil, fmt.Errorf("%w: root must be positive, got %v", model.ErrInvalidArgument, f.Root)
	}
	if err := aligned(def, set); err != nil {
		return nil, err
	}

	lookup := func(symbol string) (*side, error) {
		if symbol == "" {
			return nil, nil
		}
		m, ok := def.Member(symbol)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a member", model.ErrInvalidArgument, symbol)
		}
		return &side{bars: set[symbol], digits: m.Digits}, nil
	}

	p := &plan{root: f.Root, pre: f.Prefactor, op: f.AnchorOp}
	if p.pre == 0 {
		p.pre = 1
	}
	exp := 0
	for _, t := range def.Terms {
		num, err := lookup(t.Num)
		if err != nil {
			return nil, err
		}
		den, err := lookup(t.Den)
		if err != nil {
			return nil, err
		}
		if num == nil && den == nil {
			return nil, fmt.Errorf("%w: empty term", model.ErrInvalidArgument)
		}
		if num != nil && den != nil {
			exp += den.digits - num.digits
		}
		p.terms = append(p.terms, term{num: num, den: den})
	}
	p.adjust = math.Pow10(exp)

	if f.Kind == AnchoredGeometricMean && f.Anchor != "" {
		a, err := lookup(f.Anchor)
		if err != nil {
			return nil, err
		}
		if f.AnchorOp != Multiply && f.AnchorOp != Divide {
			return nil, fmt.Errorf("%w: unknown anchor operation %d", model.ErrInvalidArgument, f.AnchorOp)
		}
		p.anchor = a
	}
	p.scale = math.Pow10(f.Digits)
	if p.anchor != nil && p.op == Multiply {
		p.scale = 1
	}
	return p, nil
}

// aligned checks that every member provides the same minutes.
func aligned(def Definition, set DayBarSet) error {
	ref, ok := set[def.Members[0].Symbol]
	if !ok {
		return fmt.Errorf("%w: no bars for %s", model.ErrValidation, def.Members[0].Symbol)
	}
	for _, m := range def.Members[1:] {
		bars, ok := set[m.Symbol]
		if !ok {
			return fmt.Errorf("%w: no bars for %s", model.ErrValidation, m.Symbol)
		}
		if len(bars) != len(ref) {
			return fmt.Errorf("%w: %s has %d bars, %s has %d", model.ErrValidation, m.Symbol, len(bars), def.Members[0].Symbol, len(ref))
		}
		for i := range bars {
			if bars[i].Time != ref[i].Time {
				return fmt.Errorf("%w: %s bar %d at %s, %s at %s", model.ErrValidation,
					m.Symbol, i, bars[i].Unix().Format("15:04"), def.Members[0].Symbol, ref[i].Unix().Format("15:04"))
			}
		}
	}
	return nil
}

// value evaluates the formula for bar i. Every term is divided before the
// terms are multiplied together, so intermediates stay close to 1.
func (p *plan) value(i int, price func(model.Bar) uint32) (uint32, error) {
	product := 1.0
	for _, t := range p.terms {
		var v float64
		switch {
		case t.den == nil:
			v = float64(price(t.num.bars[i])) / math.Pow10(t.num.digits)
		case t.num == nil:
			v = math.Pow10(t.den.digits) / float64(price(t.den.bars[i]))
		default:
			v = float64(price(t.num.bars[i])) / float64(price(t.den.bars[i]))
		}
		product *= v
	}
	product *= p.adjust

	v := p.pre * math.Pow(product, 1/p.root)
	if p.anchor != nil {
		a := float64(price(p.anchor.bars[i]))
		switch p.op {
		case Multiply:
			v *= a
		case Divide:
			v = v / a * math.Pow10(p.anchor.digits)
		}
	}
	v = math.Round(v * p.scale)

	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: result %v out of range", model.ErrValidation, v)
	}
	return uint32(v), nil
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
