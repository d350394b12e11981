package index

import (
	"fmt"
	"slices"
	"strings"

	"fxi-data/internal/model"
)

// Kind is the formula family of an index.
type Kind int

const (
	// NormalizedGeometricMean is the scaled geometric mean of the basket.
	NormalizedGeometricMean Kind = iota + 1
	// AnchoredGeometricMean rescales the mean by one basket member's price.
	AnchoredGeometricMean
)

func (k Kind) String() string {
	switch k {
	case NormalizedGeometricMean:
		return "normalized"
	case AnchoredGeometricMean:
		return "anchored"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// AnchorOp selects how the anchor price rescales the mean.
type AnchorOp int

const (
	Multiply AnchorOp = iota + 1
	Divide
)

// Term is one division of the basket product. An empty side stands for
// one unit of the other side's currency.
type Term struct {
	Num string
	Den string
}

// Formula parameterizes Compute.
type Formula struct {
	Kind      Kind
	Root      float64 // the product is raised to 1/Root
	Prefactor float64 // applied to the root before anchoring
	Anchor    string
	AnchorOp  AnchorOp
	Digits    int // output precision
}

// Definition describes one synthetic index.
type Definition struct {
	Symbol  string
	Members []model.Instrument
	Terms   []Term
	Formula Formula
}

// Member returns the basket member with the given symbol.
func (def Definition) Member(symbol string) (model.Instrument, bool) {
	for _, m := range def.Members {
		if m.Symbol == symbol {
			return m, true
		}
	}
	return model.Instrument{}, false
}

func members(symbols ...string) []model.Instrument {
	out := make([]model.Instrument, len(symbols))
	for i, s := range symbols {
		out[i] = Instrument(s)
	}
	return out
}

func normalized(symbol string, root float64, prefactor float64, m []model.Instrument, terms ...Term) Definition {
	return Definition{
		Symbol:  symbol,
		Members: m,
		Terms:   terms,
		Formula: Formula{Kind: NormalizedGeometricMean, Root: root, Prefactor: prefactor, Digits: 5},
	}
}

// The LFX family shares the USD basket product.
var (
	lfxMembers = []string{"AUDUSD", "EURUSD", "GBPUSD", "USDCAD", "USDCHF", "USDJPY"}
	lfxTerms   = []Term{{"USDCAD", "AUDUSD"}, {"USDCHF", "EURUSD"}, {"USDJPY", "GBPUSD"}}
)

func lfx(symbol, anchor string, op AnchorOp, prefactor float64, extra ...string) Definition {
	m := members(append(slices.Clone(lfxMembers), extra...)...)
	def := Definition{
		Symbol:  symbol,
		Members: m,
		Terms:   lfxTerms,
		Formula: Formula{Kind: AnchoredGeometricMean, Root: 7, Prefactor: prefactor, Anchor: anchor, AnchorOp: op, Digits: 5},
	}
	if a, ok := def.Member(anchor); ok && op == Multiply {
		def.Formula.Digits = a.Digits
	}
	return def
}

var definitions = []Definition{
	normalized("AUDFX6", 6, 1, members("AUDCAD", "AUDCHF", "AUDJPY", "AUDUSD", "EURAUD", "GBPAUD"),
		Term{"AUDCAD", "EURAUD"}, Term{"AUDCHF", "GBPAUD"}, Term{"AUDJPY", ""}, Term{"AUDUSD", ""}),
	normalized("CADFX6", 6, 1, members("AUDCAD", "CADCHF", "CADJPY", "EURCAD", "GBPCAD", "USDCAD"),
		Term{"CADCHF", "AUDCAD"}, Term{"CADJPY", "EURCAD"}, Term{"", "GBPCAD"}, Term{"", "USDCAD"}),
	normalized("CHFFX6", 6, 1, members("AUDCHF", "CADCHF", "CHFJPY", "EURCHF", "GBPCHF", "USDCHF"),
		Term{"CHFJPY", "AUDCHF"}, Term{"", "CADCHF"}, Term{"", "EURCHF"}, Term{"", "GBPCHF"}, Term{"", "USDCHF"}),
	normalized("EURFX6", 6, 1, members("EURAUD", "EURCAD", "EURCHF", "EURGBP", "EURJPY", "EURUSD"),
		Term{"EURAUD", ""}, Term{"EURCAD", ""}, Term{"EURCHF", ""}, Term{"EURGBP", ""}, Term{"EURJPY", ""}, Term{"EURUSD", ""}),
	normalized("GBPFX6", 6, 1, members("EURGBP", "GBPAUD", "GBPCAD", "GBPCHF", "GBPJPY", "GBPUSD"),
		Term{"GBPAUD", "EURGBP"}, Term{"GBPCAD", ""}, Term{"GBPCHF", ""}, Term{"GBPJPY", ""}, Term{"GBPUSD", ""}),
	// JPY is the quote currency of every member; the prefactor lifts the
	// index out of the 0.01 range.
	normalized("JPYFX6", 6, 100, members("AUDJPY", "CADJPY", "CHFJPY", "EURJPY", "GBPJPY", "USDJPY"),
		Term{"", "AUDJPY"}, Term{"", "CADJPY"}, Term{"", "CHFJPY"}, Term{"", "EURJPY"}, Term{"", "GBPJPY"}, Term{"", "USDJPY"}),
	normalized("USDFX6", 6, 1, members(lfxMembers...), lfxTerms...),

	lfx("AUDLFX", "AUDUSD", Multiply, 1),
	lfx("CADLFX", "USDCAD", Divide, 1),
	lfx("CHFLFX", "USDCHF", Divide, 1),
	lfx("EURLFX", "EURUSD", Multiply, 1),
	lfx("GBPLFX", "GBPUSD", Multiply, 1),
	lfx("JPYLFX", "USDJPY", Divide, 100),
	// NZDUSD only rescales; it is not part of the root. Kept as published
	// upstream although the normalization is believed to be wrong.
	lfx("NZDLFX", "NZDUSD", Multiply, 1, "NZDUSD"),
	normalized("USDLFX", 7, 1, members(lfxMembers...), lfxTerms...),
}

var bySymbol = func() map[string]Definition {
	m := make(map[string]Definition, len(definitions))
	for _, def := range definitions {
		m[def.Symbol] = def
	}
	return m
}()

// Lookup returns the definition of an index symbol (case-insensitive).
func Lookup(symbol string) (Definition, error) {
	def, ok := bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Definition{}, fmt.Errorf("%w: unsupported symbol %q", model.ErrInvalidArgument, symbol)
	}
	return def, nil
}

// All returns every definition in table order.
func All() []Definition {
	return slices.Clone(definitions)
}

// Symbols returns every index symbol in table order.
func Symbols() []string {
	out := make([]string, len(definitions))
	for i, def := range definitions {
		out[i] = def.Symbol
	}
	return out
}
