package model

// Currency owns its outgoing rate edges. Rates[target] = r means one unit of
// this currency equals r units of target. Rates[Symbol] is always 1 and for
// every entry the reverse edge holds the exact reciprocal.
type Currency struct {
	Symbol string
	Name   string
	Rates  map[string]float64
}

type Conversion struct {
	Base            string
	Target          string
	Amount          float64
	ConvertedAmount float64
}
