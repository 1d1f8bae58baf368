package types

import "time"

// Mention is a single (ticker, forum post) observation. One Mention is
// created per validated ticker found in a post; the natural key is
// (Ticker, PostID).
type Mention struct {
	Ticker    string
	PostID    string
	PostTitle string
	PostDate  time.Time
	PostScore int
	PostURL   string
	Author    string
}

// PricePoint is one daily close observation on a trading calendar.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries is an ordered (ascending by date) sequence of daily closes.
type PriceSeries []PricePoint

// Quote carries the descriptive metadata used to decide whether a candidate
// symbol refers to a real listed instrument.
type Quote struct {
	Symbol             string
	LongName           string
	RegularMarketPrice *float64
}

// HasIdentity reports whether at least one recognizing field is present.
func (q *Quote) HasIdentity() bool {
	if q == nil {
		return false
	}
	return q.Symbol != "" || q.LongName != "" || q.RegularMarketPrice != nil
}

// Horizon is a fixed forward calendar-day offset at which a post-relative
// return is measured.
type Horizon struct {
	Days  int
	Label string
}

// DefaultHorizons returns the standard horizon table, in ascending order.
func DefaultHorizons() []Horizon {
	return []Horizon{
		{Days: 1, Label: "1d"},
		{Days: 3, Label: "3d"},
		{Days: 7, Label: "1w"},
		{Days: 14, Label: "2w"},
		{Days: 30, Label: "1m"},
	}
}

// Performance holds forward returns for one (ticker, post day) pair.
// Horizon prices and returns are nil when no trading observation was found
// within tolerance of the target date; nil is never conflated with zero.
type Performance struct {
	Ticker      string
	PostDate    time.Time
	PriceAtPost float64

	Price1D *float64
	Price3D *float64
	Price1W *float64
	Price2W *float64
	Price1M *float64

	Return1D *float64
	Return3D *float64
	Return1W *float64
	Return2W *float64
	Return1M *float64
}

// SetHorizon records the matched price and percentage return for a horizon
// label. Unknown labels are ignored.
func (p *Performance) SetHorizon(label string, price, ret float64) {
	pp, rp := p.horizonSlots(label)
	if pp == nil {
		return
	}
	*pp = &price
	*rp = &ret
}

// HorizonReturn returns the stored return for a horizon label, or nil when
// that horizon was not resolved.
func (p *Performance) HorizonReturn(label string) *float64 {
	_, rp := p.horizonSlots(label)
	if rp == nil {
		return nil
	}
	return *rp
}

// HorizonPrice returns the stored price for a horizon label, or nil.
func (p *Performance) HorizonPrice(label string) *float64 {
	pp, _ := p.horizonSlots(label)
	if pp == nil {
		return nil
	}
	return *pp
}

// HasAnyReturn reports whether at least one horizon resolved.
func (p *Performance) HasAnyReturn() bool {
	return p.Return1D != nil || p.Return3D != nil || p.Return1W != nil ||
		p.Return2W != nil || p.Return1M != nil
}

func (p *Performance) horizonSlots(label string) (**float64, **float64) {
	switch label {
	case "1d":
		return &p.Price1D, &p.Return1D
	case "3d":
		return &p.Price3D, &p.Return3D
	case "1w":
		return &p.Price1W, &p.Return1W
	case "2w":
		return &p.Price2W, &p.Return2W
	case "1m":
		return &p.Price1M, &p.Return1M
	}
	return nil, nil
}

// FetchOptions controls a mention-source fetch.
type FetchOptions struct {
	Limit      int
	Sort       string // hot, new, top, rising
	TimeFilter string // day, week, month, year, all; only used with top
	TitleOnly  bool
}
