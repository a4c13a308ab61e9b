package model

import (
	"fmt"
	"strings"
)

const (
	DefaultExchange = "SMART"
	DefaultCurrency = "USD"
)

// Instrument identifies a tradable contract on the upstream.
type Instrument struct {
	Symbol   string
	Exchange string
	Currency string
}

// NewInstrument normalizes caller input: trims, upper-cases and fills defaults.
// Symbol is required.
func NewInstrument(symbol, exchange, currency string) (Instrument, error) {
	inst := Instrument{
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Exchange: strings.ToUpper(strings.TrimSpace(exchange)),
		Currency: strings.ToUpper(strings.TrimSpace(currency)),
	}
	if inst.Symbol == "" {
		return Instrument{}, fmt.Errorf("symbol is required")
	}
	if inst.Exchange == "" {
		inst.Exchange = DefaultExchange
	}
	if inst.Currency == "" {
		inst.Currency = DefaultCurrency
	}
	return inst, nil
}

func (i Instrument) String() string {
	return i.Symbol + "@" + i.Exchange + "/" + i.Currency
}
