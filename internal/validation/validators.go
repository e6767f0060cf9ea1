// Package validation checks and normalizes the fields of a trade intent
// before anything is signed or sent.
package validation

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	OrderTypeMarket = "MARKET"
	OrderTypeLimit  = "LIMIT"

	DefaultTimeInForce = "GTC"
)

var timeInForces = map[string]struct{}{
	"GTC": {},
	"IOC": {},
	"FOK": {},
	"GTX": {},
}

// Symbol accepts ASCII letters and digits only and returns the uppercase form.
func Symbol(symbol string) (string, error) {
	if symbol == "" {
		return "", newError(ErrInvalidSymbol, "symbol", symbol, "must not be empty")
	}
	for _, r := range symbol {
		if !isAlnum(r) {
			return "", newError(ErrInvalidSymbol, "symbol", symbol, "must be alphanumeric")
		}
	}
	return strings.ToUpper(symbol), nil
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func Side(side string) (string, error) {
	s := strings.ToUpper(side)
	if s != SideBuy && s != SideSell {
		return "", newError(ErrInvalidSide, "side", side, "must be 'BUY' or 'SELL'")
	}
	return s, nil
}

func OrderType(orderType string) (string, error) {
	t := strings.ToUpper(orderType)
	if t != OrderTypeMarket && t != OrderTypeLimit {
		return "", newError(ErrInvalidOrderType, "order_type", orderType, "must be 'MARKET' or 'LIMIT'")
	}
	return t, nil
}

// Quantity requires a finite value strictly above zero.
func Quantity(qty float64) (decimal.Decimal, error) {
	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		return decimal.Zero, newError(ErrInvalidQuantity, "quantity", qty, "must be a finite number")
	}
	if qty <= 0 {
		return decimal.Zero, newError(ErrInvalidQuantity, "quantity", qty, "must be positive")
	}
	return decimal.NewFromFloat(qty), nil
}

// Price checks price against an already normalized order type. LIMIT orders
// need a finite positive price; any other type passes price through, nil
// included.
func Price(price *float64, orderType string) (*decimal.Decimal, error) {
	if orderType != OrderTypeLimit {
		if price == nil || math.IsNaN(*price) || math.IsInf(*price, 0) {
			return nil, nil
		}
		d := decimal.NewFromFloat(*price)
		return &d, nil
	}
	if price == nil {
		return nil, newError(ErrInvalidPrice, "price", nil, "is required for LIMIT orders")
	}
	p := *price
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return nil, newError(ErrInvalidPrice, "price", p, "must be positive for LIMIT orders")
	}
	d := decimal.NewFromFloat(p)
	return &d, nil
}

// TimeInForce uppercases tif; empty selects GTC.
func TimeInForce(tif string) (string, error) {
	if tif == "" {
		return DefaultTimeInForce, nil
	}
	t := strings.ToUpper(tif)
	if _, ok := timeInForces[t]; !ok {
		return "", newError(ErrInvalidTimeInForce, "time_in_force", tif, "must be one of GTC, IOC, FOK, GTX")
	}
	return t, nil
}
