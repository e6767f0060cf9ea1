// Package trading places one order per call: validate, map to exchange
// parameters, send, report.
package trading

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/betbot/futuresbot/internal/ports"
	"github.com/betbot/futuresbot/internal/validation"
	"github.com/betbot/futuresbot/pkg/sdk/binance"
)

// Intent is raw, untrusted caller input.
type Intent struct {
	Symbol      string
	Side        string
	OrderType   string
	Quantity    float64
	Price       *float64
	TimeInForce string
}

type Orchestrator struct {
	ops ports.TradingOps
	log logrus.FieldLogger
}

// NewOrchestrator wires the exchange client. A nil logger discards output.
func NewOrchestrator(ops ports.TradingOps, log logrus.FieldLogger) *Orchestrator {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Orchestrator{ops: ops, log: log.WithField("component", "orders")}
}

// BuildParams validates intent field by field (symbol, side, order type,
// quantity, price, then time in force for LIMIT) and returns the order
// parameters. The first failing field wins.
func BuildParams(intent Intent) (*binance.Params, error) {
	symbol, err := validation.Symbol(intent.Symbol)
	if err != nil {
		return nil, err
	}
	side, err := validation.Side(intent.Side)
	if err != nil {
		return nil, err
	}
	orderType, err := validation.OrderType(intent.OrderType)
	if err != nil {
		return nil, err
	}
	qty, err := validation.Quantity(intent.Quantity)
	if err != nil {
		return nil, err
	}
	price, err := validation.Price(intent.Price, orderType)
	if err != nil {
		return nil, err
	}

	params := binance.NewParams().
		Add(binance.ParamSymbol, symbol).
		Add(binance.ParamSide, side).
		Add(binance.ParamType, orderType).
		Add(binance.ParamQuantity, qty.String())

	if orderType == validation.OrderTypeLimit {
		tif, err := validation.TimeInForce(intent.TimeInForce)
		if err != nil {
			return nil, err
		}
		params.Add(binance.ParamPrice, price.String())
		params.Add(binance.ParamTimeInForce, tif)
	}
	return params, nil
}

// PlaceTrade validates intent and submits it. Nothing is sent when
// validation fails. The exchange response comes back untouched and errors
// keep their original type. Two calls place two orders.
func (o *Orchestrator) PlaceTrade(ctx context.Context, intent Intent) (binance.Response, error) {
	params, err := BuildParams(intent)
	if err != nil {
		o.log.WithError(err).Error("validation error")
		return nil, err
	}

	sym, _ := params.Get(binance.ParamSymbol)
	side, _ := params.Get(binance.ParamSide)
	typ, _ := params.Get(binance.ParamType)
	qty, _ := params.Get(binance.ParamQuantity)
	o.log.Infof("placing %s %s order for %s %s", typ, side, qty, sym)

	resp, err := o.ops.PostOrder(ctx, params)
	if err != nil {
		o.log.WithError(err).Error("order placement failed")
		return nil, err
	}

	o.log.Infof("order placed successfully: id %s", resp.String("orderId"))
	return resp, nil
}

// AccountInfo fetches the futures account snapshot.
func (o *Orchestrator) AccountInfo(ctx context.Context) (binance.Response, error) {
	resp, err := o.ops.GetAccountInfo(ctx)
	if err != nil {
		o.log.WithError(err).Error("account info failed")
		return nil, err
	}
	return resp, nil
}
