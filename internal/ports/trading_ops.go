package ports

import (
	"context"

	"github.com/betbot/futuresbot/pkg/sdk/binance"
)

// Small capability interfaces between the orchestrator and the exchange
// client. *binance.Client satisfies all of them.

type OrderPoster interface {
	PostOrder(ctx context.Context, params *binance.Params) (binance.Response, error)
}

type AccountReader interface {
	GetAccountInfo(ctx context.Context) (binance.Response, error)
}

type TradingOps interface {
	OrderPoster
	AccountReader
}
