package binance

const (
	// TestnetBaseURL is the USDⓈ-M futures testnet.
	TestnetBaseURL = "https://testnet.binancefuture.com"

	EndpointOrder   = "/fapi/v1/order"
	EndpointAccount = "/fapi/v2/account"

	// HeaderAPIKey carries the API key. The key never goes in the query.
	HeaderAPIKey = "X-MBX-APIKEY"

	// DefaultRecvWindow is the server-side staleness tolerance in milliseconds.
	DefaultRecvWindow int64 = 5000
)

// Parameter names used on the order endpoint.
const (
	ParamSymbol      = "symbol"
	ParamSide        = "side"
	ParamType        = "type"
	ParamQuantity    = "quantity"
	ParamPrice       = "price"
	ParamTimeInForce = "timeInForce"
	ParamTimestamp   = "timestamp"
	ParamRecvWindow  = "recvWindow"
	ParamSignature   = "signature"
)

const (
	OrderTypeLimit  = "LIMIT"
	OrderTypeMarket = "MARKET"
)

// Rate limiter keys, see pkg/ratelimit.
const (
	LimitKeyOrder   = "fapi:order:post"
	LimitKeyAccount = "fapi:account:get"
)
