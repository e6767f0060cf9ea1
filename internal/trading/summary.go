package trading

import "github.com/betbot/futuresbot/pkg/sdk/binance"

// Summary is the subset of an order response shown to a user.
type Summary struct {
	Symbol      string `json:"symbol"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	Type        string `json:"type"`
	Side        string `json:"side"`
	ExecutedQty string `json:"executedQty"`
	AvgPrice    string `json:"avgPrice"`
}

func Summarize(resp binance.Response) Summary {
	return Summary{
		Symbol:      resp.String("symbol"),
		OrderID:     resp.String("orderId"),
		Status:      resp.String("status"),
		Type:        resp.String("type"),
		Side:        resp.String("side"),
		ExecutedQty: resp.String("executedQty"),
		AvgPrice:    resp.String("avgPrice"),
	}
}

// AccountSummary holds the headline figures of /fapi/v2/account.
type AccountSummary struct {
	TotalWalletBalance    string `json:"totalWalletBalance"`
	TotalUnrealizedProfit string `json:"totalUnrealizedProfit"`
	TotalMarginBalance    string `json:"totalMarginBalance"`
	AvailableBalance      string `json:"availableBalance"`
	MaxWithdrawAmount     string `json:"maxWithdrawAmount"`
}

func SummarizeAccount(resp binance.Response) AccountSummary {
	return AccountSummary{
		TotalWalletBalance:    resp.String("totalWalletBalance"),
		TotalUnrealizedProfit: resp.String("totalUnrealizedProfit"),
		TotalMarginBalance:    resp.String("totalMarginBalance"),
		AvailableBalance:      resp.String("availableBalance"),
		MaxWithdrawAmount:     resp.String("maxWithdrawAmount"),
	}
}
