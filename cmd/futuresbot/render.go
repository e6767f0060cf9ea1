package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/betbot/futuresbot/internal/trading"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("2")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")) // red
)

func renderSummary(w io.Writer, s trading.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("--- Order Summary ---"))
	fmt.Fprintf(w, "Symbol: %s\n", s.Symbol)
	fmt.Fprintf(w, "Order ID: %s\n", s.OrderID)
	fmt.Fprintf(w, "Status: %s\n", s.Status)
	fmt.Fprintf(w, "Type: %s\n", s.Type)
	fmt.Fprintf(w, "Side: %s\n", s.Side)
	fmt.Fprintf(w, "Executed Qty: %s\n", s.ExecutedQty)
	fmt.Fprintf(w, "Avg Price: %s\n", s.AvgPrice)
}

func renderAccount(w io.Writer, s trading.AccountSummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("--- Account ---"))
	fmt.Fprintf(w, "Wallet Balance: %s\n", s.TotalWalletBalance)
	fmt.Fprintf(w, "Unrealized PnL: %s\n", s.TotalUnrealizedProfit)
	fmt.Fprintf(w, "Margin Balance: %s\n", s.TotalMarginBalance)
	fmt.Fprintf(w, "Available Balance: %s\n", s.AvailableBalance)
	fmt.Fprintf(w, "Max Withdraw: %s\n", s.MaxWithdrawAmount)
}

func renderFailure(w io.Writer, err error) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, errorStyle.Render("Failed to place order: "+err.Error()))
}

func renderError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}
