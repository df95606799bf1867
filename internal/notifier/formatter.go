package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"MetalWatch/internal/model"
)

// title capitalizes a metal name. The names are single lowercase ASCII words,
// so uppercasing the first byte is enough.
func title(m model.Metal) string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func currencySign(c model.Currency) string {
	if c == model.CurrencyINR {
		return "₹"
	}
	return "$"
}

func money(c model.Currency, v float64) string {
	return currencySign(c) + humanize.CommafWithDigits(v, 2)
}

// AlertSubject builds the email subject line for a triggered alert.
func AlertSubject(metal model.Metal, direction model.AlertDirection) string {
	verb := "dropped"
	if direction == model.AlertRise {
		verb = "rose"
	}
	return fmt.Sprintf("%s price %s beyond your threshold", title(metal), verb)
}

// FormatAlertEmail renders the HTML body for a triggered price alert.
func FormatAlertEmail(series *model.PriceSeries, result *model.AnalysisResult, threshold float64) string {
	metal := title(series.Metal)
	changeColor := "red"
	if result.PercentChange > 0 {
		changeColor = "green"
	}

	var b strings.Builder
	b.WriteString(`<html><body style="font-family: Arial, sans-serif;">`)
	b.WriteString(fmt.Sprintf(`<h2 style="color: #FFD700;">%s Price Alert</h2>`, metal))
	b.WriteString("<p>A significant price change has been detected:</p>")
	b.WriteString(`<table style="border-collapse: collapse; width: 100%;">`)

	row := func(label, value string) {
		b.WriteString(`<tr><td style="padding: 8px; border: 1px solid #ddd;"><strong>`)
		b.WriteString(label)
		b.WriteString(`</strong></td><td style="padding: 8px; border: 1px solid #ddd;">`)
		b.WriteString(value)
		b.WriteString("</td></tr>")
	}
	row("Metal:", metal)
	row("Current Price:", money(series.Currency, result.Current))
	row("Change:", fmt.Sprintf(`<span style="color: %s;">%+.2f%%</span>`, changeColor, result.PercentChange))
	row("Trend:", string(result.Trend))
	row("Threshold:", fmt.Sprintf("%.1f%%", threshold))

	b.WriteString("</table>")
	b.WriteString(`<p style="margin-top: 20px; color: #666;">`)
	b.WriteString("This is an automated alert from MetalWatch.</p>")
	b.WriteString("</body></html>")
	return b.String()
}

// FormatAnalysisReport renders a plain-text summary of one analysis run,
// used in logs and manual run output.
func FormatAnalysisReport(series *model.PriceSeries, result *model.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s analysis | %s\n", title(series.Metal), time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("current: %s (%+.2f%%)\n", money(series.Currency, result.Current), result.PercentChange))
	b.WriteString(fmt.Sprintf("low: %s | high: %s | avg: %s\n",
		money(series.Currency, result.Min), money(series.Currency, result.Max), money(series.Currency, result.Mean)))
	b.WriteString(fmt.Sprintf("volatility: %.2f | range position: %.0f%%\n", result.Volatility, result.PricePosition*100))
	b.WriteString(fmt.Sprintf("trend: %s\n", result.Trend))
	if series.Mock {
		b.WriteString("(mock data in use)\n")
	}
	return b.String()
}
