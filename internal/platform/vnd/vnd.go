// Package vnd formats Vietnamese đồng amounts for display.
//
// Catalog prices are integral đồng values carried as float64 in the API
// payloads. Formatting follows the vi-VN locale conventions (dot grouping,
// trailing currency sign), matching how the storefront renders prices.
package vnd

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Vietnamese)

// Format renders an amount as a vi-VN currency string, e.g. "250.000 ₫".
func Format(amount float64) string {
	return printer.Sprintf("%v ₫", number.Decimal(amount, number.MaxFractionDigits(0)))
}
