package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{"\\", ".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

// FormatPrice renders a USD price with two decimals, e.g. $1,234.50.
func FormatPrice(price float64) string {
	return "$" + printer.Sprintf("%.2f", price)
}

// FormatChange renders a signed percentage, e.g. +12.50% or -2.30%.
func FormatChange(change float64) string {
	sign := ""
	if change >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, change)
}

// FormatRatio renders a multiple of the average volume, e.g. 4.20x.
func FormatRatio(ratio float64) string {
	return fmt.Sprintf("%.2fx", ratio)
}

// FormatOptional renders a nullable value with the given precision, or N/A.
func FormatOptional(v *float64, decimals int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

func FormatMentions(count int) string {
	return humanize.Comma(int64(count))
}

func FormatVolume(volume float64) string {
	return printer.Sprintf("%d", int64(volume+0.5))
}

// FormatDetected renders an ISO-8601 timestamp relative to now ("5 minutes
// ago"). Unparseable input is returned unchanged.
func FormatDetected(timestamp string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
