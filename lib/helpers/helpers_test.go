package helpers_test

import (
	"testing"
	"time"

	"meme-stock-dashboard/lib/helpers"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `$GME \(\+12\.50%\)`, helpers.EscapeMarkdownV2(`$GME (+12.50%)`))
	assert.Equal(t, `a\\b`, helpers.EscapeMarkdownV2(`a\b`))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$23.45", helpers.FormatPrice(23.45))
	assert.Equal(t, "$1,234.50", helpers.FormatPrice(1234.5))
	assert.Equal(t, "+12.50%", helpers.FormatChange(12.5))
	assert.Equal(t, "+0.00%", helpers.FormatChange(0))
	assert.Equal(t, "-2.30%", helpers.FormatChange(-2.3))
	assert.Equal(t, "4.20x", helpers.FormatRatio(4.2))
	assert.Equal(t, "1,234", helpers.FormatMentions(1234))
	assert.Equal(t, "1,000,000", helpers.FormatVolume(999999.7))
}

func TestFormatOptional(t *testing.T) {
	rsi := 71.26
	assert.Equal(t, "N/A", helpers.FormatOptional(nil, 1))
	assert.Equal(t, "71.3", helpers.FormatOptional(&rsi, 1))
	assert.Equal(t, "71.26", helpers.FormatOptional(&rsi, 2))
}

func TestFormatDetected(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "5 minutes ago", helpers.FormatDetected("2025-06-01T11:55:00Z", now))
	assert.Equal(t, "bad", helpers.FormatDetected("bad", now))
}
