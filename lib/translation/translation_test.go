package translation_test

import (
	"testing"

	"meme-stock-dashboard/lib/translation"

	"github.com/stretchr/testify/assert"
)

func TestTranslate_FallsBackToMessageID(t *testing.T) {
	translation.Configure(t.TempDir(), "en")

	assert.Equal(t, "no_active_alerts", translation.Translate("no_active_alerts"))
	assert.Equal(t, "GME 3", translation.Translate("%s %d", "GME", 3))
	assert.Equal(t, "en", translation.GetLanguage())
}
