package translation

import (
	"github.com/leonelquinteros/gotext"
)

// Configure loads the "default" catalogue for lang from dir.
func Configure(dir, lang string) {
	gotext.Configure(dir, lang, "default")
}

func GetLanguage() string {
	lang := gotext.GetLanguage()

	if lang == "und" || lang == "" {
		return "en"
	}

	return lang
}

// Translate returns the translation of msgID, or msgID itself when the
// catalogue has none.
func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
