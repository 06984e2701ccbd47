package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

type Translator struct {
	bundle *goi18n.Bundle
}

// New loads the embedded en and es message files. English is the fallback.
func New() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, file := range []string{"locales/active.en.json", "locales/active.es.json"} {
		if _, err := bundle.LoadMessageFileFS(locales, file); err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	return &Translator{bundle: bundle}, nil
}

// Message localizes id for the given Accept-Language value. Falls back to
// fallback when the id is unknown.
func (t *Translator) Message(acceptLanguage, id, fallback string) string {
	if t == nil {
		return fallback
	}
	loc := goi18n.NewLocalizer(t.bundle, acceptLanguage)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:      id,
		DefaultMessage: &goi18n.Message{ID: id, Other: fallback},
	})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}
