package i18n

import (
	"embed"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"eventledger/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var _ output.T = (*Translator)(nil)

// Translator picks the best embedded locale for an Accept-Language value and
// renders go-i18n messages in it. It is safe for concurrent use.
type Translator struct {
	matcher    language.Matcher
	localizers []*i18n.Localizer // same order as the matcher's tags
	log        *zap.Logger
}

// NewTranslator loads every embedded active.*.toml file. defaultLocale is
// used when nothing in the request matches; an unknown or unloaded default
// falls back to English.
func NewTranslator(defaultLocale string, log *zap.Logger) *Translator {
	def, err := language.Parse(defaultLocale)
	if err != nil {
		def = language.English
	}

	bundle := i18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, _ := fs.Glob(localeFS, "active.*.toml")
	var loaded []language.Tag
	for _, file := range files {
		mf, err := bundle.LoadMessageFileFS(localeFS, file)
		if err != nil {
			log.Error("i18n: failed to load message file", zap.String("file", file), zap.Error(err))
			continue
		}
		loaded = append(loaded, mf.Tag)
	}

	// The matcher falls back to its first tag.
	tags := []language.Tag{fallback(def, loaded)}
	for _, tag := range loaded {
		if tag != tags[0] {
			tags = append(tags, tag)
		}
	}

	localizers := make([]*i18n.Localizer, len(tags))
	for i, tag := range tags {
		localizers[i] = i18n.NewLocalizer(bundle, tag.String(), tags[0].String())
	}

	return &Translator{
		matcher:    language.NewMatcher(tags),
		localizers: localizers,
		log:        log,
	}
}

func fallback(def language.Tag, loaded []language.Tag) language.Tag {
	for _, tag := range loaded {
		if tag == def {
			return def
		}
	}
	return language.English
}

// T renders key for locale, a raw Accept-Language value. A key missing from
// every locale renders as the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	desired, _, _ := language.ParseAcceptLanguage(locale)
	_, index, _ := t.matcher.Match(desired...)

	msg, err := t.localizers[index].Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.log.Warn("i18n: localize failed", zap.String("key", key), zap.String("locale", locale), zap.Error(err))
		return key
	}
	return msg
}
