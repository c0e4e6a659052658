package i18n

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/kislikjeka/txfeed/internal/platform/txrow"
)

func TestCatalog_Format(t *testing.T) {
	tests := []struct {
		name     string
		tag      language.Tag
		key      txrow.TemplateKey
		expected string
	}{
		{"english sent", language.English, txrow.TemplateSentTo, "sent to 0xabc"},
		{"english sending", language.English, txrow.TemplateSendingTo, "sending to 0xabc"},
		{"english received", language.English, txrow.TemplateReceivedVia, "received via 0xabc"},
		{"english receiving", language.English, txrow.TemplateReceivingVia, "receiving via 0xabc"},
		{"english token", language.English, txrow.TemplateTokenTransfer, "token transfer: 0xabc"},
		{"spanish sent", language.Spanish, txrow.TemplateSentTo, "enviado a 0xabc"},
		{"german received", language.German, txrow.TemplateReceivedVia, "empfangen über 0xabc"},
		{"french sending", language.French, txrow.TemplateSendingTo, "envoi à 0xabc"},
		{"regional variant", language.MustParse("es-MX"), txrow.TemplateSentTo, "enviado a 0xabc"},
		{"unsupported falls back to english", language.Japanese, txrow.TemplateSentTo, "sent to 0xabc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog(tt.tag)
			assert.Equal(t, tt.expected, c.Format(tt.key, "0xabc"))
		})
	}
}

func TestCatalog_AllLanguagesHaveAllKeys(t *testing.T) {
	keys := []txrow.TemplateKey{
		txrow.TemplateSentTo,
		txrow.TemplateSendingTo,
		txrow.TemplateReceivedVia,
		txrow.TemplateReceivingVia,
		txrow.TemplateTokenTransfer,
	}
	for _, tag := range Supported {
		for _, key := range keys {
			assert.NotEmpty(t, translations[tag][key], "%s missing %s", tag, key)
		}
	}
}

func TestMatch(t *testing.T) {
	assert.Equal(t, language.German, Match(language.MustParse("de-AT")))
	assert.Equal(t, language.French, Match(language.MustParse("fr-CA")))
	assert.Equal(t, language.English, Match(language.MustParse("en-GB")))
	assert.Equal(t, language.English, Match(language.Und))
}

func TestDateFormatter_ShortDate(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	sameYear := time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC).UnixMilli()
	otherYear := time.Date(2023, 11, 20, 9, 30, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name     string
		tag      language.Tag
		millis   int64
		expected string
	}{
		{"english same year", language.English, sameYear, "Jan 5"},
		{"english other year", language.English, otherYear, "Nov 20, 2023"},
		{"german same year", language.German, sameYear, "5.1."},
		{"german other year", language.German, otherYear, "20.11.2023"},
		{"spanish same year", language.Spanish, sameYear, "5/1"},
		{"french other year", language.French, otherYear, "20/11/2023"},
		{"unsupported uses english", language.Japanese, sameYear, "Jan 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDateFormatter(tt.tag, time.UTC, now)
			assert.Equal(t, tt.expected, f.ShortDate(tt.millis))
		})
	}
}

func TestDateFormatter_Location(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	// 2024-01-01 02:00 UTC is still Dec 31 2023 in New York
	millis := time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC).UnixMilli()

	ny := time.FixedZone("EST", -5*60*60)
	assert.Equal(t, "Dec 31, 2023", NewDateFormatter(language.English, ny, now).ShortDate(millis))
	assert.Equal(t, "Jan 1", NewDateFormatter(language.English, nil, now).ShortDate(millis))
}
