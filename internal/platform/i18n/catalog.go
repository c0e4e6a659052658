package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/kislikjeka/txfeed/internal/platform/txrow"
)

// Supported lists the languages with translated row templates. The first
// entry is the fallback.
var Supported = []language.Tag{
	language.English,
	language.Spanish,
	language.German,
	language.French,
}

var matcher = language.NewMatcher(Supported)

var translations = map[language.Tag]map[txrow.TemplateKey]string{
	language.English: {
		txrow.TemplateSentTo:        "sent to %s",
		txrow.TemplateSendingTo:     "sending to %s",
		txrow.TemplateReceivedVia:   "received via %s",
		txrow.TemplateReceivingVia:  "receiving via %s",
		txrow.TemplateTokenTransfer: "token transfer: %s",
	},
	language.Spanish: {
		txrow.TemplateSentTo:        "enviado a %s",
		txrow.TemplateSendingTo:     "enviando a %s",
		txrow.TemplateReceivedVia:   "recibido a través de %s",
		txrow.TemplateReceivingVia:  "recibiendo a través de %s",
		txrow.TemplateTokenTransfer: "transferencia de token: %s",
	},
	language.German: {
		txrow.TemplateSentTo:        "gesendet an %s",
		txrow.TemplateSendingTo:     "wird gesendet an %s",
		txrow.TemplateReceivedVia:   "empfangen über %s",
		txrow.TemplateReceivingVia:  "wird empfangen über %s",
		txrow.TemplateTokenTransfer: "Token-Überweisung: %s",
	},
	language.French: {
		txrow.TemplateSentTo:        "envoyé à %s",
		txrow.TemplateSendingTo:     "envoi à %s",
		txrow.TemplateReceivedVia:   "reçu via %s",
		txrow.TemplateReceivingVia:  "réception via %s",
		txrow.TemplateTokenTransfer: "transfert de jeton : %s",
	},
}

var builder = newBuilder()

func newBuilder() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			// SetString only fails on malformed messages
			if err := b.SetString(tag, string(key), msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Match returns the closest supported language for tag
func Match(tag language.Tag) language.Tag {
	_, idx, _ := matcher.Match(tag)
	return Supported[idx]
}

// Catalog renders row detail templates in one language
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCatalog creates a catalog for the closest supported match of tag
func NewCatalog(tag language.Tag) *Catalog {
	matched := Match(tag)
	return &Catalog{
		tag:     matched,
		printer: message.NewPrinter(matched, message.Catalog(builder)),
	}
}

// Language returns the language the catalog renders in
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Format substitutes arg into the template identified by key
func (c *Catalog) Format(key txrow.TemplateKey, arg string) string {
	return c.printer.Sprintf(string(key), arg)
}
