package i18n

import (
	"time"

	"golang.org/x/text/language"
)

type dateLayouts struct {
	currentYear string
	otherYear   string
}

var layouts = map[language.Tag]dateLayouts{
	language.English: {currentYear: "Jan 2", otherYear: "Jan 2, 2006"},
	language.German:  {currentYear: "2.1.", otherYear: "2.1.2006"},
	language.Spanish: {currentYear: "2/1", otherYear: "2/1/2006"},
	language.French:  {currentYear: "2/1", otherYear: "2/1/2006"},
}

// DateFormatter renders short row dates. The year is omitted for dates in
// the current year.
type DateFormatter struct {
	layouts  dateLayouts
	location *time.Location
	now      func() time.Time
}

// NewDateFormatter creates a formatter for the closest supported match of tag.
// A nil location means UTC; a nil now means time.Now.
func NewDateFormatter(tag language.Tag, location *time.Location, now func() time.Time) *DateFormatter {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &DateFormatter{
		layouts:  layouts[Match(tag)],
		location: location,
		now:      now,
	}
}

// ShortDate formats epochMillis in the formatter's location
func (f *DateFormatter) ShortDate(epochMillis int64) string {
	t := time.UnixMilli(epochMillis).In(f.location)
	if t.Year() == f.now().In(f.location).Year() {
		return t.Format(f.layouts.currentYear)
	}
	return t.Format(f.layouts.otherYear)
}
