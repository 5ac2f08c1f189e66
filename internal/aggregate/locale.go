package aggregate

import (
	"fmt"

	"dashboard/internal/models"

	"golang.org/x/text/language"
)

const DefaultLocale = "it"

// SupportedLocales lists the chart label languages. The first entry is the fallback.
var SupportedLocales = []string{"it", "en"}

var localeMatcher = newLocaleMatcher()

func newLocaleMatcher() language.Matcher {
	tags := make([]language.Tag, 0, len(SupportedLocales))
	for _, locale := range SupportedLocales {
		tags = append(tags, language.MustParse(locale))
	}
	return language.NewMatcher(tags)
}

// MonthsShortIt contains Italian month abbreviations.
var MonthsShortIt = []string{
	"gen", "feb", "mar", "apr", "mag", "giu",
	"lug", "ago", "set", "ott", "nov", "dic",
}

// MonthsIt contains Italian month names.
var MonthsIt = []string{
	"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
	"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
}

var MonthsShortEn = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var MonthsEn = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MatchLocale picks the first candidate that resolves to a supported locale.
// Candidates may be plain language codes or Accept-Language header values.
func MatchLocale(candidates ...string) string {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}

		tags, _, err := language.ParseAcceptLanguage(candidate)
		if err != nil || len(tags) == 0 {
			tag, err := language.Parse(candidate)
			if err != nil {
				continue
			}
			tags = []language.Tag{tag}
		}

		_, idx, confidence := localeMatcher.Match(tags...)
		if confidence != language.No && idx >= 0 && idx < len(SupportedLocales) {
			return SupportedLocales[idx]
		}
	}
	return DefaultLocale
}

func monthTables(locale string) (short []string, long []string) {
	if locale == "en" {
		return MonthsShortEn, MonthsEn
	}
	return MonthsShortIt, MonthsIt
}

// FormatDayLabel renders d as "dd MMM", e.g. "05 gen".
func FormatDayLabel(d models.Date, locale string) string {
	short, _ := monthTables(locale)
	return fmt.Sprintf("%02d %s", d.Day(), short[d.Month()-1])
}

// FormatWeekLabel renders a week as "<start dd MMM> - <end dd MMM>".
func FormatWeekLabel(start, end models.Date, locale string) string {
	return FormatDayLabel(start, locale) + " - " + FormatDayLabel(end, locale)
}

// FormatMonthLabel renders the month of d as "<month> <year>", e.g. "gennaio 2025".
func FormatMonthLabel(d models.Date, locale string) string {
	_, long := monthTables(locale)
	return fmt.Sprintf("%s %d", long[d.Month()-1], d.Year())
}
