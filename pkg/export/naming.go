package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/santralytics/santralytics/core/model"
)

// Slugify reduces a plant name to characters safe in a file name.
// Spaces become underscores; anything that is not a letter, digit,
// underscore or dash is dropped.
func Slugify(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	var b strings.Builder
	for _, r := range s {
		if r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WorkbookFileName names the workbook after the compared plants and the
// report range.
func WorkbookFileName(plant1, plant2 string, rng model.DateRange) string {
	return fmt.Sprintf("Analiz_%s_vs_%s_%s_%s.xlsx",
		Slugify(plant1), Slugify(plant2),
		rng.Start.Format("20060102"), rng.End.Format("20060102"))
}
