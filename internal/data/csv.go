package data

import (
	"sort"
	"strings"
)

// ScanRecord is one batch row: the source file and its report.
type ScanRecord struct {
	Filename string
	Report   Report
}

// MapCSVRecord flattens the combined result; per-engine text stays in the
// JSON report.
func MapCSVRecord(item ScanRecord) []string {
	combined := item.Report.CombinedResult
	return []string{
		item.Filename,
		strings.Join(combined.Extracted.VisitingCard.Emails, "; "),
		strings.Join(combined.Extracted.VisitingCard.Phones, "; "),
		strings.Join(combined.Extracted.VisitingCard.Addresses, "; "),
		strings.Join(combined.Extracted.Passport.PassportNumbers, "; "),
		strings.Join(combined.Extracted.Passport.DateOfBirth, "; "),
		strings.Join(combined.Extracted.Passport.MRZ, "; "),
		strings.Join(item.Report.EnginesWithText(), "; "),
		combined.CleanedText,
	}
}

func GetCSVHeader() []string {
	return []string{"Filename", "Emails", "Phones", "Addresses", "PassportNumbers", "DateOfBirth", "MRZ", "Engines", "Text"}
}

// EnginesWithText lists, sorted, the engines that produced any cleaned text.
func (r Report) EnginesWithText() []string {
	var names []string
	for name, res := range r.OCRResults {
		if res.Cleaned != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
