package pipeline

import (
	"strings"

	"docscan/internal/data"
	"docscan/internal/ocr"
)

func buildReport(results []ocr.OCRResult) *data.Report {
	report := &data.Report{
		OCRResults: make(map[string]data.EngineResult, len(results)),
	}

	cleaned := make([]string, 0, len(results))
	for _, res := range results {
		raw := res.TextOrEmpty()
		text := data.Normalize(raw)
		report.OCRResults[res.Engine] = data.EngineResult{
			Raw:       raw,
			Cleaned:   text,
			Extracted: data.ExtractAll(text),
		}
		cleaned = append(cleaned, text)
	}

	// Joining adds new spaces (and doubles them around empty engines), so
	// the combined text is normalised once more.
	combined := data.Normalize(strings.Join(cleaned, " "))
	report.CombinedResult = data.CombinedResult{
		CleanedText: combined,
		Extracted:   data.ExtractAll(combined),
	}
	return report
}
