package pipeline

import (
	"context"
	"fmt"

	"docscan/internal/data"
	"docscan/internal/logger"
	"docscan/internal/writer"
)

func writeOutput(ctx context.Context,
	csvWriter *writer.CSVWriter[data.ScanRecord],
	output string,
	scanned <-chan result[data.ScanRecord],
	results *writeResult[data.ScanRecord]) {
	defer func() {
		logger.DebugLog("[writeOutput]: closing CSV writer")
		csvWriter.Close()
	}()

	for res := range scanned {
		if ctx.Err() != nil {
			logger.DebugLog("[writeOutput]: context cancelled")
			return
		}

		if res.err != nil {
			logger.DebugLog("[writeOutput]: failure for %s: %v", res.path, res.err)
			results.addFailure(res.path, res.err)
			continue
		}

		logger.DebugLog("[writeOutput]: writing data for %s", res.path)
		if err := csvWriter.WriteToFile(ctx, []data.ScanRecord{res.data}, output); err != nil {
			results.addFailure(res.path, fmt.Errorf("writing to file %s: %w", output, err))
			continue
		}

		results.addWrite(res.path, res.data)
	}
}
