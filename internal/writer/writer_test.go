package writer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"docscan/internal/data"
)

func record(filename, email, text string) data.ScanRecord {
	return data.ScanRecord{
		Filename: filename,
		Report: data.Report{
			CombinedResult: data.CombinedResult{
				CleanedText: text,
				Extracted: data.Extracted{
					VisitingCard: data.VisitingCard{Emails: data.MatchSet{email}},
				},
			},
		},
	}
}

func TestCSVWriter_AppendMode(t *testing.T) {
	// Arrange
	ctx := context.Background()
	outputPath := filepath.Join(t.TempDir(), "append_test.csv")
	writer := NewCSVWriter(data.MapCSVRecord, data.GetCSVHeader)
	defer writer.Close()

	data1 := []data.ScanRecord{record("card1.jpg", "john@example.com", "John Doe john@example.com")}
	data2 := []data.ScanRecord{record("card2.jpg", "jane@example.com", "Jane Smith jane@example.com")}

	expectedRecords := 3 // header + 2 data rows

	// Act
	err1 := writer.WriteToFile(ctx, data1, outputPath)
	err2 := writer.WriteToFile(ctx, data2, outputPath)

	// Assert
	if err1 != nil {
		t.Fatalf("First write failed: %v", err1)
	}
	if err2 != nil {
		t.Fatalf("Second write failed: %v", err2)
	}

	records := readCSVFile(t, outputPath)
	if len(records) != expectedRecords {
		t.Fatalf("expected %d records (header + data), got %d", expectedRecords, len(records))
	}
	if !stringSlicesEqual(records[0], data.GetCSVHeader()) {
		t.Errorf("expected header %v, got %v", data.GetCSVHeader(), records[0])
	}
	if records[1][0] != "card1.jpg" || records[2][0] != "card2.jpg" {
		t.Errorf("data integrity check failed")
	}
	if records[2][1] != "jane@example.com" {
		t.Errorf("expected email column, got %q", records[2][1])
	}
}

func TestCSVWriter_ReplaceMode(t *testing.T) {
	// Arrange
	ctx := context.Background()
	outputPath := filepath.Join(t.TempDir(), "replace_test.csv")
	writer := NewCSVWriter(data.MapCSVRecord, data.GetCSVHeader)
	defer writer.Close()

	// Act
	err1 := writer.WriteToFile(ctx, []data.ScanRecord{record("original.jpg", "a@b.co", "")}, outputPath)
	err2 := writer.WriteToFile(ctx, []data.ScanRecord{record("replaced.jpg", "c@d.co", "")}, outputPath, true)

	// Assert
	if err1 != nil {
		t.Fatalf("First write failed: %v", err1)
	}
	if err2 != nil {
		t.Fatalf("Replace write failed: %v", err2)
	}

	records := readCSVFile(t, outputPath)
	if len(records) != 2 {
		t.Fatalf("expected 2 records after replace, got %d", len(records))
	}
	if records[1][0] != "replaced.jpg" {
		t.Errorf("expected replaced content, got %s", records[1][0])
	}
}

func TestCSVWriter_AppendToExistingFileKeepsSingleHeader(t *testing.T) {
	// Arrange: a file left behind by an earlier run.
	ctx := context.Background()
	outputPath := filepath.Join(t.TempDir(), "existing.csv")
	first := NewCSVWriter(data.MapCSVRecord, data.GetCSVHeader)
	if err := first.WriteToFile(ctx, []data.ScanRecord{record("old.jpg", "o@x.co", "")}, outputPath); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}
	first.Close()

	// Act
	second := NewCSVWriter(data.MapCSVRecord, data.GetCSVHeader)
	defer second.Close()
	err := second.WriteToFile(ctx, []data.ScanRecord{record("new.jpg", "n@x.co", "")}, outputPath)

	// Assert
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	records := readCSVFile(t, outputPath)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[2][0] != "new.jpg" {
		t.Errorf("expected new row last, got %v", records[2])
	}
}

func TestCSVWriter_ConcurrentWrites(t *testing.T) {
	// Arrange
	ctx := context.Background()
	outputPath := filepath.Join(t.TempDir(), "concurrent_test.csv")
	writer := NewCSVWriter(data.MapCSVRecord, data.GetCSVHeader)
	defer writer.Close()

	numGoroutines := 5
	expectedRecords := 1 + numGoroutines // header + data
	var wg sync.WaitGroup

	// Act
	for i := range numGoroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			rows := []data.ScanRecord{
				record(fmt.Sprintf("concurrent_%d.jpg", id), fmt.Sprintf("user%d@example.com", id), fmt.Sprintf("Text from goroutine %d", id)),
			}
			if err := writer.WriteToFile(ctx, rows, outputPath); err != nil {
				t.Errorf("Goroutine %d failed: %v", id, err)
			}
		}(i)
	}

	wg.Wait()

	// Assert
	records := readCSVFile(t, outputPath)
	if len(records) != expectedRecords {
		t.Errorf("expected %d records, got %d", expectedRecords, len(records))
	}
}

func TestCSVWriter_EmptyData(t *testing.T) {
	// Arrange
	outputPath := filepath.Join(t.TempDir(), "empty_test.csv")
	writer := NewCSVWriter(data.MapCSVRecord, data.GetCSVHeader)
	defer writer.Close()

	// Act
	err := writer.WriteToFile(context.Background(), []data.ScanRecord{}, outputPath)

	// Assert
	if err != nil {
		t.Fatalf("Writing empty data failed: %v", err)
	}
	if _, err := os.Stat(outputPath); err == nil {
		if records := readCSVFile(t, outputPath); len(records) > 0 {
			t.Errorf("expected no records for empty data, got %d", len(records))
		}
	}
}

func TestCSVWriter_InvalidPath(t *testing.T) {
	// Arrange: a regular file where a directory is expected.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("creating blocker: %v", err)
	}
	writer := NewCSVWriter(data.MapCSVRecord, data.GetCSVHeader)
	defer writer.Close()

	// Act
	err := writer.WriteToFile(context.Background(), []data.ScanRecord{record("test.jpg", "t@x.co", "")}, filepath.Join(blocker, "out.csv"))

	// Assert
	if err == nil {
		t.Errorf("expected error for invalid path, got none")
	}
}

func TestCSVWriter_WriteAfterClose(t *testing.T) {
	writer := NewCSVWriter(data.MapCSVRecord, data.GetCSVHeader)
	writer.Close()

	err := writer.WriteToFile(context.Background(), []data.ScanRecord{record("late.jpg", "", "")}, filepath.Join(t.TempDir(), "late.csv"))
	if !errors.Is(err, ErrWriterClosed) {
		t.Errorf("expected ErrWriterClosed, got %v", err)
	}
}

// Helper functions
func readCSVFile(t *testing.T, path string) [][]string {
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	return records
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}
