// Package importer bulk-loads practice items from Excel or CSV files into
// the item store.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sehyoun/nihongobot/internal/itemstore"
	"github.com/sehyoun/nihongobot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Config defines the import configuration
type Config struct {
	FilePath   string // Path to the Excel or CSV file
	SheetName  string // Name of the sheet to import (Excel only)
	SkipHeader bool   // Skip the header row
}

// DefaultConfig returns the default import configuration. Expected
// columns: level, japanese text, korean translation, optional topic.
func DefaultConfig(path string) Config {
	return Config{
		FilePath:   path,
		SheetName:  "Sheet1",
		SkipHeader: true,
	}
}

// Result holds the result of an import operation
type Result struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// Import loads items from an Excel or CSV file into the store.
func Import(store *itemstore.Store, config Config) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(store, config)
	}
	return importFromExcel(store, config)
}

func importFromExcel(store *itemstore.Store, config Config) (*Result, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &Result{}
	for i, row := range rows {
		if config.SkipHeader && i == 0 {
			continue
		}
		result.TotalProcessed++
		if err := importRow(store, row); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

func importFromCSV(store *itemstore.Store, config Config) (*Result, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	result := &Result{}
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		line++
		if config.SkipHeader && line == 1 {
			continue
		}
		result.TotalProcessed++
		if err := importRow(store, row); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", line, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

func importRow(store *itemstore.Store, row []string) error {
	if len(row) < 3 {
		return fmt.Errorf("expected at least 3 columns (level, jp, kr), got %d", len(row))
	}

	level := models.Level(strings.ToUpper(strings.TrimSpace(row[0])))
	if !level.IsValid() {
		return fmt.Errorf("unknown level %q", row[0])
	}

	jp := strings.TrimSpace(row[1])
	kr := strings.TrimSpace(row[2])
	if jp == "" || kr == "" {
		return fmt.Errorf("empty sentence text")
	}

	item := models.PracticeItem{
		Level: level,
		JP:    jp,
		KR:    kr,
	}
	if len(row) > 3 {
		item.Topic = strings.TrimSpace(row[3])
	}

	_, err := store.Append(item)
	return err
}
