package content

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet columns, in order.
var sheetColumns = []string{"word_id", "word", "senses_id", "pos", "en", "ja", "seEn", "seJa", "tags"}

// ImportConfig describes the spreadsheet to read.
type ImportConfig struct {
	FilePath  string
	SheetName string // first sheet when empty
	StartRow  int    // 1-based; defaults to 2 to skip the header
}

// ImportResult summarizes an import.
type ImportResult struct {
	Processed int      `json:"processed"`
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// ReadSheet parses an .xlsx vocabulary sheet into rows. Invalid rows are
// reported in the result and left out.
func ReadSheet(ctx context.Context, cfg ImportConfig) ([]models.SenseRow, *ImportResult, error) {
	log := logger.FromContext(ctx).WithPrefix("importer").WithField("file", cfg.FilePath)

	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	startRow := cfg.StartRow
	if startRow <= 0 {
		startRow = 2
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	var out []models.SenseRow
	for i, row := range rows {
		if i < startRow-1 {
			continue
		}
		if blank(row) {
			continue
		}
		result.Processed++

		r, err := parseRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		out = append(out, r)
	}
	result.Imported = len(out)
	log.Info("read %d rows from sheet %s (%d skipped)", result.Imported, sheet, result.Skipped)
	return out, result, nil
}

// ImportFile reads a sheet and stores its rows in the catalog.
func ImportFile(ctx context.Context, cfg ImportConfig, catalog *Catalog) (*ImportResult, error) {
	rows, result, err := ReadSheet(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := catalog.Upsert(ctx, rows); err != nil {
		return nil, err
	}
	return result, nil
}

func parseRow(row []string) (models.SenseRow, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	wordID, err := strconv.ParseInt(cell(0), 10, 64)
	if err != nil {
		return models.SenseRow{}, fmt.Errorf("invalid %s %q", sheetColumns[0], cell(0))
	}
	sensesID, err := strconv.ParseInt(cell(2), 10, 64)
	if err != nil {
		return models.SenseRow{}, fmt.Errorf("invalid %s %q", sheetColumns[2], cell(2))
	}
	if cell(1) == "" {
		return models.SenseRow{}, fmt.Errorf("missing %s", sheetColumns[1])
	}

	return models.SenseRow{
		WordID:       wordID,
		Word:         cell(1),
		SensesID:     sensesID,
		PartOfSpeech: cell(3),
		DefinitionEn: cell(4),
		DefinitionJa: cell(5),
		ExampleEn:    cell(6),
		ExampleJa:    cell(7),
		Tags:         cell(8),
	}, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
