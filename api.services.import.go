package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// ErrImportParse signals structurally corrupt csv content. It is a
// fatal outcome for the whole upload, distinct from the recoverable
// false result used for an unusable header or an empty record set.
var ErrImportParse = errors.New("import: malformed csv content")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// importHeader is the only accepted header row: three columns,
// exact names, exact order, case-sensitive.
var importHeader = []string{"Title", "Author", "Genre"}

// importReport accumulates the outcome of one import pass. The batch
// notification and the boolean result are decided after the full pass,
// never inside the row loop.
type importReport struct {
	parsed  int
	skipped int
	applied int
}

// ImportBooks bulk-loads catalog records from an uploaded csv payload.
// The whole file is parsed before any record is applied, so a
// structural error never leaves partial state behind. Rows missing a
// field are skipped without aborting the batch. One change event is
// published for the whole batch when at least one row was applied.
func (bs *BookService) ImportBooks(ctx context.Context, content []byte) (bool, error) {
	if len(content) == 0 {
		return false, nil
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	records, err := parseImportRecords(content)
	if err != nil {
		return false, err
	}
	if records == nil {
		// missing or unexpected header shape. no row was processed.
		return false, nil
	}
	if len(records) == 0 {
		return false, nil
	}

	report := importReport{parsed: len(records)}
	for _, rec := range records {
		if rec.Title == "" || rec.Author == "" || rec.Genre == "" {
			report.skipped++
			continue
		}
		book := Book{
			Title:  strings.TrimSpace(rec.Title),
			Author: strings.TrimSpace(rec.Author),
			Genre:  strings.TrimSpace(rec.Genre),
		}
		if _, err := bs.storage.Add(ctx, book); err != nil {
			return false, fmt.Errorf("import: failed to add record %d: %w", report.applied+report.skipped+1, err)
		}
		report.applied++
	}

	if report.applied > 0 {
		bs.publish(ctx)
	}
	bs.logger.Info("import: batch processed",
		zap.Int("import.parsed", report.parsed),
		zap.Int("import.skipped", report.skipped),
		zap.Int("import.applied", report.applied),
	)
	return true, nil
}

// parseImportRecords decodes the csv payload. It returns a nil slice
// when the header row is absent or does not match Title,Author,Genre,
// and wraps any structural csv failure into ErrImportParse.
func parseImportRecords(content []byte) ([]ImportRecord, error) {
	reader := csv.NewReader(bytes.NewReader(content))

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportParse, err)
	}
	if len(header) != len(importHeader) ||
		header[0] != importHeader[0] || header[1] != importHeader[1] || header[2] != importHeader[2] {
		return nil, nil
	}

	records := []ImportRecord{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImportParse, err)
		}
		records = append(records, ImportRecord{
			Title:  row[0],
			Author: row[1],
			Genre:  row[2],
		})
	}
	return records, nil
}
