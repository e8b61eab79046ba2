package feedstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pyroutech.ch/internal/logging"
)

// csvRow is one parsed row indexed by column name. Columns absent from the
// header return ("", false) from csvRow.get — missing optional columns are
// treated as absent, not an error.
type csvRow struct {
	header map[string]int
	fields []string
}

func (r csvRow) get(column string) (string, bool) {
	idx, ok := r.header[column]
	if !ok || idx >= len(r.fields) {
		return "", false
	}
	return strings.TrimSpace(r.fields[idx]), true
}

func (r csvRow) getOr(column, fallback string) string {
	if v, ok := r.get(column); ok {
		return v
	}
	return fallback
}

// walkCSV opens dir/name, and calls fn once per data row (the header row is
// line 1, so the first data row reported to fn is line 2). A missing file
// that is in required is a fatal MissingFileError; otherwise walkCSV returns
// (false, nil) to tell the caller the optional file was absent.
func walkCSV(dir, name string, required bool, logger *slog.Logger, fn func(row csvRow, line int) error) (bool, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return false, nil
		}
		return false, missingFile(path, err)
	}
	defer logging.SafeCloseWithLogging(f, logger, "close_"+name)

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; unknown/missing columns are ignored

	headerFields, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return true, nil
		}
		return true, badFormat(path, 1, fmt.Sprintf("unreadable header: %v", err))
	}
	header := make(map[string]int, len(headerFields))
	for i, col := range headerFields {
		header[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}

	line := 1
	for {
		fields, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return true, badFormat(path, line, err.Error())
		}
		if err := fn(csvRow{header: header, fields: fields}, line); err != nil {
			return true, err
		}
	}
	return true, nil
}

// parseGTFSTime converts "HH:MM:SS" (or "HH:MM") to seconds since midnight.
// HH may be >= 24 to represent a post-midnight trip; that value is preserved
// verbatim so ordering stays natural across the service-day boundary.
func parseGTFSTime(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	parts := strings.Split(value, ":")
	if len(parts) < 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	seconds := 0
	if len(parts) >= 3 && strings.TrimSpace(parts[2]) != "" {
		seconds, err = strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return 0, false
		}
	}
	return hours*3600 + minutes*60 + seconds, true
}

func parseYYYYMMDD(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if len(value) != 8 {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
