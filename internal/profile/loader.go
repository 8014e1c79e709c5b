package profile

import (
	"encoding/csv"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	founderIDColumn  = "startup_id"
	investorIDColumn = "investor_id"

	tagDelimiter = "|"
)

// LoadStore reads both CSV files, drops rows without a usable id and returns a
// populated store. Textual fields default to "" and numeric fields to 0, so the
// matching core never sees a null-like value.
func LoadStore(foundersPath, investorsPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	founders, err := loadFounders(foundersPath, logger)
	if err != nil {
		return nil, fmt.Errorf("loading founders from %q: %w", foundersPath, err)
	}

	investors, err := loadInvestors(investorsPath, logger)
	if err != nil {
		return nil, fmt.Errorf("loading investors from %q: %w", investorsPath, err)
	}

	logger.Info("profile data loaded",
		zap.Int("founders", len(founders)),
		zap.Int("investors", len(investors)),
	)

	return NewStore(founders, investors), nil
}

func loadFounders(path string, logger *zap.Logger) ([]*Founder, error) {
	rows, err := readRows(path, founderIDColumn, logger)
	if err != nil {
		return nil, err
	}

	founders := make([]*Founder, 0, len(rows))
	for _, row := range rows {
		var founder Founder
		if err := decodeRow(row, &founder); err != nil {
			return nil, fmt.Errorf("row with %s=%q: %w", founderIDColumn, row[founderIDColumn], err)
		}
		founders = append(founders, &founder)
	}

	return founders, nil
}

func loadInvestors(path string, logger *zap.Logger) ([]*Investor, error) {
	rows, err := readRows(path, investorIDColumn, logger)
	if err != nil {
		return nil, err
	}

	investors := make([]*Investor, 0, len(rows))
	for _, row := range rows {
		var investor Investor
		if err := decodeRow(row, &investor); err != nil {
			return nil, fmt.Errorf("row with %s=%q: %w", investorIDColumn, row[investorIDColumn], err)
		}
		investors = append(investors, &investor)
	}

	return investors, nil
}

// readRows parses a CSV file into one map per row, keyed by header. Rows with a
// missing or blank id are dropped, not failed.
func readRows(path, idColumn string, logger *zap.Logger) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idIndex := -1
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
		if header[i] == idColumn {
			idIndex = i
		}
	}
	if idIndex == -1 {
		return nil, fmt.Errorf("id column %q not found in header", idColumn)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	rows := make([]map[string]string, 0, len(records))
	dropped := 0
	for _, record := range records {
		if idIndex >= len(record) || strings.TrimSpace(record[idIndex]) == "" {
			dropped++
			continue
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if col == "" || i >= len(record) {
				continue
			}
			row[col] = record[i]
		}
		row[idColumn] = strings.TrimSpace(record[idIndex])
		rows = append(rows, row)
	}

	if dropped > 0 {
		logger.Warn("dropped rows with missing or blank id",
			zap.String("path", path),
			zap.String("id_column", idColumn),
			zap.Int("dropped", dropped),
		)
	}

	return rows, nil
}

func decodeRow(row map[string]string, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			normalizeNumericHook,
			splitTagsHook,
		),
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(row); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	return nil
}

// normalizeNumericHook makes raw CSV cells digestible as numbers: blank cells
// become zero and thousands separators are removed.
func normalizeNumericHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
	default:
		return data, nil
	}

	value := strings.ReplaceAll(strings.TrimSpace(data.(string)), ",", "")
	if value == "" {
		value = "0"
	}

	return value, nil
}

// splitTagsHook turns a pipe-delimited cell into an ordered tag list.
func splitTagsHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.String {
		return data, nil
	}

	parts := strings.Split(data.(string), tagDelimiter)
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}

	return tags, nil
}
