package sheets

import (
	"context"
	"fmt"
	"strings"

	"pokedata/internal/guide"
)

// ReadRange reads values from a specified range in the spreadsheet
func (s *Service) ReadRange(ctx context.Context, rangeSpec string) ([][]interface{}, error) {
	const op = "ReadRange"

	s.log.Debug().
		Str("range", rangeSpec).
		Msg("Reading range from spreadsheet")

	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read range %s: %w", op, rangeSpec, err)
	}

	s.log.Debug().
		Int("rows", len(resp.Values)).
		Str("range", rangeSpec).
		Msg("Successfully read range from spreadsheet")

	return resp.Values, nil
}

// ReadRows reads the guide rows already stored in the named sheet.
func (s *Service) ReadRows(ctx context.Context, sheetName string) ([]guide.Row, error) {
	const op = "ReadRows"

	values, err := s.ReadRange(ctx, columnRange(sheetName, 0))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := rowsFromValues(values)
	s.log.Info().
		Int("total_rows", max(len(values)-1, 0)).
		Int("parsed_rows", len(rows)).
		Str("sheet", sheetName).
		Msg("Guide rows read successfully")

	return rows, nil
}

// rowsFromValues converts sheet values, header first, to rows. Rows without
// a game title are skipped.
func rowsFromValues(values [][]interface{}) []guide.Row {
	if len(values) < 2 {
		return nil
	}

	var rows []guide.Row
	for _, v := range values[1:] {
		row := guide.Row{
			GameTitle:   getString(v, 0),
			Region:      getString(v, 1),
			Stage:       getString(v, 2),
			WildPokemon: getString(v, 3),
			Leader:      getString(v, 4),
			Team:        getString(v, 5),
			Notes:       getString(v, 6),
		}
		if row.GameTitle == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// newRows returns the rows of candidates not present in existing, keeping
// order. Rows compare by their trimmed cells.
func newRows(existing, candidates []guide.Row) []guide.Row {
	seen := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		seen[rowKey(r)] = struct{}{}
	}

	var fresh []guide.Row
	for _, r := range candidates {
		if _, ok := seen[rowKey(r)]; ok {
			continue
		}
		fresh = append(fresh, r)
	}
	return fresh
}

func rowKey(r guide.Row) string {
	record := r.Record()
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	return strings.Join(record, "\x1f")
}

// getString safely extracts a string value from a row slice
func getString(row []interface{}, index int) string {
	if index >= len(row) || row[index] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[index]))
}
