package guide

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the header and rows to w as UTF-8 CSV.
func WriteCSV(w io.Writer, rows []Row) error {
	const op = "WriteCSV"

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("%s: failed to write header: %w", op, err)
	}
	for i, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("%s: failed to write row %d: %w", op, i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: failed to flush: %w", op, err)
	}
	return nil
}
