package export

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteCSV writes the table with its header row to path, replacing any existing file.
func WriteCSV(path string, t Table) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	writer := csv.NewWriter(file)

	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return fmt.Errorf("%s row %d: expected %d columns, got %d", t.Name, i, len(t.Header), len(row))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d to %s: %w", i, path, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
