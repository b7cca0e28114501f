package fits

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsio"
)

// ReadTable loads every row of the named binary table into a slice of T. The
// row type maps columns through `fits:"COLUMN"` struct tags. A missing file
// is an error; an empty table yields an empty slice.
func ReadTable[T any](path, name string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fits table file: %w", err)
	}
	defer file.Close()

	f, err := fitsio.Open(file)
	if err != nil {
		return nil, fmt.Errorf("parse fits table file: %w", err)
	}
	defer f.Close()

	var table *fitsio.Table
	for _, hdu := range f.HDUs() {
		tbl, ok := hdu.(*fitsio.Table)
		if !ok {
			continue
		}
		if name == "" || tbl.Name() == name {
			table = tbl
			break
		}
	}
	if table == nil {
		return nil, fmt.Errorf("binary table %q not found in %s", name, path)
	}

	rows, err := table.Read(0, table.NumRows())
	if err != nil {
		return nil, fmt.Errorf("read table rows: %w", err)
	}
	defer rows.Close()

	out := make([]T, 0, table.NumRows())
	for rows.Next() {
		var row T
		if err := rows.Scan(&row); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table rows: %w", err)
	}
	return out, nil
}

// WriteTable writes rows as the named binary table of a new FITS file at
// path, replacing any existing file. Column layout derives from the
// `fits:"COLUMN"` struct tags of T.
func WriteTable[T any](path, name string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fits table file: %w", err)
	}
	defer file.Close()

	f, err := fitsio.Create(file)
	if err != nil {
		return fmt.Errorf("initialize fits table file: %w", err)
	}
	defer f.Close()

	phdu, err := fitsio.NewPrimaryHDU(nil)
	if err != nil {
		return fmt.Errorf("build primary hdu: %w", err)
	}
	if err := f.Write(phdu); err != nil {
		return fmt.Errorf("write primary hdu: %w", err)
	}

	var prototype T
	table, err := fitsio.NewTableFrom(name, prototype, fitsio.BINARY_TBL)
	if err != nil {
		return fmt.Errorf("build binary table: %w", err)
	}
	defer table.Close()

	for i := range rows {
		if err := table.Write(&rows[i]); err != nil {
			return fmt.Errorf("write table row %d: %w", i, err)
		}
	}

	if err := f.Write(table); err != nil {
		return fmt.Errorf("write binary table: %w", err)
	}
	return nil
}
