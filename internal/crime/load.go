package crime

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/tripdesk/berlin-cli/internal/fetcher"
)

// LoadCSV builds a Table from a delimited stream.
func LoadCSV(r io.Reader, opts fetcher.CSVOptions) (Table, error) {
	header, rows, err := fetcher.ReadCSV(r, opts)
	if err != nil {
		return Table{}, eris.Wrap(err, "crime: load csv")
	}
	return Table{Header: header, Rows: rows}, nil
}

// LoadXLSX builds a Table from a spreadsheet file.
func LoadXLSX(path string, opts fetcher.XLSXOptions) (Table, error) {
	header, rows, err := fetcher.ReadXLSX(path, opts)
	if err != nil {
		return Table{}, eris.Wrap(err, "crime: load xlsx")
	}
	return Table{Header: header, Rows: rows}, nil
}

// LoadFile builds a Table from a path, dispatching on the file extension.
// The source of truth is always the file; callers re-read it per invocation.
func LoadFile(path string, csvOpts fetcher.CSVOptions, xlsxOpts fetcher.XLSXOptions) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path, xlsxOpts)
	default:
		f, err := os.Open(path)
		if err != nil {
			return Table{}, eris.Wrapf(err, "crime: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return LoadCSV(f, csvOpts)
	}
}
