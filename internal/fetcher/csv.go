// Package fetcher parses the delimited and spreadsheet files the crime
// pipeline ingests.
package fetcher

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// CSVOptions configures the CSV parser.
type CSVOptions struct {
	Delimiter  rune   // default ','
	Comment    rune   // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
	Encoding   string // "", "utf-8", "windows-1252", "latin-1"
}

// ReadCSV parses a delimited file into a header row and data rows. The first
// record is the header. Rows that fail to parse are skipped rather than
// aborting the read; only an unreadable stream is an error. Variable field
// counts are allowed.
func ReadCSV(r io.Reader, opts CSVOptions) (header []string, rows [][]string, err error) {
	decoded, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(decoded)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				continue // malformed row, keep going
			}
			return nil, nil, eris.Wrap(readErr, "csv: read row")
		}

		if opts.TrimSpace {
			for i, field := range record {
				record[i] = strings.TrimSpace(field)
			}
		}

		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}

	if header == nil {
		return nil, nil, eris.New("csv: empty file")
	}
	return header, rows, nil
}

// decodeReader wraps r with a charset decoder when the source file ships in
// a legacy encoding. Berlin open-data exports are frequently Windows-1252.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	case "latin-1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	default:
		return nil, eris.Errorf("csv: unsupported encoding %q", encoding)
	}
}
