package postal

import (
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names the text encoding of an input file.
type Encoding string

const (
	// EncodingUTF8 is used by utf_ken_all.csv. A leading BOM is dropped and
	// invalid byte sequences fail the read.
	EncodingUTF8 Encoding = "utf-8"
	// EncodingShiftJIS is used by the original KEN_ALL.CSV distribution.
	EncodingShiftJIS Encoding = "shift_jis"
)

// ParseEncoding resolves a user-supplied encoding name. The empty string
// selects UTF-8.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "shift_jis", "shift-jis", "sjis", "cp932":
		return EncodingShiftJIS, nil
	default:
		return "", fmt.Errorf("unknown encoding %q: must be utf-8 or shift_jis", name)
	}
}

// Reader yields Records from a CSV source and hashes the raw bytes it
// consumes.
type Reader struct {
	csv  *csv.Reader
	hash hash.Hash
	rows int
}

// NewReader wraps r, decoding it with enc. Rows may have any number of
// fields and stray quotes inside unquoted fields are tolerated.
func NewReader(r io.Reader, enc Encoding) (*Reader, error) {
	h := sha256.New()
	raw := io.TeeReader(r, h)

	var decoded io.Reader
	switch enc {
	case EncodingUTF8, "":
		decoded = transform.NewReader(raw, unicode.BOMOverride(encoding.UTF8Validator))
	case EncodingShiftJIS:
		decoded = transform.NewReader(raw, japanese.ShiftJIS.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	return &Reader{csv: cr, hash: h}, nil
}

// Next returns the next record. It returns io.EOF when the source is
// exhausted; any other error is a read or CSV syntax failure.
func (r *Reader) Next() (Record, error) {
	fields, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read input row %d: %w", r.rows+1, err)
	}
	r.rows++
	return Record(fields), nil
}

// Rows returns the number of records returned so far.
func (r *Reader) Rows() int {
	return r.rows
}

// Hash returns the hex SHA-256 of the raw bytes read so far. After Next
// has returned io.EOF this covers the whole source.
func (r *Reader) Hash() string {
	return fmt.Sprintf("%x", r.hash.Sum(nil))
}
