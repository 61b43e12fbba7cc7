package decode

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

const byteOrderMark = "\ufeff"

// Record is one data row, positionally aligned with Result.Header.
type Record struct {
	Line   int
	Fields []string
}

// Result is the outcome of a successful decode.
type Result struct {
	Path     string
	Encoding string
	Header   []string
	Records  []Record
	// Skipped counts rows dropped for a wrong field count or broken quoting.
	Skipped int
	// Rejected lists encodings tried before the accepted one.
	Rejected []Attempt
}

// Decoder reads delimited text under an ordered list of candidate encodings.
type Decoder struct {
	Encodings []Encoding
	Delimiter rune
}

// New builds a decoder from encoding names. No names selects the defaults.
func New(delimiter rune, names ...string) (*Decoder, error) {
	if delimiter == 0 {
		delimiter = ','
	}
	if len(names) == 0 {
		return &Decoder{Encodings: DefaultEncodings(), Delimiter: delimiter}, nil
	}
	encodings := make([]Encoding, 0, len(names))
	for _, name := range names {
		enc, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		encodings = append(encodings, enc)
	}
	return &Decoder{Encodings: encodings, Delimiter: delimiter}, nil
}

// Read loads and decodes the file at path.
func (d *Decoder) Read(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataSourceError{Path: path, Err: err}
	}
	return d.Decode(data, path)
}

// Decode decodes in-memory file contents. source is used for error messages.
func (d *Decoder) Decode(data []byte, source string) (*Result, error) {
	encodings := d.Encodings
	if len(encodings) == 0 {
		encodings = DefaultEncodings()
	}
	delimiter := d.Delimiter
	if delimiter == 0 {
		delimiter = ','
	}

	var rejected []Attempt
	for idx, enc := range encodings {
		last := idx == len(encodings)-1
		text, err := decodeText(data, enc, !last)
		if err == nil {
			var result *Result
			result, err = parseRows(text, delimiter)
			if err == nil {
				result.Path = source
				result.Encoding = enc.Name
				result.Rejected = rejected
				return result, nil
			}
		}
		rejected = append(rejected, Attempt{Encoding: enc.Name, Reason: err.Error()})
	}
	return nil, &DataSourceError{Path: source, Attempts: rejected}
}

// decodeText converts data to a Go string under enc. strict additionally
// rejects C1 control characters, which only appear when a Windows-1252 file
// is read as Latin-1.
func decodeText(data []byte, enc Encoding, strict bool) (string, error) {
	var text string
	if enc.codec == nil {
		if !utf8.Valid(data) {
			return "", errors.New("invalid utf-8 byte sequence")
		}
		text = string(data)
	} else {
		decoded, _, err := transform.Bytes(enc.codec.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("transcode: %w", err)
		}
		text = string(decoded)
		if strings.ContainsRune(text, utf8.RuneError) {
			return "", errors.New("undefined byte for encoding")
		}
	}
	text = strings.TrimPrefix(text, byteOrderMark)
	if strict && enc.codec != nil && containsC1(text) {
		return "", errors.New("decoded text contains C1 control characters")
	}
	return text, nil
}

func containsC1(text string) bool {
	for _, r := range text {
		if r >= 0x80 && r <= 0x9f {
			return true
		}
	}
	return false
}

// parseRows splits text into header and records. A record that fails and
// spans several physical lines (typically an unterminated quote swallowing
// the rest of the file) costs only its first line: parsing resumes on the
// line after it.
func parseRows(text string, delimiter rune) (*Result, error) {
	result := &Result{}
	offset := 0
	for offset < len(text) {
		next, err := parseFrom(text, offset, delimiter, result)
		if err != nil {
			return nil, err
		}
		if next < 0 {
			break
		}
		offset = next
	}
	if result.Header == nil {
		return nil, errors.New("no header row")
	}
	return result, nil
}

// parseFrom reads records from text[offset:] into result. It returns the
// offset to resume from after a multi-line failure, or -1 at end of input.
func parseFrom(text string, offset int, delimiter rune, result *Result) (int, error) {
	reader := csv.NewReader(strings.NewReader(text[offset:]))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	lineBase := strings.Count(text[:offset], "\n")

	for {
		before := reader.InputOffset()
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return -1, nil
		}
		var parseErr *csv.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			return 0, fmt.Errorf("read rows: %w", err)
		}
		if err == nil && result.Header == nil {
			if !isBlankRow(fields) {
				result.Header = fields
			}
			continue
		}
		if err == nil && len(fields) == len(result.Header) {
			line, _ := reader.FieldPos(0)
			result.Records = append(result.Records, Record{Line: lineBase + line, Fields: fields})
			continue
		}

		result.Skipped++
		span := text[offset+int(before) : offset+int(reader.InputOffset())]
		lead := len(span) - len(strings.TrimLeft(span, "\r\n"))
		body := strings.TrimRight(span[lead:], "\r\n")
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			return offset + int(before) + lead + nl + 1, nil
		}
	}
}

func isBlankRow(fields []string) bool {
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
