package schema

// Column is one header as observed and as normalized.
type Column struct {
	Index      int
	Header     string
	Normalized string
}

// Candidate is a header that matched an already-claimed canonical field.
type Candidate struct {
	Column
	Field Field
}

// Mapping assigns header columns to canonical fields. It is built once per
// load and read-only afterwards.
type Mapping struct {
	Columns []Column
	// Ignored holds later headers whose field was claimed by an earlier one.
	Ignored []Candidate
	// Unclassified holds headers that matched no rule.
	Unclassified []Column

	fields map[Field]int
}

// Resolve classifies headers and enforces the mandatory fields.
func Resolve(headers []string) (*Mapping, error) {
	m := &Mapping{
		Columns: make([]Column, 0, len(headers)),
		fields:  make(map[Field]int, len(rules)),
	}
	for idx, header := range headers {
		col := Column{Index: idx, Header: header, Normalized: NormalizeHeader(header)}
		m.Columns = append(m.Columns, col)

		field, ok := Classify(col.Normalized)
		if !ok {
			m.Unclassified = append(m.Unclassified, col)
			continue
		}
		if _, claimed := m.fields[field]; claimed {
			m.Ignored = append(m.Ignored, Candidate{Column: col, Field: field})
			continue
		}
		m.fields[field] = idx
	}

	var missing []Field
	for _, field := range MandatoryFields {
		if _, ok := m.fields[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Headers: append([]string(nil), headers...)}
	}
	return m, nil
}

// Index returns the column index mapped to field.
func (m *Mapping) Index(field Field) (int, bool) {
	if m == nil {
		return 0, false
	}
	idx, ok := m.fields[field]
	return idx, ok
}

// Header returns the original header text mapped to field.
func (m *Mapping) Header(field Field) (string, bool) {
	idx, ok := m.Index(field)
	if !ok {
		return "", false
	}
	return m.Columns[idx].Header, true
}

// Fields lists mapped fields in rule priority order.
func (m *Mapping) Fields() []Field {
	out := make([]Field, 0, len(m.fields))
	for _, r := range rules {
		if _, ok := m.fields[r.field]; ok {
			out = append(out, r.field)
		}
	}
	return out
}

// Value returns the cell for field in a row aligned with the header, or ""
// when the field is unmapped.
func (m *Mapping) Value(row []string, field Field) string {
	idx, ok := m.Index(field)
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
