package domain

// Columns every input file must carry.
const (
	ColumnName        = "name"
	ColumnPhone       = "phone"
	ColumnLocation    = "location"
	ColumnAddress     = "address"
	ColumnReviewsList = "reviews_list"
)

// RequiredColumns lists the header names a file must contain to be validated.
var RequiredColumns = []string{ColumnName, ColumnPhone, ColumnLocation, ColumnAddress, ColumnReviewsList}

// Row is one data row of a CSV file. Index is the 0-based position among data rows.
type Row struct {
	Index   int
	Header  []string
	Values  []string
	columns map[string]int
}

// NewRow binds values to header. Values shorter than the header are padded.
func NewRow(index int, header []string, values []string) Row {
	padded := make([]string, len(header))
	copy(padded, values)

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	return Row{
		Index:   index,
		Header:  header,
		Values:  padded,
		columns: columns,
	}
}

// Get returns the raw value of column and whether the column exists.
func (r Row) Get(column string) (string, bool) {
	idx, ok := r.columns[column]
	if !ok {
		return "", false
	}
	return r.Values[idx], true
}

// With returns a copy of r with column set to value. Unknown columns are ignored.
func (r Row) With(column, value string) Row {
	idx, ok := r.columns[column]
	if !ok {
		return r
	}
	values := make([]string, len(r.Values))
	copy(values, r.Values)
	values[idx] = value
	return Row{
		Index:   r.Index,
		Header:  r.Header,
		Values:  values,
		columns: r.columns,
	}
}

// ReasonCode tags why a row was rejected.
type ReasonCode string

const (
	ReasonNullField    ReasonCode = "null_field"
	ReasonPhoneInvalid ReasonCode = "phone_invalid"
)

// ValidationOutcome is either Good (Reason empty, Row cleaned) or Bad (Row original).
type ValidationOutcome struct {
	Row    Row
	Reason ReasonCode
}

// Good wraps a cleaned row.
func Good(row Row) ValidationOutcome {
	return ValidationOutcome{Row: row}
}

// Bad wraps an original row with the reason it was rejected.
func Bad(row Row, reason ReasonCode) ValidationOutcome {
	return ValidationOutcome{Row: row, Reason: reason}
}

// IsGood reports whether the row passed every check.
func (o ValidationOutcome) IsGood() bool {
	return o.Reason == ""
}

// RowIssue pairs a rejected row position with its reason.
type RowIssue struct {
	RowNumber int        `json:"row_number"`
	Reason    ReasonCode `json:"reason"`
}

// OutputArtifactSet describes the files written for one validated input.
type OutputArtifactSet struct {
	Source       string     `json:"source"`
	CleanPath    string     `json:"clean_path"`
	BadPath      string     `json:"bad_path"`
	MetadataPath string     `json:"metadata_path"`
	GoodRows     int        `json:"good_rows"`
	BadRows      int        `json:"bad_rows"`
	Issues       []RowIssue `json:"issues"`
}

// TotalRows is the number of data rows read from the source.
func (a OutputArtifactSet) TotalRows() int {
	return a.GoodRows + a.BadRows
}
