package profiler

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// ID references one row of the Table that issued it.
type ID struct {
	Index int
}

func (id ID) String() string {
	return fmt.Sprintf("#%d", id.Index)
}

// Row holds the cost of every completed call of one call site, in completion order.
type Row struct {
	CPUPerCall []float64 `json:"cpu_per_call"`
}

func (r Row) clone() Row {
	return Row{CPUPerCall: append(make([]float64, 0, len(r.CPUPerCall)), r.CPUPerCall...)}
}

// Table maps IDs to a label and a row of samples. labels[i] and data[i] are
// addressed by ID{Index: i}.
//
// A Table is not safe for concurrent use; see Session.
type Table struct {
	labels []string
	data   []Row
}

func NewTable() *Table {
	return &Table{
		labels: []string{},
		data:   []Row{},
	}
}

// AddEntity appends a new empty row labeled name and returns its ID.
// It never deduplicates.
func (t *Table) AddEntity(name string) ID {
	id := ID{Index: len(t.data)}
	t.labels = append(t.labels, name)
	t.data = append(t.data, Row{CPUPerCall: []float64{}})

	return id
}

func (t *Table) Label(id ID) (string, bool) {
	if !t.contains(id) {
		return "", false
	}

	return t.labels[id.Index], true
}

// Data returns the row for id. The returned samples must not be modified.
func (t *Table) Data(id ID) (Row, bool) {
	if !t.contains(id) {
		return Row{}, false
	}

	return t.data[id.Index], true
}

// DataMut returns a pointer to the row for id, or nil if id is out of range.
func (t *Table) DataMut(id ID) *Row {
	if !t.contains(id) {
		return nil
	}

	return &t.data[id.Index]
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.data)
}

// Labels returns a copy of the labels, in ID order.
func (t *Table) Labels() []string {
	return append(make([]string, 0, len(t.labels)), t.labels...)
}

// Clear drops every row. IDs issued before are no longer found.
func (t *Table) Clear() {
	t.labels = []string{}
	t.data = []Row{}
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := &Table{
		labels: t.Labels(),
		data:   make([]Row, len(t.data)),
	}
	for i, row := range t.data {
		c.data[i] = row.clone()
	}

	return c
}

func (t *Table) contains(id ID) bool {
	return id.Index >= 0 && id.Index < len(t.data)
}

type tableJSON struct {
	Labels []string `json:"labels"`
	Data   []Row    `json:"data"`
}

func (t *Table) MarshalJSON() ([]byte, error) {
	raw := tableJSON{Labels: t.labels, Data: t.data}
	if raw.Labels == nil {
		raw.Labels = []string{}
	}
	if raw.Data == nil {
		raw.Data = []Row{}
	}

	return json.Marshal(raw)
}

func (t *Table) UnmarshalJSON(b []byte) error {
	var raw tableJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw.Labels) != len(raw.Data) {
		return errors.Wrapf(ErrLengthMismatch, "%d labels, %d rows", len(raw.Labels), len(raw.Data))
	}

	t.labels = raw.Labels
	if t.labels == nil {
		t.labels = []string{}
	}
	t.data = raw.Data
	if t.data == nil {
		t.data = []Row{}
	}
	for i := range t.data {
		if t.data[i].CPUPerCall == nil {
			t.data[i].CPUPerCall = []float64{}
		}
	}

	return nil
}
