package engine

// Record is one row of the long-format resident table.
type Record struct {
	Year     int    `json:"year"`
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Table holds an immutable snapshot in Struct-of-Arrays format.
// Category labels are dictionary encoded.
type Table struct {
	// Data columns, one entry per row
	years       []int
	counts      []int64
	categoryIDs []int32

	// Dictionary (ID -> label) and its reverse
	categoryDict  []string
	categoryIndex map[string]int32
}

type cellKey struct {
	year int
	id   int32
}

// tableBuilder appends rows while enforcing the one-record-per-cell rule.
type tableBuilder struct {
	t    *Table
	seen map[cellKey]struct{}
}

func newTableBuilder(sizeHint int) *tableBuilder {
	return &tableBuilder{
		t: &Table{
			years:         make([]int, 0, sizeHint),
			counts:        make([]int64, 0, sizeHint),
			categoryIDs:   make([]int32, 0, sizeHint),
			categoryIndex: make(map[string]int32),
		},
		seen: make(map[cellKey]struct{}, sizeHint),
	}
}

func (b *tableBuilder) add(year int, label string, count int64) error {
	id, ok := b.t.categoryIndex[label]
	if !ok {
		id = int32(len(b.t.categoryDict))
		b.t.categoryDict = append(b.t.categoryDict, label)
		b.t.categoryIndex[label] = id
	}

	key := cellKey{year: year, id: id}
	if _, dup := b.seen[key]; dup {
		return &DuplicateRecordError{Year: year, Category: label}
	}
	b.seen[key] = struct{}{}

	b.t.years = append(b.t.years, year)
	b.t.counts = append(b.t.counts, count)
	b.t.categoryIDs = append(b.t.categoryIDs, id)
	return nil
}

// NewTable builds a snapshot from in-memory records.
func NewTable(records []Record) (*Table, error) {
	b := newTableBuilder(len(records))
	for i, r := range records {
		if r.Count < 0 {
			return nil, &ParseError{Line: i + 1, Column: ColumnCount, Value: formatInt(r.Count), Err: errNegativeCount}
		}
		if err := b.add(r.Year, r.Category, r.Count); err != nil {
			return nil, err
		}
	}
	return b.t, nil
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.years)
}

// Record returns row i.
func (t *Table) Record(i int) Record {
	return Record{Year: t.years[i], Category: t.categoryDict[t.categoryIDs[i]], Count: t.counts[i]}
}

// Records returns a copy of rows [offset, offset+limit), clamped to the table.
func (t *Table) Records(offset, limit int) []Record {
	n := t.Len()
	if offset < 0 {
		offset = 0
	}
	if offset >= n || limit <= 0 {
		return []Record{}
	}
	end := offset + limit
	if end > n {
		end = n
	}
	out := make([]Record, 0, end-offset)
	for i := offset; i < end; i++ {
		out = append(out, t.Record(i))
	}
	return out
}

// Categories returns the distinct labels in first-seen order.
func (t *Table) Categories() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.categoryDict))
	copy(out, t.categoryDict)
	return out
}

// YearRange returns the smallest and largest year. ok is false for an empty table.
func (t *Table) YearRange() (first, last int, ok bool) {
	if t.Len() == 0 {
		return 0, 0, false
	}
	first, last = t.years[0], t.years[0]
	for _, y := range t.years[1:] {
		if y < first {
			first = y
		}
		if y > last {
			last = y
		}
	}
	return first, last, true
}

// lookup resolves a category to its dictionary ID.
func (t *Table) lookup(c Category) (int32, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.categoryIndex[c.Label()]
	return id, ok
}
