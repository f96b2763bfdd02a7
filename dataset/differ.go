package dataset

// NewData returns the rows of newTable whose Key does not occur in oldTable,
// in newTable order. Neither input is modified; a nil oldTable counts as empty.
func NewData(newTable, oldTable *Table) *Table {
	delta := &Table{}
	if newTable == nil {
		return delta
	}
	delta.Source = newTable.Source
	delta.Columns = newTable.Columns

	known := make(map[string]struct{}, oldTable.Len())
	if oldTable != nil {
		for _, r := range oldTable.Rows {
			known[r.Key()] = struct{}{}
		}
	}
	for _, r := range newTable.Rows {
		if _, ok := known[r.Key()]; ok {
			continue
		}
		delta.Rows = append(delta.Rows, r)
	}
	return delta
}
