package model

// FindTable resolves a guest's weak table reference. An empty id or one
// pointing at a removed table reports false; removing a table never clears
// the guests that referenced it.
func FindTable(tables []Table, id string) (Table, bool) {
	if id == "" {
		return Table{}, false
	}
	for _, t := range tables {
		if t.ID == id {
			return t, true
		}
	}
	return Table{}, false
}

// TableName returns the name of the guest's table, or "-" when the guest is
// unseated or seated at a table that no longer exists.
func TableName(tables []Table, g Guest) string {
	if t, ok := FindTable(tables, g.TableID); ok {
		return t.Name
	}
	return "-"
}
