package loot

// NamedTable is one decoded description file of a tier.
type NamedTable struct {
	Name    string
	Locator string
	Table   Table
}

// Failure records a file or entry that could not be resolved when running in
// best-effort mode.
type Failure struct {
	// Table is the description file the failure belongs to
	Table string
	// Locator or asset path that failed
	Target string
	Err    error
}

// TierReport holds every table of a tier in listing order.
type TierReport struct {
	Tier     string
	Label    string
	Tables   []NamedTable
	Failures []Failure
}

// Lookup returns the table with the given name.
func (r *TierReport) Lookup(name string) (Table, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t.Table, true
		}
	}
	return Table{}, false
}
