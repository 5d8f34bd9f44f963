package report

import "github.com/KirkDiggler/rpg-loot/internal/entities/loot"

// Report is the display form of a tier: every table with resolved labels and
// drop chances, plus everything that could not be resolved.
type Report struct {
	Tier     string    `json:"tier" yaml:"tier"`
	Label    string    `json:"label" yaml:"label"`
	Sections []Section `json:"sections" yaml:"sections"`
	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Section is one loot table. Rows of nested tables follow the row that
// references them, with a greater Depth.
type Section struct {
	Name      string  `json:"name" yaml:"name"`
	WeightSum float64 `json:"weight_sum" yaml:"weight_sum"`
	Rows      []Row   `json:"rows" yaml:"rows"`
}

// Row is one entry of a table
type Row struct {
	Weight float64 `json:"weight" yaml:"weight"`
	// Chance is the percentage within the row's own table
	Chance float64 `json:"chance" yaml:"chance"`
	// Effective is the percentage of reaching this row from the top table
	Effective float64      `json:"effective" yaml:"effective"`
	Label     string       `json:"label" yaml:"label"`
	Variant   loot.Variant `json:"variant" yaml:"variant"`
	Path      string       `json:"path,omitempty" yaml:"path,omitempty"`
	Depth     int          `json:"depth,omitempty" yaml:"depth,omitempty"`
	// Cycle marks a nested table already being expanded higher up the chain
	Cycle      bool `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Unresolved bool `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// Failure is a file or row that could not be resolved
type Failure struct {
	Table  string `json:"table" yaml:"table"`
	Target string `json:"target" yaml:"target"`
	Error  string `json:"error" yaml:"error"`
}
