package models

// Skip stages for import reporting.
const (
	StageNormalize = "normalize"
	StageValidate  = "validate"
	StageDuplicate = "duplicate"
	StagePersist   = "persist"
)

// SkipReason records why a single spreadsheet row was not imported.
type SkipReason struct {
	Row            int    `json:"row"`
	AadharNo       string `json:"aadhar_no"`
	Stage          string `json:"stage"`
	Reason         string `json:"reason"`
	ExistingSurety string `json:"existing_surety,omitempty"`
}

// ImportOutcome is the per-call report of a best-effort import. It is never
// persisted; saved + skipped always equals total_rows.
type ImportOutcome struct {
	TotalRows int          `json:"total_rows"`
	Saved     int          `json:"saved"`
	Skipped   int          `json:"skipped"`
	Skips     []SkipReason `json:"skips"`
}

// Duplicates filters the skip list down to duplicate conflicts, in row order.
func (o *ImportOutcome) Duplicates() []SkipReason {
	var dups []SkipReason
	for _, s := range o.Skips {
		if s.Stage == StageDuplicate {
			dups = append(dups, s)
		}
	}
	return dups
}

// Message summarizes the outcome the way operators expect to read it.
func (o *ImportOutcome) Message() string {
	switch {
	case o.Skipped > 0 && o.Saved > 0:
		return "Some records were imported; some rows were skipped"
	case o.Skipped > 0 && o.Saved == 0:
		return "No new records were imported; all rows were skipped"
	default:
		return "Import completed successfully"
	}
}
