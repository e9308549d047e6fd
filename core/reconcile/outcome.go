package reconcile

import "fmt"

// Outcome summarizes an import run.
type Outcome struct {
	RunID      string   `json:"run_id"`
	Entity     string   `json:"entity"`
	Tab        string   `json:"tab,omitempty"`
	Success    bool     `json:"success"`
	Imported   int      `json:"imported"`
	Updated    int      `json:"updated"`
	Duplicates []string `json:"duplicates"`
	Errors     []string `json:"errors"`

	dupSeen map[string]bool
}

func newOutcome(runID string, entity Entity) *Outcome {
	return &Outcome{
		RunID:      runID,
		Entity:     entity.String(),
		Duplicates: make([]string, 0),
		Errors:     make([]string, 0),
		dupSeen:    make(map[string]bool),
	}
}

func (o *Outcome) addError(format string, args ...interface{}) {
	o.Errors = append(o.Errors, fmt.Sprintf(format, args...))
}

func (o *Outcome) addRowError(rowNum int, err error) {
	o.addError("Row %d: %s", rowNum, err.Error())
}

// addDuplicate records each duplicated email once.
func (o *Outcome) addDuplicate(email string) {
	if !o.dupSeen[email] {
		o.dupSeen[email] = true
		o.Duplicates = append(o.Duplicates, email)
	}
}

func (o *Outcome) done() Outcome {
	o.Success = len(o.Errors) == 0 && len(o.Duplicates) == 0
	o.dupSeen = nil
	return *o
}

// HasDuplicates reports whether the run rejected rows for duplicated emails.
func (o Outcome) HasDuplicates() bool {
	return len(o.Duplicates) > 0
}
