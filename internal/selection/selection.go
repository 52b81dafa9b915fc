// Package selection tracks which project, if any, is open in the detail
// dialog.
package selection

import "github.com/Dev-Dhanush-hub/portfolio/internal/catalog"

// State is either empty or showing exactly one record. The zero value is
// empty. The dialog is visible iff Showing reports true.
type State struct {
	record  catalog.Record
	showing bool
}

// Select shows r, replacing any record already shown. Callers pass catalog
// records only.
func (s *State) Select(r catalog.Record) {
	s.record = r
	s.showing = true
}

// Clear closes the dialog.
func (s *State) Clear() {
	s.record = catalog.Record{}
	s.showing = false
}

func (s *State) Current() (catalog.Record, bool) {
	return s.record, s.showing
}

func (s *State) Showing() bool {
	return s.showing
}
