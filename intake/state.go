package intake

import (
	"database/sql/driver"
	"encoding/json"
)

// State is the per-conversation intake progression record. It is created on
// the first turn, mutated in place by the machine on every turn, and
// persisted as JSONB on the conversation row. The phase is monotonic
// non-decreasing except for the single regression edge from
// case-file generation back to targeted questions.
type State struct {
	Phase               Phase    `json:"phase"`
	IntakeComplete      bool     `json:"intake_complete"`
	PersonDataRequested bool     `json:"person_data_requested"`
	ConsentGiven        bool     `json:"consent_given"`
	DeadlinesAsked      bool     `json:"deadlines_asked"`
	QuestionsAsked      []string `json:"questions_asked"`
}

// NewState returns the initial state for a fresh conversation
func NewState() *State {
	return &State{
		Phase:          PhaseFreeText,
		QuestionsAsked: []string{},
	}
}

// HasAsked reports whether a clarifying question was already posed
func (s *State) HasAsked(question string) bool {
	for _, q := range s.QuestionsAsked {
		if q == question {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer for JSONB
func (s State) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *State) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, s)
}
