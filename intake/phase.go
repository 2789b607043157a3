package intake

// Phase is one of the seven ordered intake stages. The zero value is
// reserved for "no state yet".
type Phase int

const (
	PhaseFreeText Phase = iota + 1
	PhaseAutomaticExtraction
	PhaseTargetedQuestions
	PhaseDeadlinesUrgency
	PhaseCaseFileGeneration
	PhasePersonData
	PhaseConsent
)

var phaseNames = map[Phase]string{
	PhaseFreeText:            "free_text",
	PhaseAutomaticExtraction: "automatic_extraction",
	PhaseTargetedQuestions:   "targeted_questions",
	PhaseDeadlinesUrgency:    "deadlines_urgency",
	PhaseCaseFileGeneration:  "case_file_generation",
	PhasePersonData:          "person_data",
	PhaseConsent:             "consent",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}
