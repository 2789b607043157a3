// Package intake implements the seven-phase conversation state machine that
// steers a legal intake chat from free narration to consented data capture.
// The machine never returns an error: missing signals simply keep the
// conversation in its current phase until the user supplies them.
package intake

import (
	"regexp"
	"strings"

	"legalintake-backend/extraction"
)

// Confidence threshold below which clarifying questions keep being asked
const confidenceThreshold = 0.6

// After this many assistant turns the intake completes regardless of
// confidence, so a vague conversation still reaches the summary.
const maxAssistantTurns = 6

const maxQuestionsPerTurn = 2

// Fixed German keyword lists. All matching is plain substring containment
// on the lower-cased last user message.
var (
	forwardIntentKeywords = []string{
		"ja", "gerne", "weiterleiten", "einverstanden", "an einen anwalt",
	}
	consentIntentKeywords = []string{
		"einverstanden", "einwilligung", "stimme zu", "ja",
	}
	consentPositiveKeywords = []string{
		"ja", "einverstanden", "stimme zu", "in ordnung", "okay", "willige ein",
	}
	consentNegativeKeywords = []string{
		"nein", "nicht einverstanden", "keine zustimmung", "lehne ab",
		"widerspreche", "auf keinen fall",
	}
)

// Canned German instructions appended to the completion-service prompt
const (
	instrListen = "Der Mandant befindet sich noch in der freien Schilderung. " +
		"Hören Sie aufmerksam zu, stellen Sie noch keine gezielten Fragen und " +
		"ermutigen Sie den Mandanten, weiter zu erzählen."
	instrDeadlines = "Stellen Sie jetzt genau diese beiden Fragen: " +
		"1. Gibt es laufende Fristen, Termine oder Schreiben, auf die reagiert werden muss? " +
		"2. Wie dringend ist das Anliegen aus Ihrer Sicht?"
	instrForward = "Fragen Sie den Mandanten, ob der Fall an eine Anwältin oder " +
		"einen Anwalt weitergeleitet werden soll."
	instrPersonData = "Bitten Sie den Mandanten um seine Kontaktdaten: " +
		"vollständiger Name und E-Mail-Adresse, optional Telefonnummer."
	instrConsent = "Bitten Sie den Mandanten um seine ausdrückliche Einwilligung, " +
		"dass seine Angaben gespeichert und an eine Kanzlei weitergegeben werden dürfen."
	instrConsentThanks = "Bedanken Sie sich für die Einwilligung und bestätigen Sie, " +
		"dass der Fall nun weitergeleitet wird."
	instrConsentDeclined = "Der Mandant hat die Einwilligung abgelehnt. Bestätigen Sie " +
		"höflich, dass keine Daten gespeichert werden und das Gespräch damit beendet ist. " +
		"Für ein neues Anliegen kann der Mandant jederzeit ein neues Gespräch beginnen."
)

// Result is the outcome of one machine update
type Result struct {
	Instruction            string
	ResponseSuggestion     string
	ShouldCreateCase       bool
	ShouldAskForPersonData bool
	ShouldAskForConsent    bool
	ConsentDeclined        bool
}

// Machine advances intake states. It is stateless and safe for concurrent
// use; all per-conversation data lives in State.
type Machine struct {
	emailPattern *regexp.Regexp
	namePattern  *regexp.Regexp
}

// NewMachine creates a state machine with compiled person-data heuristics
func NewMachine() *Machine {
	return &Machine{
		emailPattern: regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		namePattern:  regexp.MustCompile(`[A-ZÄÖÜ][a-zäöüß]+\s+[A-ZÄÖÜ][a-zäöüß]+`),
	}
}

// Update advances the state given the freshly recomputed extraction and the
// last user message. Unconditional edges chain within a single update, so a
// turn can pass through automatic extraction straight into the phase that
// actually produces an instruction.
func (m *Machine) Update(state *State, ex extraction.Result, lastUserMessage string, userTurns, assistantTurns int) Result {
	res := Result{}
	msg := strings.ToLower(lastUserMessage)

	switch state.Phase {
	case PhaseFreeText:
		if userTurns < 2 {
			res.Instruction = instrListen
			break
		}
		state.Phase = PhaseAutomaticExtraction
		m.routeAfterExtraction(state, ex, msg, assistantTurns, &res)

	case PhaseAutomaticExtraction:
		m.routeAfterExtraction(state, ex, msg, assistantTurns, &res)

	case PhaseTargetedQuestions:
		m.handleTargetedQuestions(state, ex, msg, assistantTurns, &res)

	case PhaseDeadlinesUrgency:
		m.handleDeadlinesUrgency(state, ex, msg, assistantTurns, &res)

	case PhaseCaseFileGeneration:
		m.handleCaseFileGeneration(state, ex, msg, assistantTurns, &res)

	case PhasePersonData:
		m.handlePersonData(state, lastUserMessage, msg, &res)

	case PhaseConsent:
		m.handleConsent(state, msg, &res)
	}

	// Consent-then-completion ordering is irrelevant: a state that carries
	// both flags from prior turns gates case creation open.
	if state.IntakeComplete && state.ConsentGiven {
		res.ShouldCreateCase = true
	}

	return res
}

// routeAfterExtraction decides where the automatic-extraction phase goes:
// clarify missing fields, ask about deadlines, or generate the case file.
func (m *Machine) routeAfterExtraction(state *State, ex extraction.Result, msg string, assistantTurns int, res *Result) {
	switch {
	case len(ex.MissingFields) > 0:
		state.Phase = PhaseTargetedQuestions
		m.handleTargetedQuestions(state, ex, msg, assistantTurns, res)
	case !state.DeadlinesAsked:
		state.Phase = PhaseDeadlinesUrgency
		m.handleDeadlinesUrgency(state, ex, msg, assistantTurns, res)
	default:
		state.Phase = PhaseCaseFileGeneration
		m.handleCaseFileGeneration(state, ex, msg, assistantTurns, res)
	}
}

// emitUnaskedQuestions poses up to two not-yet-asked clarifying questions,
// recording each so it is never asked twice. Returns false when every
// suggested question has already been posed.
func emitUnaskedQuestions(state *State, ex extraction.Result, res *Result) bool {
	var unasked []string
	for _, q := range ex.SuggestedQuestions {
		if !state.HasAsked(q) {
			unasked = append(unasked, q)
		}
	}
	if len(unasked) == 0 {
		return false
	}

	if len(unasked) > maxQuestionsPerTurn {
		unasked = unasked[:maxQuestionsPerTurn]
	}
	state.QuestionsAsked = append(state.QuestionsAsked, unasked...)
	res.Instruction = "Stellen Sie dem Mandanten die folgenden Rückfragen: " +
		strings.Join(unasked, " ")
	return true
}

// handleTargetedQuestions emits clarifying questions while confidence is
// low and otherwise advances.
func (m *Machine) handleTargetedQuestions(state *State, ex extraction.Result, msg string, assistantTurns int, res *Result) {
	if ex.Confidence.Overall < confidenceThreshold && emitUnaskedQuestions(state, ex, res) {
		return
	}

	if !state.DeadlinesAsked {
		state.Phase = PhaseDeadlinesUrgency
		m.handleDeadlinesUrgency(state, ex, msg, assistantTurns, res)
		return
	}

	state.Phase = PhaseCaseFileGeneration
	m.handleCaseFileGeneration(state, ex, msg, assistantTurns, res)
}

// handleDeadlinesUrgency asks the two mandatory deadline questions exactly
// once; on the following turn it advances unconditionally.
func (m *Machine) handleDeadlinesUrgency(state *State, ex extraction.Result, msg string, assistantTurns int, res *Result) {
	if !state.DeadlinesAsked {
		state.DeadlinesAsked = true
		res.Instruction = instrDeadlines
		return
	}

	state.Phase = PhaseCaseFileGeneration
	m.handleCaseFileGeneration(state, ex, msg, assistantTurns, res)
}

// handleCaseFileGeneration completes the intake once confidence suffices or
// the turn budget is exhausted; with insufficient confidence below the turn
// budget it regresses to targeted questions, the machine's only backward
// edge.
func (m *Machine) handleCaseFileGeneration(state *State, ex extraction.Result, msg string, assistantTurns int, res *Result) {
	if ex.Confidence.Overall < confidenceThreshold && assistantTurns < maxAssistantTurns {
		// The machine's only backward edge. No recursion here: with every
		// suggested question already asked the turn just probes for more
		// detail, and the next turn re-enters targeted questions normally.
		state.Phase = PhaseTargetedQuestions
		if !emitUnaskedQuestions(state, ex, res) {
			res.Instruction = "Bitten Sie den Mandanten um weitere Einzelheiten zu seinem Anliegen."
		}
		return
	}

	if !state.IntakeComplete {
		state.IntakeComplete = true
		res.ResponseSuggestion = extraction.BuildCaseSummary(ex.Data)
	}

	if containsAny(msg, forwardIntentKeywords) {
		state.Phase = PhasePersonData
		state.PersonDataRequested = true
		res.ShouldAskForPersonData = true
		res.Instruction = instrPersonData
		return
	}

	res.Instruction = instrForward
}

// handlePersonData waits for the user either to agree to hand over contact
// data or to simply send it; both roads lead to the consent phase.
func (m *Machine) handlePersonData(state *State, lastUserMessage, msg string, res *Result) {
	state.PersonDataRequested = true

	if containsAny(msg, consentIntentKeywords) {
		state.Phase = PhaseConsent
		res.ShouldAskForConsent = true
		res.Instruction = instrConsent
		return
	}

	if m.looksLikePersonData(lastUserMessage) {
		state.Phase = PhaseConsent
		res.Instruction = instrConsent
		return
	}

	res.ShouldAskForPersonData = true
	res.Instruction = instrPersonData
}

// handleConsent records the consent decision. A message matching both the
// positive and the negative lexicon counts as a refusal.
func (m *Machine) handleConsent(state *State, msg string, res *Result) {
	positive := containsAny(msg, consentPositiveKeywords)
	negative := containsAny(msg, consentNegativeKeywords)

	switch {
	case positive && !negative:
		state.ConsentGiven = true
		res.ShouldCreateCase = true
		res.Instruction = instrConsentThanks
	case negative:
		state.ConsentGiven = false
		res.ConsentDeclined = true
		res.Instruction = instrConsentDeclined
	default:
		res.ShouldAskForConsent = true
		res.Instruction = instrConsent
	}
}

// looksLikePersonData checks whether a message already carries contact
// data: an email address or two adjacent capitalized words.
func (m *Machine) looksLikePersonData(message string) bool {
	return m.emailPattern.MatchString(message) || m.namePattern.MatchString(message)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
