// Package extraction derives structured case and person data from the raw
// conversation transcript and uploaded documents. Everything here is a pure
// function of its inputs: extraction never fails, it only leaves fields
// unset, which feeds the confidence scoring and the clarifying questions.
package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"legalintake-backend/models"
)

// maxTranscriptMessages bounds the number of most recent messages considered
// per recompute, keeping the per-turn extraction cost constant for long
// conversations.
const maxTranscriptMessages = 50

const (
	problemStatementMinLen = 50
	problemStatementMaxLen = 500
	documentPreviewLen     = 200
	maxSuggestedQuestions  = 2
)

// Fixed presence-based confidence constants
const (
	confLegalAreaPresent   = 0.8
	confPartiesComplete    = 0.7
	confPartiesPartial     = 0.3
	confTimelinePresent    = 0.6
	confProblemPresent     = 0.7
	confDeadlinesPresent   = 0.8
)

// Result is the outcome of one full extraction pass
type Result struct {
	Data               models.ExtractedCaseData
	Confidence         models.ExtractionConfidence
	MissingFields      []string
	SuggestedQuestions []string
}

// CaseExtractor turns a transcript plus documents into ExtractedCaseData.
// It is stateless and safe for concurrent use.
type CaseExtractor struct {
	datePattern        *regexp.Regexp
	firstPersonPattern *regexp.Regexp
	defendantPatterns  []*regexp.Regexp
	deadlinePatterns   []*regexp.Regexp
	disputeValuePattern *regexp.Regexp
}

// NewCaseExtractor compiles the extraction patterns once
func NewCaseExtractor() *CaseExtractor {
	return &CaseExtractor{
		datePattern:        regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`),
		firstPersonPattern: regexp.MustCompile(`(?:^|[^a-zäöüß])(ich|mir|mich|mein|meine|meinem|meinen|meiner)(?:$|[^a-zäöüß])`),
		defendantPatterns: []*regexp.Regexp{
			// explicit relationship nouns
			regexp.MustCompile(`(vermieter(?:in)?|arbeitgeber(?:in)?|nachbar(?:in)?|chef(?:in)?|ex-mann|ex-frau|verkäufer(?:in)?|versicherung)`),
			// organizational nouns with a name
			regexp.MustCompile(`(?:firma|unternehmen|gesellschaft)\s+([a-zäöüß0-9&.-]+)`),
			// explicit "gegen X"
			regexp.MustCompile(`gegen\s+(?:die\s+|den\s+|das\s+)?([a-zäöüß0-9&.-]+)`),
		},
		deadlinePatterns: []*regexp.Regexp{
			regexp.MustCompile(`frist[^.]{0,80}?(\d{2}\.\d{2}\.\d{4})`),
			regexp.MustCompile(`bis\s+(?:zum\s+)?(\d{2}\.\d{2}\.\d{4})[^.]{0,80}?muss`),
			regexp.MustCompile(`(?:einspruch|widerspruch|antwort)\s+bis\s+(?:zum\s+)?(\d{2}\.\d{2}\.\d{4})`),
		},
		disputeValuePattern: regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)\s*(?:€|euro)`),
	}
}

// Extract recomputes the structured case data from scratch. Only user turns
// contribute conversation text; documents contribute their extracted text.
func (e *CaseExtractor) Extract(messages []models.Message, documents []models.Document) Result {
	messages = capMessages(messages)

	userTexts := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Role == models.RoleUser {
			userTexts = append(userTexts, m.Content)
		}
	}

	docTexts := make([]string, 0, len(documents))
	for _, d := range documents {
		if d.ExtractedText != nil {
			docTexts = append(docTexts, *d.ExtractedText)
		}
	}

	corpus := strings.ToLower(strings.Join(userTexts, " ") + " " + strings.Join(docTexts, " "))

	data := models.ExtractedCaseData{
		LegalArea:        e.classifyLegalArea(corpus),
		Parties:          e.extractParties(corpus),
		ContractType:     e.detectContractType(corpus),
		Timeline:         e.extractTimeline(userTexts, documents),
		ProblemStatement: e.buildProblemStatement(userTexts),
		Documents:        summarizeDocuments(documents),
		DisputeValue:     e.extractDisputeValue(corpus),
		UrgencyLevel:     e.detectUrgency(corpus),
		Deadlines:        e.extractDeadlines(corpus),
	}

	confidence := scoreConfidence(data)
	missing := missingFields(data)
	questions := suggestQuestions(missing)

	return Result{
		Data:               data,
		Confidence:         confidence,
		MissingFields:      missing,
		SuggestedQuestions: questions,
	}
}

func capMessages(messages []models.Message) []models.Message {
	if len(messages) > maxTranscriptMessages {
		return messages[len(messages)-maxTranscriptMessages:]
	}
	return messages
}

// classifyLegalArea counts keyword hits per area and picks the highest
// scoring one. At least minAreaScore distinct keywords must match; ties go
// to the first area in lexicon order.
func (e *CaseExtractor) classifyLegalArea(corpus string) string {
	bestArea := ""
	bestScore := 0

	for _, lex := range legalAreaLexicons {
		score := 0
		for _, kw := range lex.Keywords {
			if strings.Contains(corpus, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestArea = lex.Area
		}
	}

	if bestScore < minAreaScore {
		return ""
	}
	return bestArea
}

func (e *CaseExtractor) extractParties(corpus string) models.Parties {
	parties := models.Parties{}

	if e.firstPersonPattern.MatchString(corpus) {
		parties.Claimant = "Mandant/in"
	}

	for _, pattern := range e.defendantPatterns {
		if m := pattern.FindStringSubmatch(corpus); m != nil {
			parties.Defendant = capitalizeWords(m[1])
			break
		}
	}

	return parties
}

func (e *CaseExtractor) detectContractType(corpus string) string {
	for _, ct := range contractTypeKeywords {
		if strings.Contains(corpus, ct.Keyword) {
			return ct.Type
		}
	}
	return ""
}

// extractTimeline collects DD.MM.YYYY tokens. Message hits keep their
// surrounding text as the event description; document hits use only the
// first date per document and reference the document instead.
func (e *CaseExtractor) extractTimeline(userTexts []string, documents []models.Document) []models.TimelineEvent {
	var events []models.TimelineEvent

	for _, text := range userTexts {
		for _, loc := range e.datePattern.FindAllStringIndex(text, -1) {
			start := loc[0] - 50
			if start < 0 {
				start = 0
			}
			for start > 0 && !utf8.RuneStart(text[start]) {
				start--
			}
			end := loc[1] + 100
			if end > len(text) {
				end = len(text)
			}
			for end < len(text) && !utf8.RuneStart(text[end]) {
				end++
			}
			events = append(events, models.TimelineEvent{
				Date:  text[loc[0]:loc[1]],
				Event: strings.TrimSpace(text[start:end]),
			})
		}
	}

	for _, doc := range documents {
		if doc.ExtractedText == nil {
			continue
		}
		date := e.datePattern.FindString(*doc.ExtractedText)
		if date == "" {
			continue
		}
		docID := doc.ID
		events = append(events, models.TimelineEvent{
			Date:        date,
			Event:       "Datum aus Dokument " + doc.Filename,
			DocumentRef: &docID,
		})
	}

	return events
}

func (e *CaseExtractor) buildProblemStatement(userTexts []string) string {
	if len(userTexts) == 0 {
		return ""
	}

	if len(userTexts[0]) > problemStatementMinLen {
		return truncate(userTexts[0], problemStatementMaxLen)
	}

	n := len(userTexts)
	if n > 3 {
		n = 3
	}
	return truncate(strings.Join(userTexts[:n], " "), problemStatementMaxLen)
}

func (e *CaseExtractor) detectUrgency(corpus string) models.UrgencyLevel {
	for _, tier := range urgencyTiers {
		for _, kw := range tier.Keywords {
			if strings.Contains(corpus, kw) {
				return models.UrgencyLevel(tier.Level)
			}
		}
	}
	return models.UrgencyLow
}

// extractDeadlines scans the whole corpus with every deadline pattern.
// The critical flag is corpus-wide: any occurrence of "frist" or
// "einspruch" marks all deadlines critical.
func (e *CaseExtractor) extractDeadlines(corpus string) []models.Deadline {
	critical := strings.Contains(corpus, "frist") || strings.Contains(corpus, "einspruch")

	var deadlines []models.Deadline
	for _, pattern := range e.deadlinePatterns {
		for _, m := range pattern.FindAllStringSubmatch(corpus, -1) {
			deadlines = append(deadlines, models.Deadline{
				Date:        m[1],
				Description: strings.TrimSpace(m[0]),
				Critical:    critical,
			})
		}
	}

	return deadlines
}

func (e *CaseExtractor) extractDisputeValue(corpus string) *models.DisputeValue {
	m := e.disputeValuePattern.FindStringSubmatch(corpus)
	if m == nil {
		return nil
	}

	var amount float64
	if _, err := fmt.Sscanf(strings.ReplaceAll(m[1], ",", "."), "%f", &amount); err != nil {
		return nil
	}

	return &models.DisputeValue{Amount: amount, Currency: "EUR", Estimated: true}
}

func summarizeDocuments(documents []models.Document) []models.DocumentSummary {
	if len(documents) == 0 {
		return nil
	}

	summaries := make([]models.DocumentSummary, 0, len(documents))
	for _, doc := range documents {
		s := models.DocumentSummary{ID: doc.ID, Name: doc.Filename}
		if doc.ExtractedText != nil {
			s.TextPreview = truncate(*doc.ExtractedText, documentPreviewLen)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func scoreConfidence(data models.ExtractedCaseData) models.ExtractionConfidence {
	c := models.ExtractionConfidence{}

	if data.LegalArea != "" {
		c.LegalArea = confLegalAreaPresent
	}
	if data.Parties.Claimant != "" && data.Parties.Defendant != "" {
		c.Parties = confPartiesComplete
	} else {
		c.Parties = confPartiesPartial
	}
	if len(data.Timeline) > 0 {
		c.Timeline = confTimelinePresent
	}
	if data.ProblemStatement != "" {
		c.ProblemStatement = confProblemPresent
	}
	if len(data.Deadlines) > 0 {
		c.Deadlines = confDeadlinesPresent
	}

	c.Overall = (c.LegalArea + c.Parties + c.Timeline + c.ProblemStatement + c.Deadlines) / 5
	return c
}

func missingFields(data models.ExtractedCaseData) []string {
	var missing []string
	for _, field := range missingFieldOrder {
		switch field {
		case fieldLegalArea:
			if data.LegalArea == "" {
				missing = append(missing, field)
			}
		case fieldParties:
			if data.Parties.Claimant == "" || data.Parties.Defendant == "" {
				missing = append(missing, field)
			}
		case fieldTimeline:
			if len(data.Timeline) == 0 {
				missing = append(missing, field)
			}
		case fieldProblemStatement:
			if data.ProblemStatement == "" {
				missing = append(missing, field)
			}
		case fieldDeadlines:
			if len(data.Deadlines) == 0 {
				missing = append(missing, field)
			}
		}
	}
	return missing
}

func suggestQuestions(missing []string) []string {
	var questions []string
	for _, field := range missing {
		if q, ok := clarifyingQuestions[field]; ok {
			questions = append(questions, q)
		}
		if len(questions) == maxSuggestedQuestions {
			break
		}
	}
	return questions
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
