package extraction

import (
	"strings"
	"testing"
	"unicode/utf8"

	"legalintake-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userMsg(content string) models.Message {
	return models.Message{ID: uuid.New(), Role: models.RoleUser, Content: content}
}

func assistantMsg(content string) models.Message {
	return models.Message{ID: uuid.New(), Role: models.RoleAssistant, Content: content}
}

func TestExtract_TenancyScenario(t *testing.T) {
	e := NewCaseExtractor()

	messages := []models.Message{
		userMsg("Mein Vermieter hat mir am 10.01.2024 die Kündigung für meine Wohnung geschickt. " +
			"Ich habe eine Frist bis zum 15.03.2024 für den Widerspruch."),
		assistantMsg("Das tut mir leid. Können Sie mir mehr dazu erzählen?"),
	}

	result := e.Extract(messages, nil)

	assert.Equal(t, "Mietrecht", result.Data.LegalArea)
	assert.Equal(t, "Mandant/in", result.Data.Parties.Claimant)
	assert.Equal(t, "Vermieter", result.Data.Parties.Defendant)
	assert.Equal(t, models.UrgencyLow, result.Data.UrgencyLevel)

	require.Len(t, result.Data.Deadlines, 1)
	assert.Equal(t, "15.03.2024", result.Data.Deadlines[0].Date)
	assert.True(t, result.Data.Deadlines[0].Critical)

	require.Len(t, result.Data.Timeline, 2)
	assert.Equal(t, "10.01.2024", result.Data.Timeline[0].Date)
	assert.Equal(t, "15.03.2024", result.Data.Timeline[1].Date)

	assert.NotEmpty(t, result.Data.ProblemStatement)
	assert.Empty(t, result.MissingFields)
	assert.Empty(t, result.SuggestedQuestions)
	assert.InDelta(t, 0.72, result.Confidence.Overall, 0.001)
}

func TestClassifyLegalArea_Threshold(t *testing.T) {
	e := NewCaseExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single keyword stays unclassified",
			text: "Ich habe eine Frage zur Miete.",
			want: "",
		},
		{
			name: "two keywords classify",
			text: "Mein Vermieter will die Kaution nicht zurückzahlen.",
			want: "Mietrecht",
		},
		{
			name: "one keyword per area stays unclassified",
			text: "Es geht um die Miete und um mein Gehalt.",
			want: "",
		},
		{
			name: "tie goes to the first area",
			text: "Es geht um Miete und Kaution, aber auch um Gehalt und Urlaub.",
			want: "Mietrecht",
		},
		{
			name: "employment law",
			text: "Mein Arbeitgeber hat mir eine Abmahnung geschickt, obwohl mein Arbeitsvertrag das erlaubt.",
			want: "Arbeitsrecht",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Extract([]models.Message{userMsg(tt.text)}, nil)
			assert.Equal(t, tt.want, result.Data.LegalArea)
		})
	}
}

func TestDetectUrgency(t *testing.T) {
	e := NewCaseExtractor()

	tests := []struct {
		text string
		want models.UrgencyLevel
	}{
		{"Ich brauche sofort Hilfe!", models.UrgencyHigh},
		{"Das sollte zeitnah geklärt werden.", models.UrgencyMedium},
		{"Keine Eile, ich wollte mich nur informieren.", models.UrgencyLow},
		{"Ich habe eine Frage zu meinem Vertrag.", models.UrgencyLow},
	}

	for _, tt := range tests {
		result := e.Extract([]models.Message{userMsg(tt.text)}, nil)
		assert.Equal(t, tt.want, result.Data.UrgencyLevel, "text: %s", tt.text)
	}
}

func TestExtract_DisputeValue(t *testing.T) {
	e := NewCaseExtractor()

	result := e.Extract([]models.Message{
		userMsg("Es geht um etwa 2500 Euro Schaden."),
	}, nil)

	require.NotNil(t, result.Data.DisputeValue)
	assert.Equal(t, 2500.0, result.Data.DisputeValue.Amount)
	assert.Equal(t, "EUR", result.Data.DisputeValue.Currency)
	assert.True(t, result.Data.DisputeValue.Estimated)
}

func TestExtract_DocumentTimeline(t *testing.T) {
	e := NewCaseExtractor()

	text := "Kündigung zum 31.05.2024. Weitere Details am 15.06.2024."
	doc := models.Document{
		ID:            uuid.New(),
		Filename:      "kuendigung.pdf",
		ExtractedText: &text,
	}

	result := e.Extract([]models.Message{userMsg("Ich habe das Schreiben hochgeladen.")}, []models.Document{doc})

	// Only the first date per document enters the timeline
	require.Len(t, result.Data.Timeline, 1)
	event := result.Data.Timeline[0]
	assert.Equal(t, "31.05.2024", event.Date)
	assert.Equal(t, "Datum aus Dokument kuendigung.pdf", event.Event)
	require.NotNil(t, event.DocumentRef)
	assert.Equal(t, doc.ID, *event.DocumentRef)

	require.Len(t, result.Data.Documents, 1)
	assert.Equal(t, "kuendigung.pdf", result.Data.Documents[0].Name)
}

func TestExtract_TimelineEventsStayValidUTF8(t *testing.T) {
	e := NewCaseExtractor()

	// Multibyte characters right at the context window edges must not be
	// split mid-rune.
	text := strings.Repeat("ä", 30) + " Kündigung kam am 01.03.2024, danach " +
		strings.Repeat("ö", 60) + " und am 15.04.2024 " + strings.Repeat("ü", 60)

	result := e.Extract([]models.Message{userMsg(text)}, nil)

	require.NotEmpty(t, result.Data.Timeline)
	for _, event := range result.Data.Timeline {
		assert.True(t, utf8.ValidString(event.Event), "event description is invalid UTF-8: %q", event.Event)
	}
}

func TestExtract_MissingFieldsAndQuestions(t *testing.T) {
	e := NewCaseExtractor()

	result := e.Extract([]models.Message{userMsg("Hallo")}, nil)

	// Everything is missing for a greeting except the problem statement,
	// which always holds the joined early messages.
	assert.Contains(t, result.MissingFields, "legal_area")
	assert.Contains(t, result.MissingFields, "parties")
	assert.Contains(t, result.MissingFields, "timeline")
	assert.Contains(t, result.MissingFields, "deadlines")

	// Questions are capped at two and follow the field priority order
	require.Len(t, result.SuggestedQuestions, 2)
	assert.Equal(t, clarifyingQuestions["legal_area"], result.SuggestedQuestions[0])
	assert.Equal(t, clarifyingQuestions["parties"], result.SuggestedQuestions[1])
}

func TestExtract_Deterministic(t *testing.T) {
	e := NewCaseExtractor()

	messages := []models.Message{
		userMsg("Mein Arbeitgeber zahlt mein Gehalt seit dem 01.02.2024 nicht. Frist bis zum 01.04.2024 gesetzt."),
	}

	first := e.Extract(messages, nil)
	second := e.Extract(messages, nil)

	assert.Equal(t, first, second)
}

func TestExtract_TranscriptCap(t *testing.T) {
	e := NewCaseExtractor()

	// The classifying keywords sit in the oldest messages, pushed out of
	// the extraction window by filler turns.
	messages := []models.Message{
		userMsg("Mein Vermieter hat die Kaution einbehalten."),
	}
	for i := 0; i < maxTranscriptMessages; i++ {
		messages = append(messages, userMsg("Dazu kann ich nichts weiter sagen."))
	}

	result := e.Extract(messages, nil)
	assert.Equal(t, "", result.Data.LegalArea)
}
