package extraction

import (
	"testing"

	"legalintake-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestPersonExtract_ContactScenario(t *testing.T) {
	e := NewPersonExtractor()

	data := e.Extract([]models.Message{
		userMsg("Mein Name ist Anna Schmidt, meine E-Mail ist anna.schmidt@example.com " +
			"und meine Nummer ist 0151 2345678."),
	})

	assert.Equal(t, "Anna Schmidt", data.FullName)
	assert.Equal(t, "anna.schmidt@example.com", data.Email)
	assert.Equal(t, "01512345678", data.Phone)
	assert.Equal(t, models.ClientTypePrivate, data.ClientType)
	assert.True(t, data.IsComplete())
}

func TestPersonExtract_InternationalPhone(t *testing.T) {
	e := NewPersonExtractor()

	data := e.Extract([]models.Message{
		userMsg("Sie erreichen mich unter +49 151 234-5678."),
	})

	assert.Equal(t, "+491512345678", data.Phone)
}

func TestPersonExtract_SignatureName(t *testing.T) {
	e := NewPersonExtractor()

	data := e.Extract([]models.Message{
		userMsg("Ich melde mich später wieder.\nMit freundlichen Grüßen\nPeter Müller"),
	})

	assert.Equal(t, "Peter Müller", data.FullName)
}

func TestPersonExtract_CompanyClient(t *testing.T) {
	e := NewPersonExtractor()

	data := e.Extract([]models.Message{
		userMsg("Ich bin selbstständig und meine Firma Meyer GmbH hat ein Problem mit einem Lieferanten."),
	})

	assert.Equal(t, models.ClientTypeCompany, data.ClientType)
	assert.Equal(t, "Meyer GmbH", data.CompanyName)
}

func TestPersonExtract_PrivatePersonOverride(t *testing.T) {
	e := NewPersonExtractor()

	// An explicit self-description as Privatperson beats company indicators
	data := e.Extract([]models.Message{
		userMsg("Ich frage als Privatperson, auch wenn ich ein Gewerbe angemeldet habe."),
	})

	assert.Equal(t, models.ClientTypePrivate, data.ClientType)
}

func TestPersonExtract_Location(t *testing.T) {
	e := NewPersonExtractor()

	tests := []struct {
		text string
		want string
	}{
		{"Ich wohne in Berlin und suche Hilfe.", "Berlin"},
		{"Meine Adresse: Hauptstraße 1, 80331 München", "München"},
		{"Ich komme aus Deutschland.", ""},
	}

	for _, tt := range tests {
		data := e.Extract([]models.Message{userMsg(tt.text)})
		assert.Equal(t, tt.want, data.Location, "text: %s", tt.text)
	}
}

func TestPersonExtract_PreferredContactMethod(t *testing.T) {
	e := NewPersonExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "explicit phone preference wins over email phrase",
			text: "Rufen Sie mich an, Sie können mir aber auch per E-Mail schreiben. max@example.com, 0151 2345678",
			want: "phone",
		},
		{
			name: "explicit email preference",
			text: "Bitte kontaktieren Sie mich per E-Mail: max@example.com",
			want: "email",
		},
		{
			name: "email present without phone defaults to email",
			text: "Meine Adresse ist max@example.com",
			want: "email",
		},
		{
			name: "no signal leaves the field unset",
			text: "Ich überlege noch.",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := e.Extract([]models.Message{userMsg(tt.text)})
			assert.Equal(t, tt.want, data.PreferredContactMethod)
		})
	}
}

func TestPersonExtract_IgnoresAssistantTurns(t *testing.T) {
	e := NewPersonExtractor()

	data := e.Extract([]models.Message{
		assistantMsg("Mein Name ist Lexi, Ihr Assistent. lexi@kanzlei.example"),
		userMsg("Ich möchte erst einmal anonym bleiben."),
	})

	assert.Equal(t, "", data.FullName)
	assert.Equal(t, "", data.Email)
	assert.False(t, data.IsComplete())
}
