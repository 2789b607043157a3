package extraction

// The lexicons below are configuration data, not logic: category order is
// significant (first category reaching the top score wins a tie), and a
// classifier could replace keyword counting without touching the callers.

type areaLexicon struct {
	Area     string
	Keywords []string
}

// legalAreaLexicons maps the eight fixed legal areas to their keyword lists.
// A classification requires at least minAreaScore keyword hits.
var legalAreaLexicons = []areaLexicon{
	{
		Area: "Mietrecht",
		Keywords: []string{
			"miete", "vermieter", "mieter", "kündigung", "wohnung",
			"nebenkosten", "kaution", "mietvertrag", "mieterhöhung", "räumung",
		},
	},
	{
		Area: "Arbeitsrecht",
		Keywords: []string{
			"arbeitgeber", "arbeitsvertrag", "gehalt", "lohn", "abmahnung",
			"arbeitszeit", "urlaub", "befristung", "arbeitszeugnis", "abfindung",
		},
	},
	{
		Area: "Familienrecht",
		Keywords: []string{
			"scheidung", "unterhalt", "sorgerecht", "umgangsrecht", "ehe",
			"trennung", "ehevertrag", "zugewinn",
		},
	},
	{
		Area: "Verkehrsrecht",
		Keywords: []string{
			"unfall", "bußgeld", "führerschein", "blitzer", "fahrverbot",
			"punkte in flensburg", "verkehrsunfall", "unfallgegner",
		},
	},
	{
		Area: "Vertragsrecht",
		Keywords: []string{
			"vertrag", "agb", "widerruf", "rücktritt", "gewährleistung",
			"mangel", "kaufvertrag", "lieferung", "rechnung",
		},
	},
	{
		Area: "Strafrecht",
		Keywords: []string{
			"anzeige", "strafbefehl", "polizei", "staatsanwaltschaft",
			"diebstahl", "betrug", "körperverletzung", "vorladung", "ermittlungsverfahren",
		},
	},
	{
		Area: "Erbrecht",
		Keywords: []string{
			"erbe", "testament", "erbschaft", "pflichtteil", "nachlass",
			"erblasser", "erbengemeinschaft", "vermächtnis",
		},
	},
	{
		Area: "Sozialrecht",
		Keywords: []string{
			"bürgergeld", "jobcenter", "rente", "krankenkasse", "sozialamt",
			"pflegegrad", "erwerbsminderung", "widerspruchsbescheid",
		},
	},
}

const minAreaScore = 2

type urgencyTier struct {
	Level    string
	Keywords []string
}

// urgencyTiers is checked high to medium to low; the first tier with any
// hit wins, and the default is low.
var urgencyTiers = []urgencyTier{
	{
		Level: "high",
		Keywords: []string{
			"sofort", "dringend", "eilig", "notfall", "frist läuft",
			"heute noch", "morgen",
		},
	},
	{
		Level: "medium",
		Keywords: []string{
			"bald", "zeitnah", "nächste woche", "demnächst", "in den nächsten tagen",
		},
	},
	{
		Level: "low",
		Keywords: []string{
			"irgendwann", "keine eile", "unverbindlich", "bei gelegenheit",
		},
	},
}

// contractTypeKeywords classifies the contract at issue, first hit wins
var contractTypeKeywords = []struct {
	Type    string
	Keyword string
}{
	{"Mietvertrag", "mietvertrag"},
	{"Arbeitsvertrag", "arbeitsvertrag"},
	{"Kaufvertrag", "kaufvertrag"},
	{"Werkvertrag", "werkvertrag"},
	{"Dienstvertrag", "dienstvertrag"},
	{"Darlehensvertrag", "darlehensvertrag"},
}

// Missing-field identifiers, in the fixed priority order used for
// clarifying questions.
const (
	fieldLegalArea        = "legal_area"
	fieldParties          = "parties"
	fieldTimeline         = "timeline"
	fieldProblemStatement = "problem_statement"
	fieldDeadlines        = "deadlines"
)

var missingFieldOrder = []string{
	fieldLegalArea,
	fieldParties,
	fieldTimeline,
	fieldProblemStatement,
	fieldDeadlines,
}

var clarifyingQuestions = map[string]string{
	fieldLegalArea:        "Um welchen Rechtsbereich geht es bei Ihrem Anliegen, zum Beispiel Mietrecht oder Arbeitsrecht?",
	fieldParties:          "Gegen wen richtet sich Ihr Anliegen?",
	fieldTimeline:         "Wann haben sich die wichtigsten Ereignisse zugetragen?",
	fieldProblemStatement: "Können Sie Ihr Problem bitte etwas genauer beschreiben?",
	fieldDeadlines:        "Gibt es Fristen oder Termine, die beachtet werden müssen?",
}
