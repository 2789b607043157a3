package extraction

import (
	"fmt"
	"strings"
	"time"

	"legalintake-backend/models"
)

const summaryDisclaimer = "*Hinweis: Diese Zusammenfassung wurde automatisch erstellt und stellt keine Rechtsberatung dar.*"

// BuildStructuredDescription wraps extracted data with its confidence and
// the extraction timestamp for storage on the case record.
func BuildStructuredDescription(data models.ExtractedCaseData, confidence models.ExtractionConfidence) models.StructuredDescription {
	return models.StructuredDescription{
		Data:        data,
		Confidence:  confidence,
		ExtractedAt: time.Now().UTC(),
	}
}

// BuildCaseSummary renders the populated fields of the extracted case data
// as German markdown in a fixed section order. The rendering is
// deterministic for identical input and always ends with the
// non-legal-advice disclaimer.
func BuildCaseSummary(data models.ExtractedCaseData) string {
	var b strings.Builder

	b.WriteString("## Zusammenfassung Ihres Falls\n\n")

	if data.LegalArea != "" {
		fmt.Fprintf(&b, "**Rechtsgebiet:** %s\n\n", data.LegalArea)
	}

	if data.Parties.Claimant != "" || data.Parties.Defendant != "" {
		b.WriteString("**Beteiligte Parteien:**\n")
		if data.Parties.Claimant != "" {
			fmt.Fprintf(&b, "- Anspruchsteller: %s\n", data.Parties.Claimant)
		}
		if data.Parties.Defendant != "" {
			fmt.Fprintf(&b, "- Gegenseite: %s\n", data.Parties.Defendant)
		}
		for _, other := range data.Parties.Others {
			fmt.Fprintf(&b, "- Weitere: %s\n", other)
		}
		b.WriteString("\n")
	}

	if data.ContractType != "" {
		fmt.Fprintf(&b, "**Vertragsart:** %s\n\n", data.ContractType)
	}

	if data.ProblemStatement != "" {
		fmt.Fprintf(&b, "**Problembeschreibung:**\n%s\n\n", data.ProblemStatement)
	}

	if len(data.Timeline) > 0 {
		b.WriteString("**Zeitlicher Ablauf:**\n")
		for _, ev := range data.Timeline {
			fmt.Fprintf(&b, "- %s: %s\n", ev.Date, ev.Event)
		}
		b.WriteString("\n")
	}

	if len(data.Deadlines) > 0 {
		b.WriteString("**Fristen:**\n")
		for _, d := range data.Deadlines {
			marker := ""
			if d.Critical {
				marker = " (kritisch)"
			}
			fmt.Fprintf(&b, "- %s%s: %s\n", d.Date, marker, d.Description)
		}
		b.WriteString("\n")
	}

	if data.DisputeValue != nil {
		fmt.Fprintf(&b, "**Geschätzter Streitwert:** %.2f %s\n\n", data.DisputeValue.Amount, data.DisputeValue.Currency)
	}

	fmt.Fprintf(&b, "**Dringlichkeit:** %s\n\n", urgencyLabel(data.UrgencyLevel))

	if len(data.Documents) > 0 {
		b.WriteString("**Eingereichte Dokumente:**\n")
		for _, doc := range data.Documents {
			fmt.Fprintf(&b, "- %s\n", doc.Name)
		}
		b.WriteString("\n")
	}

	b.WriteString(summaryDisclaimer)
	return b.String()
}

func urgencyLabel(level models.UrgencyLevel) string {
	switch level {
	case models.UrgencyHigh:
		return "hoch"
	case models.UrgencyMedium:
		return "mittel"
	default:
		return "niedrig"
	}
}
