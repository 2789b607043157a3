package extraction

import (
	"regexp"
	"strings"

	"legalintake-backend/models"
)

// PersonExtractor derives contact and person fields from the user-authored
// transcript. Documents are deliberately excluded: contact data in a scanned
// letter usually belongs to the opposing party.
type PersonExtractor struct {
	emailPattern   *regexp.Regexp
	phonePatterns  []*regexp.Regexp
	namePatterns   []*regexp.Regexp
	nameLinePattern *regexp.Regexp
	companyPatterns []*regexp.Regexp
	locationPatterns []*regexp.Regexp
	postalPattern  *regexp.Regexp
	separatorPattern *regexp.Regexp
	digitPattern   *regexp.Regexp
}

// NewPersonExtractor compiles the extraction patterns once
func NewPersonExtractor() *PersonExtractor {
	return &PersonExtractor{
		emailPattern: regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		phonePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:\+49|0049)[\s\-/()]*\d(?:[\s\-/()]*\d){5,13}`),
			regexp.MustCompile(`(?:^|[^\d])(0\d{2,4}[\s\-/()]*\d(?:[\s\-/()]*\d){4,11})`),
		},
		namePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:mein name ist|ich heiße)\s+([A-Za-zÄÖÜäöüß]+(?:\s+[A-Za-zÄÖÜäöüß]+){0,3})`),
			regexp.MustCompile(`(?i)(?:mit freundlichen grüßen|viele grüße|beste grüße)[,\s]+([A-Za-zÄÖÜäöüß]+(?:\s+[A-Za-zÄÖÜäöüß]+){0,3})`),
		},
		nameLinePattern: regexp.MustCompile(`^[A-Za-zÄÖÜäöüß]+(?:\s+[A-Za-zÄÖÜäöüß]+){0,3}$`),
		companyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:Firma|Unternehmen)\s+([A-ZÄÖÜ][A-Za-zÄÖÜäöüß0-9&.\-]*(?:\s+[A-ZÄÖÜ][A-Za-zÄÖÜäöüß0-9&.\-]*)*(?:\s+(?:GmbH|AG|KG|UG|OHG|e\.V\.))?)`),
			regexp.MustCompile(`([A-ZÄÖÜ][A-Za-zÄÖÜäöüß0-9&.\-]*(?:\s+[A-ZÄÖÜ][A-Za-zÄÖÜäöüß0-9&.\-]*)*\s+(?:GmbH|AG|KG|UG|OHG|e\.V\.))`),
		},
		locationPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:ich komme aus|ich wohne in|wohnhaft in)\s+([A-ZÄÖÜa-zäöüß][A-Za-zÄÖÜäöüß\-]+)`),
			regexp.MustCompile(`(?i)stadt:\s*([A-Za-zÄÖÜäöüß\-]+)`),
		},
		postalPattern:    regexp.MustCompile(`(?:^|[^\d])\d{5}\s+([A-ZÄÖÜ][a-zäöüß\-]+)`),
		separatorPattern: regexp.MustCompile(`[\s\-/()]`),
		digitPattern:     regexp.MustCompile(`\d`),
	}
}

// Non-name words: a fallback line containing any of these is never a name
var nameStoplist = []string{
	"sehr geehrte", "hallo", "guten tag", "danke", "vielen dank",
	"mit freundlichen", "frist", "vermieter", "arbeitgeber", "anwalt",
	"kanzlei", "straße", "termin", "vertrag",
}

var companyIndicators = []string{
	"meine firma", "unsere firma", "mein unternehmen", "unser unternehmen",
	"als unternehmen", "gmbh", "selbstständig", "gewerbe",
}

var phonePreferencePhrases = []string{
	"rufen sie mich an", "telefonisch", "per telefon", "am telefon",
}

var emailPreferencePhrases = []string{
	"per e-mail", "per email", "per mail", "schreiben sie mir",
}

var locationStoplist = []string{"deutschland", "österreich", "schweiz"}

// Extract derives person data from the user turns of the transcript.
// Every field is best effort; nothing here returns an error.
func (e *PersonExtractor) Extract(messages []models.Message) models.ExtractedPersonData {
	messages = capMessages(messages)

	var parts []string
	for _, m := range messages {
		if m.Role == models.RoleUser {
			parts = append(parts, m.Content)
		}
	}
	text := strings.Join(parts, "\n")
	lower := strings.ToLower(text)

	data := models.ExtractedPersonData{
		Email:      e.emailPattern.FindString(text),
		Phone:      e.extractPhone(text),
		FullName:   e.extractName(text),
		ClientType: detectClientType(lower),
		Location:   e.extractLocation(text),
	}

	if data.ClientType == models.ClientTypeCompany {
		data.CompanyName = e.extractCompanyName(text)
	}

	data.PreferredContactMethod = preferredContactMethod(lower, data.Email, data.Phone)

	return data
}

func (e *PersonExtractor) extractPhone(text string) string {
	for i, pattern := range e.phonePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := m[0]
		if i == 1 {
			raw = m[1]
		}
		return e.separatorPattern.ReplaceAllString(raw, "")
	}
	return ""
}

func (e *PersonExtractor) extractName(text string) string {
	for _, pattern := range e.namePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return capitalizeWords(m[1])
		}
	}

	// Fallback: scan lines for something that looks like a bare name
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, ","))
		if line == "" || strings.Contains(line, "@") || e.digitPattern.MatchString(line) {
			continue
		}
		lowerLine := strings.ToLower(line)
		if containsAny(lowerLine, nameStoplist) {
			continue
		}
		if e.nameLinePattern.MatchString(line) {
			return capitalizeWords(line)
		}
	}

	return ""
}

func detectClientType(lower string) models.ClientType {
	if strings.Contains(lower, "privatperson") {
		return models.ClientTypePrivate
	}
	if containsAny(lower, companyIndicators) {
		return models.ClientTypeCompany
	}
	return models.ClientTypePrivate
}

func (e *PersonExtractor) extractCompanyName(text string) string {
	for _, pattern := range e.companyPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func (e *PersonExtractor) extractLocation(text string) string {
	for _, pattern := range e.locationPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			candidate := capitalizeWords(m[1])
			if !containsAny(strings.ToLower(candidate), locationStoplist) {
				return candidate
			}
		}
	}

	if m := e.postalPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	return ""
}

// preferredContactMethod: an explicit phone preference beats an explicit
// email preference; with neither phrase present, having an email but no
// phone defaults to email.
func preferredContactMethod(lower, email, phone string) string {
	if containsAny(lower, phonePreferencePhrases) {
		return string(models.ContactMethodPhone)
	}
	if containsAny(lower, emailPreferencePhrases) {
		return string(models.ContactMethodEmail)
	}
	if email != "" && phone == "" {
		return string(models.ContactMethodEmail)
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
