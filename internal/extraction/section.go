package extraction

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

var (
	leadSectionPattern     = regexp.MustCompile(`(?s)(?:Local)?LeadResults:(.*?)(?:┗━|\z)`)
	responseSectionPattern = regexp.MustCompile(`(?s)Response.*?\n(.*)\z`)

	businessNamePattern = regexp.MustCompile(`(?m)(?:Business\s+)?Name:\s*(.+)`)
	businessTypePattern = regexp.MustCompile(`Type:\s*(.+)`)
	addressPattern      = regexp.MustCompile(`Address:\s*(.+)`)
	mainPhonePattern    = regexp.MustCompile(`(?:Main\s+)?Phone:\s*(.+)`)
	websitePattern      = regexp.MustCompile(`Website:\s*(.+)`)
	descriptionPattern  = regexp.MustCompile(`Description:\s*(.+)`)

	// A bare "N. " only splits at the very start of the section; numbered
	// lines inside a contact block stay with that contact.
	contactSplitPattern = regexp.MustCompile(`(?:\d+\.\s+Contact\s+\d+:|Contact\s+\d+:|^\d+\.\s+)`)
	contactNameField    = regexp.MustCompile(`(?:^|\n)\s*(?:-\s+)?Name:\s*(.+)`)
	titleField          = regexp.MustCompile(`Title:\s*(.+)`)
	phoneField          = regexp.MustCompile(`Phone:\s*([^\(\n]+)`)
	phoneTypeField      = regexp.MustCompile(`Type:\s*(\w+)`)
	emailField          = regexp.MustCompile(`Email:\s*([^\s\(]+)`)
	emailTypeField      = regexp.MustCompile(`Email.*?\(Type:\s*(\w+)\)`)
	employmentField     = regexp.MustCompile(`Employment Status:\s*(\w+)`)
	verificationField   = regexp.MustCompile(`Verification:\s*(\w+)`)
	backgroundField     = regexp.MustCompile(`Background:\s*(.+)`)
	linkedinField       = regexp.MustCompile(`LinkedIn:\s*(\S+)`)

	numberedContactLine = regexp.MustCompile(`(?:^|\n)\s*\d+\.\s+([^-\n]+)\s*-\s*([^\n]+)`)

	emailPatternField = regexp.MustCompile(`Email Pattern:\s*(\S+)`)
	locationField     = regexp.MustCompile(`Location:\s*(.+)`)
	queryField        = regexp.MustCompile(`Query:\s*(.+)`)
)

// SectionParser turns labelled "Field: value" text into a LeadResults record.
type SectionParser struct {
	defaults Defaults
	sentinel string
}

// NewSectionParser creates a parser with the given fallbacks.
func NewSectionParser(defaults Defaults, sentinel string) *SectionParser {
	return &SectionParser{defaults: defaults, sentinel: sentinel}
}

// ParseTranscript locates the results section of a transcript and parses it.
// It falls back to everything after a "Response" header when there is no
// LeadResults section. It reports false when no contacts were recovered.
func (p *SectionParser) ParseTranscript(content string) (*domain.LeadResults, bool) {
	section, ok := locateSection(content)
	if !ok {
		if m := responseSectionPattern.FindStringSubmatch(content); m != nil {
			section, ok = m[1], true
		}
	}
	if !ok {
		return nil, false
	}
	record := p.Parse(section)
	if len(record.Contacts) == 0 {
		return nil, false
	}
	return record, true
}

// locateSection returns the body of a LeadResults: section.
func locateSection(content string) (string, bool) {
	m := leadSectionPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Parse builds a record from section text. It always returns a record,
// possibly with no contacts.
func (p *SectionParser) Parse(text string) *domain.LeadResults {
	business := domain.Business{
		Name:             Field(text, businessNamePattern),
		BusinessType:     Field(text, businessTypePattern),
		Address:          Field(text, addressPattern),
		Phone:            Field(text, mainPhonePattern),
		WebsiteURL:       Field(text, websitePattern),
		Description:      Field(text, descriptionPattern),
		YearsEstablished: Year(text),
		ServicesOffered:  Services(text),
		OperatingHours:   Hours(text),
	}

	contacts := p.parseContactSections(text, business)
	if len(contacts) == 0 {
		contacts = p.parseNumberedContacts(text)
	}

	return &domain.LeadResults{
		Business:         business,
		Contacts:         contacts,
		ContactsFound:    len(contacts),
		Metadata:         p.metadata(text, contacts),
		SearchConfidence: confidenceFor(contacts),
		SearchQuery:      FieldOr(text, queryField, p.defaults.Query),
	}
}

// parseContactSections splits on "Contact N:" / "N." headers and reads
// labelled fields from each piece.
func (p *SectionParser) parseContactSections(text string, business domain.Business) []domain.Contact {
	businessName := business.Name
	if businessName == "" {
		businessName = p.defaults.BusinessName
	}

	var contacts []domain.Contact
	for _, section := range contactSplitPattern.Split(text, -1) {
		if strings.TrimSpace(section) == "" {
			continue
		}
		name := Field(section, contactNameField)
		if name == "" || IsSentinel(name, p.sentinel) || name == businessName {
			continue
		}
		contacts = append(contacts, domain.Contact{
			Name:                name,
			Title:               Field(section, titleField),
			BusinessName:        businessName,
			BusinessWebsite:     business.WebsiteURL,
			Phone:               FieldOr(section, phoneField, business.Phone),
			PhoneType:           phoneTypeOr(Field(section, phoneTypeField), domain.PhoneBusinessMain),
			Email:               NormalizeEmail(Field(section, emailField), p.defaults.Domain),
			EmailType:           emailTypeOr(Field(section, emailTypeField), domain.EmailPattern),
			EmploymentStatus:    employmentOr(Field(section, employmentField), domain.EmploymentCurrent),
			VerificationRecency: recencyOr(Field(section, verificationField), domain.RecencyRecent),
			BackgroundSummary:   FieldOr(section, backgroundField, "Key leadership role"),
			LinkedInURL:         Field(section, linkedinField),
			ConfidenceScore:     Confidence(section),
			SourceURLs:          SourceURLs(section, p.defaults.Domain),
		})
	}
	return contacts
}

// parseNumberedContacts handles "1. Name - Title" lines and synthesises
// pattern emails for them.
func (p *SectionParser) parseNumberedContacts(text string) []domain.Contact {
	var contacts []domain.Contact
	for _, m := range numberedContactLine.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		title := strings.TrimSpace(m[2])
		if name == "" || IsSentinel(name, p.sentinel) {
			continue
		}
		contacts = append(contacts, domain.Contact{
			Name:                name,
			Title:               title,
			BusinessName:        p.defaults.BusinessName,
			Phone:               p.defaults.Phone,
			PhoneType:           domain.PhoneBusinessMain,
			Email:               PatternEmail(name, p.defaults.Domain),
			EmailType:           domain.EmailPattern,
			EmploymentStatus:    domain.EmploymentCurrent,
			VerificationRecency: domain.RecencyRecent,
			BackgroundSummary:   background(title, p.defaults.BusinessName),
			ConfidenceScore:     0.8,
			SourceURLs:          SourceURLs("", p.defaults.Domain),
		})
	}
	return contacts
}

func (p *SectionParser) metadata(text string, contacts []domain.Contact) domain.SearchMetadata {
	direct := 0
	for i := range contacts {
		if contacts[i].EmailType == domain.EmailDirect {
			direct++
		}
	}
	terms := []string{"leadership", "superintendent", "manager"}
	pattern := ""
	if p.defaults.Domain != "" {
		terms = append(terms, p.defaults.Domain)
		pattern = "first.last@" + p.defaults.Domain
	}
	return domain.SearchMetadata{
		SearchTermsUsed:      terms,
		SourcesSearched:      []string{"Business Website", "LinkedIn", "Local Directories"},
		VerificationMethods:  []string{"Website verification", "LinkedIn profiles"},
		TotalResultsAnalyzed: 10,
		JobTitlesSearched:    []string{"Superintendent", "General Manager", "Director"},
		SearchLocation:       FieldOr(text, locationField, p.defaults.Location),
		EmailPatternDetected: FieldOr(text, emailPatternField, pattern),
		EmailsFoundCount:     direct,
	}
}

func background(title, business string) string {
	if business == "" {
		return title
	}
	return title + " at " + business
}

func confidenceFor(contacts []domain.Contact) domain.SearchConfidence {
	if len(contacts) >= 2 {
		return domain.ConfidenceHigh
	}
	return domain.ConfidenceMedium
}
