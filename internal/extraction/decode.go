package extraction

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// recordFromMap converts a loosely-typed JSON object into a LeadResults.
// Model output often has numbers as strings, nulls, or missing sections, so
// every field is read leniently and anything unusable is left zero.
func recordFromMap(m map[string]any) *domain.LeadResults {
	business, _ := m["business"].(map[string]any)
	meta, _ := m["metadata"].(map[string]any)

	r := &domain.LeadResults{
		Business: domain.Business{
			Name:                  asString(business["name"]),
			Address:               asString(business["address"]),
			Phone:                 asString(business["phone"]),
			WebsiteURL:            asString(business["website_url"]),
			BusinessType:          asString(business["business_type"]),
			Description:           asString(business["description"]),
			ServicesOffered:       asStrings(business["services_offered"]),
			OperatingHours:        asString(business["operating_hours"]),
			YearsEstablished:      asInt(business["years_established"]),
			EmployeeCountEstimate: asString(business["employee_count_estimate"]),
			ReviewRating:          asFloat(business["review_rating"]),
			Specialties:           asStrings(business["specialties"]),
			LocationDetails:       asString(business["location_details"]),
		},
		Metadata: domain.SearchMetadata{
			SearchTermsUsed:       asStrings(meta["search_terms_used"]),
			SourcesSearched:       asStrings(meta["sources_searched"]),
			VerificationMethods:   asStrings(meta["verification_methods"]),
			TotalResultsAnalyzed:  asInt(meta["total_results_analyzed"]),
			JobTitlesSearched:     asStrings(meta["job_titles_searched"]),
			SearchLocation:        asString(meta["search_location"]),
			SearchRadius:          asString(meta["search_radius"]),
			EmailPatternDetected:  asString(meta["email_pattern_detected"]),
			EmailsFoundCount:      asInt(meta["emails_found_count"]),
			ChallengesEncountered: asStrings(meta["challenges_encountered"]),
		},
		SearchConfidence: domain.SearchConfidence(strings.ToUpper(asString(m["search_confidence"]))),
		SearchQuery:      asString(m["search_query"]),
	}

	contacts, _ := m["contacts"].([]any)
	for _, raw := range contacts {
		c, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name := strings.TrimSpace(asString(c["name"]))
		if name == "" {
			continue
		}
		r.Contacts = append(r.Contacts, contactFromMap(name, c))
	}
	r.ContactsFound = asInt(m["contacts_found"])
	if r.ContactsFound == 0 {
		r.ContactsFound = len(r.Contacts)
	}
	return r
}

func contactFromMap(name string, c map[string]any) domain.Contact {
	contact := domain.Contact{
		Name:                name,
		Title:               asString(c["title"]),
		BusinessName:        asString(c["business_name"]),
		BusinessWebsite:     asString(c["business_website"]),
		Phone:               asString(c["phone"]),
		PhoneType:           domain.PhoneType(asString(c["phone_type"])),
		Email:               asString(c["email"]),
		EmailType:           domain.EmailType(asString(c["email_type"])),
		EmailPattern:        asString(c["email_pattern"]),
		Address:             asString(c["address"]),
		LinkedInURL:         asString(c["linkedin_url"]),
		YearsInPosition:     asString(c["years_in_position"]),
		EmploymentStatus:    domain.EmploymentStatus(asString(c["employment_status"])),
		LastVerifiedDate:    asString(c["last_verified_date"]),
		VerificationRecency: domain.VerificationRecency(asString(c["verification_recency"])),
		BackgroundSummary:   asString(c["background_summary"]),
		SourceURLs:          asStrings(c["source_urls"]),
		ConfidenceScore:     asFloat(c["confidence_score"]),
		VerificationNotes:   asString(c["verification_notes"]),
	}
	roles, _ := c["previous_roles"].([]any)
	for _, raw := range roles {
		if rm, ok := raw.(map[string]any); ok {
			contact.PreviousRoles = append(contact.PreviousRoles, domain.PreviousRole{
				Title:    asString(rm["title"]),
				Company:  asString(rm["company"]),
				Duration: asString(rm["duration"]),
			})
		}
	}
	return contact
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case json.Number:
		i, _ := t.Int64()
		return int(i)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(t))
		return i
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f
	default:
		return 0
	}
}

func asStrings(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	default:
		return nil
	}
}
