package domain

// PhoneType classifies a phone number found for a contact.
type PhoneType string

const (
	// PhoneBusinessMain is the main business line shared by multiple staff.
	PhoneBusinessMain PhoneType = "BUSINESS_MAIN"

	// PhoneBusinessDirect is a direct extension or department line.
	PhoneBusinessDirect PhoneType = "BUSINESS_DIRECT"

	// PhonePersonal is a mobile or personal number.
	PhonePersonal PhoneType = "PERSONAL"

	// PhoneUnknown means the source did not clarify the type.
	PhoneUnknown PhoneType = "UNKNOWN"
)

// EmailType classifies how an email address was obtained.
type EmailType string

const (
	// EmailDirect is a personal work address found verbatim.
	EmailDirect EmailType = "DIRECT"

	// EmailGeneric is a role address such as info@ or contact@.
	EmailGeneric EmailType = "GENERIC"

	// EmailPattern is constructed from a detected company pattern.
	EmailPattern EmailType = "PATTERN"

	// EmailNotFound means no address was found and a fallback was used.
	EmailNotFound EmailType = "NOT_FOUND"
)

// EmploymentStatus is the inferred employment state of a contact.
type EmploymentStatus string

const (
	// EmploymentCurrent means verified within the last 6 months.
	EmploymentCurrent EmploymentStatus = "CURRENT"

	// EmploymentLikelyCurrent means evidence within 12 months.
	EmploymentLikelyCurrent EmploymentStatus = "LIKELY_CURRENT"

	// EmploymentUncertain means data older than 12 months.
	EmploymentUncertain EmploymentStatus = "UNCERTAIN"

	// EmploymentFormer means the contact is confirmed to have left.
	EmploymentFormer EmploymentStatus = "FORMER"
)

// VerificationRecency describes how recent the employment evidence is.
type VerificationRecency string

const (
	// RecencyRecent is under 6 months.
	RecencyRecent VerificationRecency = "RECENT"

	// RecencyModerate is 6 to 12 months.
	RecencyModerate VerificationRecency = "MODERATE"

	// RecencyDated is over 12 months.
	RecencyDated VerificationRecency = "DATED"
)

// PreviousRole is an earlier position held by a contact.
type PreviousRole struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration,omitempty"`
}

// Contact is a candidate person extracted from a transcript.
// Only Name and Title are guaranteed; everything else is best-effort.
type Contact struct {
	// Name is the full name. It is the uniqueness key within one candidate set.
	Name string `json:"name"`

	// Title is the job title as reported by the model.
	Title string `json:"title"`

	BusinessName        string              `json:"business_name,omitempty"`
	BusinessWebsite     string              `json:"business_website,omitempty"`
	Phone               string              `json:"phone,omitempty"`
	PhoneType           PhoneType           `json:"phone_type,omitempty"`
	Email               string              `json:"email,omitempty"`
	EmailType           EmailType           `json:"email_type,omitempty"`
	EmailPattern        string              `json:"email_pattern,omitempty"`
	Address             string              `json:"address,omitempty"`
	LinkedInURL         string              `json:"linkedin_url,omitempty"`
	YearsInPosition     string              `json:"years_in_position,omitempty"`
	EmploymentStatus    EmploymentStatus    `json:"employment_status,omitempty"`
	LastVerifiedDate    string              `json:"last_verified_date,omitempty"`
	VerificationRecency VerificationRecency `json:"verification_recency,omitempty"`
	BackgroundSummary   string              `json:"background_summary,omitempty"`
	PreviousRoles       []PreviousRole      `json:"previous_roles,omitempty"`
	SourceURLs          []string            `json:"source_urls,omitempty"`

	// ConfidenceScore is in the range 0.0 to 1.0.
	ConfidenceScore float64 `json:"confidence_score,omitempty"`

	VerificationNotes string `json:"verification_notes,omitempty"`
}

// ContactNames returns the names of the given contacts in order.
func ContactNames(contacts []Contact) []string {
	names := make([]string, len(contacts))
	for i := range contacts {
		names[i] = contacts[i].Name
	}
	return names
}
