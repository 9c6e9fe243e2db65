package domain

// SearchConfidence is the overall confidence of an enrichment result.
type SearchConfidence string

const (
	ConfidenceHigh   SearchConfidence = "HIGH"
	ConfidenceMedium SearchConfidence = "MEDIUM"
	ConfidenceLow    SearchConfidence = "LOW"
)

// Business is the verified information about the business being enriched.
type Business struct {
	Name                  string   `json:"name"`
	Address               string   `json:"address,omitempty"`
	Phone                 string   `json:"phone,omitempty"`
	WebsiteURL            string   `json:"website_url,omitempty"`
	BusinessType          string   `json:"business_type"`
	Description           string   `json:"description"`
	ServicesOffered       []string `json:"services_offered,omitempty"`
	OperatingHours        string   `json:"operating_hours,omitempty"`
	YearsEstablished      int      `json:"years_established,omitempty"`
	EmployeeCountEstimate string   `json:"employee_count_estimate,omitempty"`
	ReviewRating          float64  `json:"review_rating,omitempty"`
	Specialties           []string `json:"specialties,omitempty"`
	LocationDetails       string   `json:"location_details,omitempty"`
}

// SearchMetadata describes how a model went about the search.
type SearchMetadata struct {
	SearchTermsUsed       []string `json:"search_terms_used"`
	SourcesSearched       []string `json:"sources_searched"`
	VerificationMethods   []string `json:"verification_methods"`
	TotalResultsAnalyzed  int      `json:"total_results_analyzed"`
	JobTitlesSearched     []string `json:"job_titles_searched"`
	SearchLocation        string   `json:"search_location,omitempty"`
	SearchRadius          string   `json:"search_radius,omitempty"`
	EmailPatternDetected  string   `json:"email_pattern_detected,omitempty"`
	EmailsFoundCount      int      `json:"emails_found_count"`
	ChallengesEncountered []string `json:"challenges_encountered,omitempty"`
}

// LeadResults is the full structured record for one enrichment query:
// business info, contacts, and search metadata.
type LeadResults struct {
	Business         Business         `json:"business"`
	Contacts         []Contact        `json:"contacts"`
	ContactsFound    int              `json:"contacts_found"`
	Metadata         SearchMetadata   `json:"metadata"`
	SearchConfidence SearchConfidence `json:"search_confidence"`
	SearchQuery      string           `json:"search_query"`
}
