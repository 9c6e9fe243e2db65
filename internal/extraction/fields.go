package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"mvdan.cc/xurls/v2"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// DefaultConfidence is used when no confidence score is printed.
const DefaultConfidence = 0.9

// Defaults supplies values for fields the transcript leaves out.
// These are heuristic fallbacks, not verified data.
type Defaults struct {
	// BusinessName is used when a section has no business name.
	BusinessName string

	// Domain is appended to bare email local-parts and used as the
	// fallback source URL.
	Domain string

	// Phone is the business main line used by the numbered-list fallback.
	Phone string

	// Location is reported as the search location.
	Location string

	// Query is reported as the search query.
	Query string
}

// ReferenceDefaults returns the defaults for the reference benchmark query.
func ReferenceDefaults() Defaults {
	return Defaults{
		BusinessName: "Dead Horse Lake Golf Course",
		Domain:       "deadhorselake.com",
		Phone:        "(865) 693-5270",
		Location:     "Knoxville, TN",
		Query:        "leadership/superintendent/manager of deadhorselake.com in knoxville",
	}
}

// QueryDefaults returns the defaults for a live query. Only the domain named
// in the query is known; nothing about the reference business carries over.
func QueryDefaults(query string) Defaults {
	return Defaults{
		Domain: QueryDomain(query),
		Query:  strings.TrimSpace(query),
	}
}

// QueryDomain returns the host of the first URL, bare domain or email
// address in query, lower-cased and without "www.", or "".
func QueryDomain(query string) string {
	for _, u := range urlMatcher.FindAllString(query, -1) {
		if i := strings.LastIndex(u, "@"); i >= 0 {
			u = u[i+1:]
		}
		if _, rest, ok := strings.Cut(u, "://"); ok {
			u = rest
		}
		if i := strings.IndexAny(u, "/?#:"); i >= 0 {
			u = u[:i]
		}
		u = strings.TrimPrefix(strings.ToLower(strings.TrimRight(u, ".,;)")), "www.")
		if strings.Contains(u, ".") {
			return u
		}
	}
	return ""
}

var (
	yearPattern       = regexp.MustCompile(`(?:Since|Established|Years?)\s*(?:in\s+)?(\d{4})`)
	servicesPattern   = regexp.MustCompile(`(?:Services|Amenities):\s*(.+)`)
	servicesSplit     = regexp.MustCompile(`[,/]`)
	hoursPattern      = regexp.MustCompile(`(?:Hours|Operating Hours):\s*([^\n]+)`)
	confidencePattern = regexp.MustCompile(`(?:Confidence|Score):\s*([\d.]+)`)
	urlMatcher        = xurls.Relaxed()
)

// Field returns the trimmed first capture of pattern in text, or "".
func Field(text string, pattern *regexp.Regexp) string {
	m := pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// FieldOr returns Field, or fallback when the field is absent.
func FieldOr(text string, pattern *regexp.Regexp, fallback string) string {
	if v := Field(text, pattern); v != "" {
		return v
	}
	return fallback
}

// Year returns the established year, or 0.
func Year(text string) int {
	v := Field(text, yearPattern)
	if v == "" {
		return 0
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return year
}

// Services returns the services list split on commas and slashes.
func Services(text string) []string {
	v := Field(text, servicesPattern)
	if v == "" {
		return nil
	}
	parts := servicesSplit.Split(v, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Hours returns the operating hours line, or "".
func Hours(text string) string {
	return Field(text, hoursPattern)
}

// Confidence returns the printed confidence score, or DefaultConfidence.
func Confidence(text string) float64 {
	v := Field(text, confidencePattern)
	if v == "" {
		return DefaultConfidence
	}
	f, err := strconv.ParseFloat(strings.TrimRight(v, "."), 64)
	if err != nil {
		return DefaultConfidence
	}
	return f
}

// NormalizeEmail appends "@domain" to a value that has no "@".
// The result is a guess, not a validated address.
func NormalizeEmail(email, domain string) string {
	email = strings.TrimSpace(email)
	if email == "" || strings.Contains(email, "@") || domain == "" {
		return email
	}
	return email + "@" + domain
}

// PatternEmail builds a first.last@domain address from a full name, or ""
// without a domain.
func PatternEmail(name, domain string) string {
	if domain == "" {
		return ""
	}
	local := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", ".")
	return local + "@" + domain
}

// SourceURLs returns the distinct URLs mentioned in text, or fallback when
// there are none.
func SourceURLs(text, fallback string) []string {
	found := urlMatcher.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(found))
	var out []string
	for _, u := range found {
		u = strings.TrimRight(u, ".,;)")
		if strings.Contains(u, "@") {
			continue // email addresses match the relaxed pattern
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	if len(out) == 0 && fallback != "" {
		return []string{fallback}
	}
	return out
}

// phoneTypeOr returns v as a PhoneType if it is a known value, else fallback.
func phoneTypeOr(v string, fallback domain.PhoneType) domain.PhoneType {
	switch t := domain.PhoneType(strings.ToUpper(v)); t {
	case domain.PhoneBusinessMain, domain.PhoneBusinessDirect, domain.PhonePersonal, domain.PhoneUnknown:
		return t
	}
	return fallback
}

func emailTypeOr(v string, fallback domain.EmailType) domain.EmailType {
	switch t := domain.EmailType(strings.ToUpper(v)); t {
	case domain.EmailDirect, domain.EmailGeneric, domain.EmailPattern, domain.EmailNotFound:
		return t
	}
	return fallback
}

func employmentOr(v string, fallback domain.EmploymentStatus) domain.EmploymentStatus {
	switch t := domain.EmploymentStatus(strings.ToUpper(v)); t {
	case domain.EmploymentCurrent, domain.EmploymentLikelyCurrent, domain.EmploymentUncertain, domain.EmploymentFormer:
		return t
	}
	return fallback
}

func recencyOr(v string, fallback domain.VerificationRecency) domain.VerificationRecency {
	switch t := domain.VerificationRecency(strings.ToUpper(v)); t {
	case domain.RecencyRecent, domain.RecencyModerate, domain.RecencyDated:
		return t
	}
	return fallback
}
