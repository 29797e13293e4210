package scoring

import (
	"net/url"
	"strings"
	"unicode"
)

var genericCategories = map[string]struct{}{
	"point_of_interest": {},
	"establishment":     {},
}

var freeHostingDomains = []string{
	"wordpress.com",
	"blogspot.com",
	"wixsite.com",
	"weebly.com",
	"squarespace.com",
	"business.site",
	"godaddysites.com",
	"notion.site",
	"carrd.co",
	"square.site",
}

// SpecificCategories drops the generic provider tags, keeping order.
func SpecificCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" {
			continue
		}
		if _, generic := genericCategories[key]; generic {
			continue
		}
		out = append(out, c)
	}
	return out
}

// PrimaryCategory returns the first non-generic tag, or "".
func PrimaryCategory(categories []string) string {
	specific := SpecificCategories(categories)
	if len(specific) == 0 {
		return ""
	}
	return specific[0]
}

// keywordMatch reports whether any category term shows up in the description.
func keywordMatch(description string, categories []string) bool {
	text := strings.ToLower(description)
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, c := range SpecificCategories(categories) {
		term := strings.ToLower(strings.ReplaceAll(c, "_", " "))
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if strings.Contains(text, term) {
			return true
		}
		// "hair_care" also matches a description mentioning "hair".
		for _, word := range strings.Fields(term) {
			if len(word) >= 4 && strings.Contains(text, word) {
				return true
			}
		}
	}
	return false
}

func hasCompleteAddress(raw string) bool {
	addr := strings.TrimSpace(raw)
	if len(addr) < 10 {
		return false
	}
	var hasLetter, hasDigit bool
	separatorCount := 0
	for _, r := range addr {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case r == ',':
			separatorCount++
		}
	}
	return hasLetter && hasDigit && separatorCount >= 1
}

// FreeHosted reports whether the website lives on a site-builder subdomain.
func FreeHosted(raw string) bool {
	domain := extractDomain(raw)
	if domain == "" {
		return false
	}
	for _, host := range freeHostingDomains {
		if domain == host || strings.HasSuffix(domain, "."+host) {
			return true
		}
	}
	return false
}

func extractDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(raw)
	if !strings.Contains(lowered, "://") {
		lowered = "https://" + lowered
	}
	parsed, err := url.Parse(lowered)
	if err != nil {
		return ""
	}
	host := strings.TrimSpace(strings.ToLower(parsed.Hostname()))
	return strings.TrimPrefix(host, "www.")
}
