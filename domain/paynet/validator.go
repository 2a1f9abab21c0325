package paynet

import (
	"net/url"
	"regexp"
)

var regionCodeRegexp = regexp.MustCompile(`^[A-Za-z]{2,3}$`)

// ValidateRegionCode reports whether the code is a well-formed ISO 3166-2
// region short code. A failing code is silently omitted from the built
// request, never an error.
func ValidateRegionCode(code string) bool {
	return regionCodeRegexp.MatchString(code)
}

// ValidateURL reports whether the value is an absolute http(s) url.
func ValidateURL(value string) bool {
	if value == "" {
		return false
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
