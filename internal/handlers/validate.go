package handlers

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"diabolohub/internal/markdown"
)

// Validation limits for member and forum input.
const (
	minUsernameLen  = 3
	maxUsernameLen  = 30
	minPasswordLen  = 8
	maxPasswordLen  = 72 // bcrypt ignores bytes past 72
	maxFullNameLen  = 100
	maxCountryLen   = 60
	maxPlayStyleLen = 100
	maxBioLen       = 500
	maxHandleLen    = 60
	maxURLLen       = 2048
	maxTitleLen     = 120
	maxDescLen      = 2000
	minAge          = 5
	maxAge          = 120
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// validateRegistration checks sign-up input and returns the first error found.
func validateRegistration(username, password, fullName, country string) string {
	username = strings.TrimSpace(username)
	n := utf8.RuneCountInString(username)
	if n < minUsernameLen || n > maxUsernameLen {
		return "Username must be between 3 and 30 characters."
	}
	if !usernamePattern.MatchString(username) {
		return "Username may only contain letters, digits, dots and underscores."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	if len(password) > maxPasswordLen {
		return "Password is too long (max 72 bytes)."
	}
	if strings.TrimSpace(fullName) == "" {
		return "Full name is required."
	}
	if utf8.RuneCountInString(fullName) > maxFullNameLen {
		return "Full name is too long (max 100 characters)."
	}
	if utf8.RuneCountInString(country) > maxCountryLen {
		return "Country is too long (max 60 characters)."
	}
	return ""
}

// profileInput is the body of PATCH /api/v1/profile. Nil fields are left
// unchanged.
type profileInput struct {
	FullName  *string `json:"full_name"`
	Country   *string `json:"country"`
	Residence *string `json:"residence"`
	Age       *int    `json:"age"`
	PlayStyle *string `json:"play_style"`
	Bio       *string `json:"bio"`
	Instagram *string `json:"instagram"`
	Facebook  *string `json:"facebook"`
	TikTok    *string `json:"tiktok"`
}

// validateProfile checks profile edits and returns the first error found.
func validateProfile(in profileInput) string {
	if in.FullName != nil {
		if strings.TrimSpace(*in.FullName) == "" {
			return "Full name is required."
		}
		if utf8.RuneCountInString(*in.FullName) > maxFullNameLen {
			return "Full name is too long (max 100 characters)."
		}
	}
	if in.Country != nil && utf8.RuneCountInString(*in.Country) > maxCountryLen {
		return "Country is too long (max 60 characters)."
	}
	if in.Residence != nil && utf8.RuneCountInString(*in.Residence) > maxCountryLen {
		return "Residence is too long (max 60 characters)."
	}
	if in.Age != nil && (*in.Age < minAge || *in.Age > maxAge) {
		return "Age must be between 5 and 120."
	}
	if in.PlayStyle != nil && utf8.RuneCountInString(*in.PlayStyle) > maxPlayStyleLen {
		return "Play style is too long (max 100 characters)."
	}
	if in.Bio != nil && utf8.RuneCountInString(*in.Bio) > maxBioLen {
		return "Bio is too long (max 500 characters)."
	}
	for _, h := range []*string{in.Instagram, in.Facebook, in.TikTok} {
		if h != nil && utf8.RuneCountInString(*h) > maxHandleLen {
			return "Social handle is too long (max 60 characters)."
		}
	}
	return ""
}

// validatePost checks a new forum post body.
func validatePost(content, mediaURL string) string {
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if len(content) > markdown.MaxSourceLen {
		return "Content is too long (max 10,000 bytes)."
	}
	if mediaURL != "" && !validHTTPURL(mediaURL) {
		return "Media URL must be an http or https link."
	}
	return ""
}

// validateSubmission checks the text fields of a tutorial submission.
func validateSubmission(title, description string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 120 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescLen {
		return "Description is too long (max 2,000 characters)."
	}
	return ""
}

func validHTTPURL(s string) bool {
	if len(s) > maxURLLen {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
