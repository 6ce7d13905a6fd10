package validate

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

// Field limits shared with the remote API's model constraints.
const (
	MaxTitleLength    = 255
	MaxURLLength      = 500
	MaxUsernameLength = 150
	MaxPasswordLength = 128
)

func checkLen(value string, max int, field string) string {
	if utf8.RuneCountInString(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

func required(value, field string) string {
	if strings.TrimSpace(value) == "" {
		return field + " is required"
	}
	return ""
}

func Title(s string) string {
	if msg := required(s, "title"); msg != "" {
		return msg
	}
	return checkLen(s, MaxTitleLength, "title")
}

func Username(s string) string {
	if msg := required(s, "username"); msg != "" {
		return msg
	}
	return checkLen(s, MaxUsernameLength, "username")
}

func Password(s string) string {
	if s == "" {
		return "password is required"
	}
	return checkLen(s, MaxPasswordLength, "password")
}

func Source(s string, allowed []string) string {
	if slices.Contains(allowed, s) {
		return ""
	}
	return fmt.Sprintf("source must be one of: %s", strings.Join(allowed, ", "))
}

// VideoURL accepts empty input; use UploadOrigin for the "one of" rule.
func VideoURL(s string) string {
	if s == "" {
		return ""
	}
	if msg := checkLen(s, MaxURLLength, "URL"); msg != "" {
		return msg
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "URL must be an http or https address"
	}
	return ""
}

// UploadOrigin requires a URL or a file, and caps the file size.
func UploadOrigin(rawURL string, hasFile bool, fileSize, maxBytes int64) string {
	if rawURL == "" && !hasFile {
		return "provide a video URL or upload a file"
	}
	if hasFile && maxBytes > 0 && fileSize > maxBytes {
		return fmt.Sprintf("file must be %s or smaller", SizeLimit(maxBytes))
	}
	return ""
}

// SizeLimit renders an upload cap in whole megabytes, rounding up. It is
// empty when maxBytes leaves uploads uncapped.
func SizeLimit(maxBytes int64) string {
	if maxBytes <= 0 {
		return ""
	}
	const mb = 1024 * 1024
	return fmt.Sprintf("%d MB", (maxBytes+mb-1)/mb)
}

// FieldLimits returns a map of field names to max lengths for the upload form.
func FieldLimits() map[string]int {
	return map[string]int{
		"title":    MaxTitleLength,
		"url":      MaxURLLength,
		"username": MaxUsernameLength,
		"password": MaxPasswordLength,
	}
}
