package internal

import (
	"net/http"
	"strconv"
	"strings"
)

// maxAcceptLanguageLength caps header parsing to avoid oversized input.
const maxAcceptLanguageLength = 4096

// languageTag is a parsed Accept-Language entry with its quality value.
type languageTag struct {
	tag     string
	quality float64
}

// matchAcceptLanguage parses an Accept-Language header and returns the
// best match from the available languages, or "" when nothing matches.
// Quality values are honored; "en" matches "en-us" and vice versa.
func matchAcceptLanguage(header string, available []string) string {
	if header == "" || len(available) == 0 {
		return ""
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	var tags []languageTag
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		quality := 1.0
		langPart, qPart, hasQuality := strings.Cut(part, ";")
		langPart = normalizeLanguage(langPart)
		if hasQuality {
			qPart = strings.TrimSpace(qPart)
			if strings.HasPrefix(qPart, "q=") {
				if q, err := strconv.ParseFloat(qPart[2:], 64); err == nil && q >= 0 && q <= 1 {
					quality = q
				}
			}
		}
		if langPart != "" && langPart != "*" {
			tags = append(tags, languageTag{tag: langPart, quality: quality})
		}
	}

	var best string
	bestQuality := -1.0
	for _, avail := range available {
		for _, tag := range tags {
			if matchesLanguage(tag.tag, avail) && tag.quality > bestQuality {
				best = avail
				bestQuality = tag.quality
			}
		}
	}
	return best
}

func matchesLanguage(requested, available string) bool {
	available = normalizeLanguage(available)
	if requested == available {
		return true
	}
	reqBase, _, _ := strings.Cut(requested, "-")
	availBase, _, _ := strings.Cut(available, "-")
	return reqBase == availBase
}

func normalizeLanguage(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// languageCookie is the cookie consulted when request data carries no
// explicit language.
const languageCookie = "language"

// resolveLanguage picks the page language for a request: an explicit
// "language" entry in the request data wins, then the language cookie,
// then the Accept-Language header, then the default. Values outside the
// available set are ignored.
func resolveLanguage(r *http.Request, data map[string]any, available []string, defaultLanguage string) string {
	allowed := func(lang string) bool {
		for _, avail := range available {
			if normalizeLanguage(avail) == normalizeLanguage(lang) {
				return true
			}
		}
		return false
	}

	if lang, ok := data["language"].(string); ok && lang != "" && allowed(lang) {
		return lang
	}
	if cookie, err := r.Cookie(languageCookie); err == nil && cookie.Value != "" && allowed(cookie.Value) {
		return cookie.Value
	}
	if lang := matchAcceptLanguage(r.Header.Get("Accept-Language"), available); lang != "" {
		return lang
	}
	return defaultLanguage
}
