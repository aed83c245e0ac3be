package news

import (
	"log/slog"
	"strings"
	"time"
)

const defaultCategory = "General"

// Layouts observed across the provider APIs. All stored timestamps are
// re-emitted in UTC regardless of the provider-native representation.
var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer maps provider-native records into the canonical Draft shape.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run converts one raw record into a Draft. A record without a usable
// title (the required field path differs per provider) is rejected with
// a ValidationError, as is a record from an unknown provider kind.
func (n *Normalizer) Run(raw map[string]interface{}, src Config) (Draft, error) {
	switch src.ProviderKind() {
	case ProviderNewsAPI:
		return n.normalizeNewsAPI(raw, src)
	case ProviderGuardian:
		return n.normalizeGuardian(raw, src)
	case ProviderNYTimes:
		return n.normalizeNYTimes(raw, src)
	}
	return Draft{}, NewValidationError("unknown source")
}

func (n *Normalizer) normalizeNewsAPI(raw map[string]interface{}, src Config) (Draft, error) {
	title := stringAt(raw, "title")
	if title == "" {
		return Draft{}, NewValidationError("missing title")
	}

	return Draft{
		Title:       title,
		Content:     stringAt(raw, "content"),
		Source:      src.Name,
		Category:    categoryOrDefault(stringAt(raw, "category")),
		PublishedAt: n.parseTimestamp(stringAt(raw, "publishedAt"), src.Name),
		ImageURL:    optionalString(stringAt(raw, "urlToImage")),
		SourceURL:   optionalString(stringAt(raw, "url")),
		Author:      optionalString(stringAt(raw, "author")),
	}, nil
}

func (n *Normalizer) normalizeGuardian(raw map[string]interface{}, src Config) (Draft, error) {
	title := stringAt(raw, "webTitle")
	if title == "" {
		return Draft{}, NewValidationError("missing title")
	}

	return Draft{
		Title:       title,
		Content:     stringAt(raw, "fields", "bodyText"),
		Source:      src.Name,
		Category:    categoryOrDefault(stringAt(raw, "sectionName")),
		PublishedAt: n.parseTimestamp(stringAt(raw, "webPublicationDate"), src.Name),
		ImageURL:    optionalString(stringAt(raw, "fields", "thumbnail")),
		SourceURL:   optionalString(stringAt(raw, "webUrl")),
		Author:      optionalString(stringAt(raw, "fields", "byline")),
	}, nil
}

func (n *Normalizer) normalizeNYTimes(raw map[string]interface{}, src Config) (Draft, error) {
	title := stringAt(raw, "headline", "main")
	if title == "" {
		return Draft{}, NewValidationError("missing title")
	}

	imageURL := firstMultimediaURL(raw)
	if imageURL != "" {
		imageURL = resolveImageURL(imageURL, src.StaticBaseURL)
	}

	return Draft{
		Title:       title,
		Content:     stringAt(raw, "abstract"),
		Source:      src.Name,
		Category:    categoryOrDefault(stringAt(raw, "section_name")),
		PublishedAt: n.parseTimestamp(stringAt(raw, "pub_date"), src.Name),
		ImageURL:    optionalString(imageURL),
		SourceURL:   optionalString(stringAt(raw, "web_url")),
		Author:      optionalString(stringAt(raw, "byline", "original")),
	}, nil
}

func (n *Normalizer) parseTimestamp(value, source string) time.Time {
	if value != "" {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.UTC()
			}
		}
		slog.Debug("Unparseable publish timestamp, using ingestion time", "source", source, "value", value)
	}
	return time.Now().UTC()
}

// resolveImageURL prefixes a relative image path with the provider's
// static asset base URL; absolute URLs pass through unchanged.
func resolveImageURL(imageURL, staticBase string) string {
	if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
		return imageURL
	}
	if staticBase == "" {
		return imageURL
	}
	return strings.TrimSuffix(staticBase, "/") + "/" + strings.TrimPrefix(imageURL, "/")
}

func firstMultimediaURL(raw map[string]interface{}) string {
	multimedia, ok := raw["multimedia"].([]interface{})
	if !ok || len(multimedia) == 0 {
		return ""
	}
	first, ok := multimedia[0].(map[string]interface{})
	if !ok {
		return ""
	}
	u, _ := first["url"].(string)
	return u
}

// stringAt walks nested maps along the given path and returns the string
// leaf, or "" when any step is absent or not the expected shape.
func stringAt(raw map[string]interface{}, path ...string) string {
	current := raw
	for i, key := range path {
		if i == len(path)-1 {
			s, _ := current[key].(string)
			return s
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return ""
		}
		current = next
	}
	return ""
}

func categoryOrDefault(category string) string {
	if category == "" {
		return defaultCategory
	}
	return category
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
