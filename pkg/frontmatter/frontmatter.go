package frontmatter

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

var frontmatterPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n(.*)`)

// Frontmatter represents the structured metadata at the beginning of a page.
type Frontmatter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags,flow"`

	// Attributes holds every frontmatter field other than the ones above,
	// preserved as parsed.
	Attributes map[string]any `yaml:"-"`
}

// Parse extracts frontmatter from content and returns the parsed data and body.
// Content without a frontmatter block returns a nil Frontmatter and the
// content unchanged.
func Parse(content string) (*Frontmatter, string, error) {
	matches := frontmatterPattern.FindStringSubmatch(content)
	if len(matches) != 3 {
		// No frontmatter found
		return nil, content, nil
	}

	frontmatterStr := matches[1]
	bodyContent := matches[2]

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(frontmatterStr), &fm); err != nil {
		return nil, content, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	// Ensure arrays are never nil
	if fm.Tags == nil {
		fm.Tags = []string{}
	}

	// A second pass collects the free-form fields.
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(frontmatterStr), &raw); err == nil {
		delete(raw, "title")
		delete(raw, "tags")
		if len(raw) > 0 {
			fm.Attributes = raw
		}
	}

	return &fm, bodyContent, nil
}
