package content

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Issue describes one malformed record that was repaired.
type Issue struct {
	Kind  string
	Index int
	Field string
	Fix   string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s[%d].%s: %s", i.Kind, i.Index, i.Field, i.Fix)
}

// Load reads a YAML site file on top of Default. Keys missing from the file
// keep their default value. An empty path returns the defaults.
func Load(path string) (*Site, []Issue, error) {
	site := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read content file: %w", err)
		}
		if err := Parse(raw, site); err != nil {
			return nil, nil, err
		}
	}
	return site, Sanitize(site), nil
}

// Parse decodes YAML into site, keeping fields the document does not set.
// Section entries are decoded onto the existing timing of that section, so a
// file that only sets a stagger keeps the default threshold and margin.
func Parse(raw []byte, site *Site) error {
	sections := site.Sections
	site.Sections = nil
	if err := yaml.Unmarshal(raw, site); err != nil {
		site.Sections = sections
		return fmt.Errorf("parse content file: %w", err)
	}
	var doc struct {
		Sections map[string]yaml.Node `yaml:"sections"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse content file: %w", err)
	}
	merged := make(map[string]SectionConfig, len(sections)+len(doc.Sections))
	for id, c := range sections {
		merged[id] = c
	}
	for id, node := range doc.Sections {
		c, ok := merged[id]
		if !ok {
			c = DefaultSections()[id]
		}
		if err := node.Decode(&c); err != nil {
			return fmt.Errorf("parse section %s: %w", id, err)
		}
		merged[id] = c
	}
	site.Sections = merged
	return nil
}

// Sanitize repairs malformed records in place so one bad entry never takes
// the page down. It returns what it changed.
func Sanitize(site *Site) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(site.Projects))
	for i := range site.Projects {
		p := &site.Projects[i]
		if strings.TrimSpace(p.ID) == "" || seen[p.ID] {
			id := "project-" + strconv.Itoa(i+1)
			for seen[id] {
				id += "-dup"
			}
			issues = append(issues, Issue{"project", i, "id", "replaced " + strconv.Quote(p.ID) + " with " + id})
			p.ID = id
		}
		seen[p.ID] = true
		if strings.TrimSpace(p.Title) == "" {
			p.Title = "Untitled project"
			issues = append(issues, Issue{"project", i, "title", "placeholder title"})
		}
		if strings.TrimSpace(p.Image) == "" {
			p.Image = PlaceholderImage
			issues = append(issues, Issue{"project", i, "image", "placeholder image"})
		}
		if strings.TrimSpace(p.Category) == "" {
			p.Category = "uncategorized"
			issues = append(issues, Issue{"project", i, "category", "set to uncategorized"})
		}
	}
	for i := range site.Stats {
		s := &site.Stats[i]
		if s.Value < 0 {
			s.Value = 0
			issues = append(issues, Issue{"stat", i, "value", "negative value set to 0"})
		}
		if strings.TrimSpace(s.Label) == "" {
			s.Label = "Stat " + strconv.Itoa(i+1)
			issues = append(issues, Issue{"stat", i, "label", "placeholder label"})
		}
	}
	for i := range site.Skills {
		sk := &site.Skills[i]
		if sk.Rating < 0 || sk.Rating > 5 {
			sk.Rating = min(max(sk.Rating, 0), 5)
			issues = append(issues, Issue{"skill", i, "rating", "clamped to 0..5"})
		}
	}
	for id, c := range site.Sections {
		if c.Threshold < 0 || c.Threshold > 1 {
			c.Threshold = min(max(c.Threshold, 0), 1)
			site.Sections[id] = c
			issues = append(issues, Issue{"section " + id, 0, "threshold", "clamped to 0..1"})
		}
	}
	return issues
}
