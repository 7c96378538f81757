// Package content holds the static portfolio catalog: projects, stats,
// skills, services, the testimonial, tab configuration and per-section
// reveal timing.
package content

import (
	"time"

	"github.com/Zachkp/folio/internal/motion"
)

// PlaceholderImage is used for projects without an image reference.
const PlaceholderImage = "/static/img/placeholder.svg"

// Project is one card of the gallery.
type Project struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image" yaml:"image"`
	Category    string `json:"category" yaml:"category"`
}

func (p Project) FilterID() string       { return p.ID }
func (p Project) FilterCategory() string { return p.Category }

type Stat struct {
	Value  int    `json:"value" yaml:"value"`
	Label  string `json:"label" yaml:"label"`
	Suffix string `json:"suffix" yaml:"suffix"`
}

type Skill struct {
	Name     string `json:"name" yaml:"name"`
	Rating   int    `json:"rating" yaml:"rating"`
	Category string `json:"category" yaml:"category"`
}

// Service is a card of the about section.
type Service struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type Testimonial struct {
	Quote    string `json:"quote" yaml:"quote"`
	Author   string `json:"author" yaml:"author"`
	Position string `json:"position" yaml:"position"`
	Image    string `json:"image" yaml:"image"`
}

// SectionConfig is the reveal timing of one section.
type SectionConfig struct {
	// Threshold is the visible fraction that triggers the reveal.
	Threshold float64 `json:"threshold" yaml:"threshold"`
	// Margin shifts the viewport edges in pixels; negative delays the trigger.
	Margin float64 `json:"margin" yaml:"margin"`
	// Stagger is the delay between sibling reveals.
	Stagger time.Duration `json:"stagger" yaml:"stagger"`
	// Tween is the counter animation length.
	Tween time.Duration `json:"tween" yaml:"tween"`
}

// Section ids.
const (
	SectionHero     = "hero"
	SectionAbout    = "about"
	SectionProjects = "projects"
	SectionContact  = "contact"
)

// SectionOrder is the top-to-bottom order of the page.
var SectionOrder = []string{SectionHero, SectionAbout, SectionProjects, SectionContact}

// Link is a profile link shown under the hero portrait.
type Link struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Hero is the first screen of the page.
type Hero struct {
	Greeting     string `json:"greeting" yaml:"greeting"`
	Title        string `json:"title" yaml:"title"`
	Quote        string `json:"quote" yaml:"quote"`
	ProfileImage string `json:"profile_image" yaml:"profile_image"`
	Links        []Link `json:"links" yaml:"links"`
}

// Site is the whole content catalog.
type Site struct {
	Owner       string                   `json:"owner" yaml:"owner"`
	Hero        Hero                     `json:"hero" yaml:"hero"`
	About       string                   `json:"about" yaml:"about"`
	Services    []Service                `json:"services" yaml:"services"`
	Projects    []Project                `json:"projects" yaml:"projects"`
	Tabs        []motion.Tab             `json:"tabs" yaml:"tabs"`
	Skills      []Skill                  `json:"skills" yaml:"skills"`
	Stats       []Stat                   `json:"stats" yaml:"stats"`
	Testimonial Testimonial              `json:"testimonial" yaml:"testimonial"`
	Sections    map[string]SectionConfig `json:"sections" yaml:"sections"`
	// Easing of the stat counters: "linear" or "ease-out".
	Easing string `json:"easing" yaml:"easing"`
}

// Section returns the timing of id, falling back to the defaults.
func (s *Site) Section(id string) SectionConfig {
	if c, ok := s.Sections[id]; ok {
		return c
	}
	return DefaultSections()[id]
}
