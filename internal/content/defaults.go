package content

import (
	"time"

	"github.com/Zachkp/folio/internal/motion"
)

// Default returns the built-in site. Callers own the returned value.
//
// The tab table keeps the label/key pairs exactly as the content owners
// wrote them. Several labels do not describe their key ("Blockchain" selects
// ui-ux); filtering only ever uses the key.
func Default() *Site {
	return &Site{
		Owner: Owner,
		Hero: Hero{
			Greeting:     "Hello. I'm " + Owner,
			Title:        HeroTitle,
			Quote:        HeroQuote,
			ProfileImage: "https://i.ibb.co/Ps1MrTqy/portrait-enhanced.jpg",
			Links: []Link{
				{Label: "GitHub", URL: "https://github.com/Abhinava1309"},
				{Label: "LinkedIn", URL: "https://www.linkedin.com/in/abhinava-ghosh-054766283/"},
			},
		},
		About: AboutMe,
		Services: []Service{
			{Title: "Software Development", Description: SoftwareDevelopment},
			{Title: "Web Development", Description: WebDevelopment},
			{Title: "Data Analysis", Description: DataAnalysis},
			{Title: "Database Management", Description: DatabaseManagement},
		},
		Projects: DefaultProjects(),
		Tabs: []motion.Tab{
			{Label: "All Projects", Key: motion.AllCategory},
			{Label: "Blockchain", Key: "ui-ux"},
			{Label: "Webdev", Key: "3d-design"},
			{Label: "AI/ML", Key: "animation"},
			{Label: "Pyhton", Key: "logo-design"},
		},
		Skills: []Skill{
			{Name: "Web Development", Rating: 4, Category: "HTML, CSS, Bootstrap"},
			{Name: "Graphic Tools", Rating: 5, Category: "Adobe Photoshop, Illustrator, Figma"},
			{Name: "Programming", Rating: 4, Category: "Python, Java, C/C++"},
			{Name: "Data Analytics", Rating: 4, Category: "Excel, Pandas, NumPy"},
		},
		Stats: []Stat{
			{Value: 2000, Label: "Project Views", Suffix: "+"},
			{Value: 53, Label: "Happy Clients", Suffix: "+"},
			{Value: 3, Label: "Awards", Suffix: "+"},
			{Value: 3, Label: "Years Experience", Suffix: "+"},
		},
		Testimonial: Testimonial{
			Quote:    TestimonialQuote,
			Author:   "Client",
			Position: "CEO at GraphixTech",
			Image:    "https://api.dicebear.com/7.x/avataaars/svg?seed=client123",
		},
		Sections: DefaultSections(),
		Easing:   "ease-out",
	}
}

// DefaultSections is the reveal timing used when the site file leaves a
// section out.
func DefaultSections() map[string]SectionConfig {
	return map[string]SectionConfig{
		SectionHero:     {Threshold: 0},
		SectionAbout:    {Threshold: 0.2, Margin: -100, Stagger: 200 * time.Millisecond},
		SectionProjects: {Margin: -100, Stagger: 100 * time.Millisecond},
		SectionContact:  {Margin: -100, Tween: 2 * time.Second},
	}
}

// DefaultProjects is the built-in gallery.
func DefaultProjects() []Project {
	return []Project{
		{
			ID:          "1",
			Title:       "Helmet & Number Plate Detection App",
			Type:        "AI/ML, Streamlit UI",
			Description: "Real-time object detection using YOLOv3 and CNN.",
			Image:       "https://images.unsplash.com/photo-1576153192396-180ecef2a715?w=800&q=80",
			Category:    "AI/ML",
		},
		{
			ID:          "2",
			Title:       "Smart Resume Generator",
			Type:        "Flask Web App",
			Description: "ATS-optimized resume builder with scoring system.",
			Image:       "https://images.unsplash.com/photo-1586281380349-632531db7ed4?w=800&q=80",
			Category:    "ML",
		},
		{
			ID:          "3",
			Title:       "E-commerce App UI",
			Type:        "Design + Layout",
			Description: "Aesthetic online shop layout with product highlights.",
			Image:       "https://images.unsplash.com/photo-1607082349566-187342175e2f?w=800&q=80",
			Category:    "ui-ux",
		},
		{
			ID:          "4",
			Title:       "Accommodation App UI",
			Type:        "Mobile-first Design",
			Description: "Minimalist design with clean navigation for housing listings.",
			Image:       "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=800&q=80",
			Category:    "ui-ux",
		},
		{
			ID:          "5",
			Title:       "3D Product Visualization",
			Type:        "3D Modeling",
			Description: "Realistic 3D product renders for marketing materials.",
			Image:       "https://images.unsplash.com/photo-1617791160505-6f00504e3519?w=800&q=80",
			Category:    "3d-design",
		},
		{
			ID:          "6",
			Title:       "Motion Graphics Intro",
			Type:        "Animation",
			Description: "Dynamic animated intro for brand videos.",
			Image:       "https://images.unsplash.com/photo-1550745165-9bc0b252726f?w=800&q=80",
			Category:    "animation",
		},
		{
			ID:          "7",
			Title:       "Tech Startup Branding",
			Type:        "Logo Design",
			Description: "Modern logo and visual identity for tech company.",
			Image:       "https://images.unsplash.com/photo-1626785774573-4b799315345d?w=800&q=80",
			Category:    "logo-design",
		},
		{
			ID:          "8",
			Title:       "Restaurant Brand Identity",
			Type:        "Logo Design",
			Description: "Complete branding package for upscale restaurant.",
			Image:       "https://images.unsplash.com/photo-1583396060233-3d13dbadf242?w=800&q=80",
			Category:    "logo-design",
		},
	}
}
