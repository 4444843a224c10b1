// Package catalog holds the fixed, read-only table of video services that
// every recommendation refers to.
package catalog

import "reelmatch/internal/models"

// AllCategories is the pseudo-category that disables filtering.
const AllCategories = "All"

var services = []models.ServiceRecord{
	{
		ID:             "brand-film",
		Title:          "Brand Film",
		Description:    "Best for storytelling and showing the soul of your brand.",
		Category:       "Branding",
		SubCategory:    "Brand Strategy",
		IconToken:      "Clapperboard",
		SampleMediaRef: "https://placehold.co/800x450/2563eb/FFF?text=Brand+Film+Example",
	},
	{
		ID:             "ad-film",
		Title:          "Ad Film / TVC",
		Description:    "High-impact commercials designed for TV and digital campaigns.",
		Category:       "Advertising",
		SubCategory:    "Commercials",
		IconToken:      "Megaphone",
		SampleMediaRef: "https://placehold.co/800x450/e11d48/FFF?text=TV+Commercial+Example",
	},
	{
		ID:             "corporate",
		Title:          "Corporate Video",
		Description:    "Professional overview of your company, culture, and capabilities.",
		Category:       "Corporate",
		SubCategory:    "Internal Comms",
		IconToken:      "Building2",
		SampleMediaRef: "https://placehold.co/800x450/475569/FFF?text=Corporate+Video+Example",
	},
	{
		ID:             "product-demo",
		Title:          "Product Demo Video",
		Description:    "Showcase how your product works with clear visuals.",
		Category:       "Product",
		SubCategory:    "Product Marketing",
		IconToken:      "Box",
		SampleMediaRef: "https://placehold.co/800x450/059669/FFF?text=Product+Demo+Example",
	},
	{
		ID:             "founder-story",
		Title:          "Founder Story",
		Description:    "Great for humanising your startup’s mission and origins.",
		Category:       "Branding",
		SubCategory:    "Personal Branding",
		IconToken:      "User",
		SampleMediaRef: "https://placehold.co/800x450/d97706/FFF?text=Founder+Story+Example",
	},
	{
		ID:             "event-coverage",
		Title:          "Event Coverage / Aftermovie",
		Description:    "Capture the energy of your conference, expo, or meetup.",
		Category:       "Events",
		SubCategory:    "Event Marketing",
		IconToken:      "Camera",
		SampleMediaRef: "https://placehold.co/800x450/7c3aed/FFF?text=Event+Aftermovie+Example",
	},
	{
		ID:             "animated-explainer",
		Title:          "Animated Explainer",
		Description:    "Simplify complex ideas using engaging 2D/3D animation.",
		Category:       "Animation",
		SubCategory:    "Motion Graphics",
		IconToken:      "PenTool",
		SampleMediaRef: "https://placehold.co/800x450/db2777/FFF?text=Animated+Explainer+Example",
	},
	{
		ID:             "testimonial",
		Title:          "Testimonial Video",
		Description:    "Build trust with authentic customer reviews and success stories.",
		Category:       "Social Proof",
		SubCategory:    "Customer Success",
		IconToken:      "MessageSquareQuote",
		SampleMediaRef: "https://placehold.co/800x450/0891b2/FFF?text=Testimonial+Video+Example",
	},
	{
		ID:             "social-promo",
		Title:          "Social Media Promo",
		Description:    "Perfect for short-form platforms like IG Reels or YouTube Shorts.",
		Category:       "Social",
		SubCategory:    "Content Marketing",
		IconToken:      "Smartphone",
		SampleMediaRef: "https://placehold.co/800x450/be185d/FFF?text=Social+Media+Promo+Example",
	},
	{
		ID:             "ugc-style",
		Title:          "UGC-Style Video",
		Description:    "Authentic, user-generated content style for high engagement.",
		Category:       "Social",
		SubCategory:    "Content Marketing",
		IconToken:      "Video",
		SampleMediaRef: "https://placehold.co/800x450/65a30d/FFF?text=UGC+Style+Example",
	},
	{
		ID:             "drone-aerial",
		Title:          "Drone / Aerial Cinematography",
		Description:    "Breathtaking aerial views to add scale and high production value to your project.",
		Category:       "Production",
		SubCategory:    "Cinematography",
		IconToken:      "Camera",
		SampleMediaRef: "https://placehold.co/800x450/0284c7/FFF?text=Drone+Footage+Example",
	},
	{
		ID:             "training-series",
		Title:          "Training & Onboarding Series",
		Description:    "Standardize your education with clear, professional training modules for staff or clients.",
		Category:       "Corporate",
		SubCategory:    "Learning & Development",
		IconToken:      "Building2",
		SampleMediaRef: "https://placehold.co/800x450/ea580c/FFF?text=Training+Series+Example",
	},
	{
		ID:             "podcast-production",
		Title:          "Video Podcast Production",
		Description:    "Full-service recording and editing to turn your conversations into engaging content.",
		Category:       "Social",
		SubCategory:    "Audio/Visual",
		IconToken:      "MessageSquareQuote",
		SampleMediaRef: "https://placehold.co/800x450/8b5cf6/FFF?text=Video+Podcast+Example",
	},
	{
		ID:             "live-streaming",
		Title:          "Live Streaming & Broadcast",
		Description:    "Professional multi-camera production for live events, webinars, and conferences.",
		Category:       "Events",
		SubCategory:    "Broadcasting",
		IconToken:      "Radio",
		SampleMediaRef: "https://placehold.co/800x450/dc2626/FFF?text=Live+Stream+Example",
	},
	{
		ID:             "3d-visualization",
		Title:          "3D Product Visualization",
		Description:    "Photorealistic 3D renders and animations to showcase product details and internal mechanisms.",
		Category:       "Animation",
		SubCategory:    "3D Rendering",
		IconToken:      "Layers",
		SampleMediaRef: "https://placehold.co/800x450/7c3aed/FFF?text=3D+Product+Viz+Example",
	},
	{
		ID:             "recruitment-culture",
		Title:          "Recruitment & Culture",
		Description:    "Showcase your company values and office vibe to attract top talent.",
		Category:       "Corporate",
		SubCategory:    "Talent Acquisition",
		IconToken:      "Users",
		SampleMediaRef: "https://placehold.co/800x450/16a34a/FFF?text=Recruitment+Video+Example",
	},
}

// byID is built once at init and only read afterwards.
var byID = func() map[string]int {
	idx := make(map[string]int, len(services))
	for i, s := range services {
		idx[s.ID] = i
	}
	return idx
}()

// All returns the catalog in its canonical order. The slice is a copy.
func All() []models.ServiceRecord {
	out := make([]models.ServiceRecord, len(services))
	copy(out, services)
	return out
}

// Lookup returns the service with the given id.
func Lookup(id string) (models.ServiceRecord, bool) {
	i, ok := byID[id]
	if !ok {
		return models.ServiceRecord{}, false
	}
	return services[i], true
}

// Exists reports whether id names a catalog service.
func Exists(id string) bool {
	_, ok := byID[id]
	return ok
}

// Categories returns "All" followed by each distinct category in first-seen order.
func Categories() []string {
	seen := make(map[string]bool)
	cats := []string{AllCategories}
	for _, s := range services {
		if seen[s.Category] {
			continue
		}
		seen[s.Category] = true
		cats = append(cats, s.Category)
	}
	return cats
}

// Filter returns the services in category, or the whole catalog for "All"/"".
func Filter(category string) []models.ServiceRecord {
	if category == "" || category == AllCategories {
		return All()
	}
	out := []models.ServiceRecord{}
	for _, s := range services {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// IsCategory reports whether category is "All" or one of the catalog categories.
func IsCategory(category string) bool {
	for _, c := range Categories() {
		if c == category {
			return true
		}
	}
	return false
}
