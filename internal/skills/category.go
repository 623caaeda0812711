// Package skills holds skill categories and the create-skill form rules.
package skills

// Category is the kind of learning path a skill belongs to.
type Category string

const (
	CategoryTechnical   Category = "technical"
	CategoryCreative    Category = "creative"
	CategoryBusiness    Category = "business"
	CategoryMarketing   Category = "marketing"
	CategoryDesign      Category = "design"
	CategoryLanguage    Category = "language"
	CategoryScience     Category = "science"
	CategoryMathematics Category = "mathematics"
	CategoryHealth      Category = "health"
	CategoryMusic       Category = "music"
	CategoryFinance     Category = "finance"
	CategoryOther       Category = "other"
)

// AllCategories returns the categories in the order the create form lists them.
func AllCategories() []Category {
	return []Category{
		CategoryTechnical, CategoryCreative, CategoryBusiness, CategoryMarketing,
		CategoryDesign, CategoryLanguage, CategoryScience, CategoryMathematics,
		CategoryHealth, CategoryMusic, CategoryFinance, CategoryOther,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable name.
func (c Category) Label() string {
	switch c {
	case CategoryTechnical:
		return "Technical"
	case CategoryCreative:
		return "Creative"
	case CategoryBusiness:
		return "Business"
	case CategoryMarketing:
		return "Marketing"
	case CategoryDesign:
		return "Design"
	case CategoryLanguage:
		return "Language"
	case CategoryScience:
		return "Science"
	case CategoryMathematics:
		return "Mathematics"
	case CategoryHealth:
		return "Health & Fitness"
	case CategoryMusic:
		return "Music"
	case CategoryFinance:
		return "Finance"
	case CategoryOther:
		return "Other"
	default:
		return string(c)
	}
}

// Emoji returns the icon shown next to the label.
func (c Category) Emoji() string {
	switch c {
	case CategoryTechnical:
		return "💻"
	case CategoryCreative:
		return "🎨"
	case CategoryBusiness:
		return "💼"
	case CategoryMarketing:
		return "📈"
	case CategoryDesign:
		return "🎭"
	case CategoryLanguage:
		return "🌍"
	case CategoryScience:
		return "🔬"
	case CategoryMathematics:
		return "📐"
	case CategoryHealth:
		return "💪"
	case CategoryMusic:
		return "🎵"
	case CategoryFinance:
		return "💰"
	default:
		return "📚"
	}
}

// String renders the category as "emoji label".
func (c Category) String() string {
	return c.Emoji() + " " + c.Label()
}
