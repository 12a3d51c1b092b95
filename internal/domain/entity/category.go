package entity

// Category is one of the fixed topical labels an item is classified into.
// The vocabulary is closed: classification output is always one of the
// values returned by Categories.
type Category string

// The classification vocabulary. These labels are part of the public API
// surface (query filters, category counts) and must not be renamed.
const (
	CategoryModels         Category = "AI models"
	CategoryIDE            Category = "AI IDE"
	CategoryAgents         Category = "AI agents"
	CategoryInfrastructure Category = "AI infrastructure"
	CategoryResearch       Category = "AI research"
	CategorySafety         Category = "AI safety"
	CategoryBusiness       Category = "AI business"
	CategoryOpenSource     Category = "AI open source"
	CategoryApplications   Category = "AI applications"
	CategoryOthers         Category = "others"
)

// Categories returns all valid categories in canonical order.
func Categories() []Category {
	return []Category{
		CategoryModels,
		CategoryIDE,
		CategoryAgents,
		CategoryInfrastructure,
		CategoryResearch,
		CategorySafety,
		CategoryBusiness,
		CategoryOpenSource,
		CategoryApplications,
		CategoryOthers,
	}
}

// IsValid reports whether c belongs to the known category set.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
