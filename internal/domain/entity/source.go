package entity

// SourceConfig describes one external feed endpoint. The source list is
// loaded once at startup and is read-only afterwards.
type SourceConfig struct {
	Name            string   `yaml:"name"`
	Endpoint        string   `yaml:"endpoint"`
	DefaultCategory Category `yaml:"default_category"`
}

// Validate validates the SourceConfig fields.
// An empty default category falls back to "others".
func (s *SourceConfig) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if s.Endpoint == "" {
		return &ValidationError{Field: "endpoint", Message: "cannot be empty"}
	}
	if s.DefaultCategory == "" {
		s.DefaultCategory = CategoryOthers
	}
	if !s.DefaultCategory.IsValid() {
		return &ValidationError{Field: "default_category", Message: "unknown category"}
	}
	return nil
}
