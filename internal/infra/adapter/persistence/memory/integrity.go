package memory

import (
	"ainews-feed/internal/domain/entity"
	"ainews-feed/internal/repository"
)

// CheckIntegrity scans every stored item and reports structural problems:
// missing required fields, an ID that no longer matches its derivation from
// (link, publishedAt), zero timestamps, and categories outside the known set.
func (s *ItemStore) CheckIntegrity() repository.IntegrityReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := repository.IntegrityReport{
		IsValid:    true,
		Issues:     []repository.IntegrityIssue{},
		TotalItems: len(s.items),
	}

	for key, item := range s.items {
		problems := itemProblems(key, item)
		if len(problems) == 0 {
			report.ValidItems++
			continue
		}
		report.IsValid = false
		report.Issues = append(report.Issues, repository.IntegrityIssue{
			ItemID:   key,
			Problems: problems,
		})
	}
	return report
}

// itemProblems lists everything wrong with a single stored item.
func itemProblems(key string, item entity.Item) []string {
	var problems []string

	if item.ID == "" {
		problems = append(problems, "missing id")
	}
	if key != item.ID {
		problems = append(problems, "store key does not match item id")
	}
	if item.Title == "" {
		problems = append(problems, "missing title")
	}
	if item.Link == "" {
		problems = append(problems, "missing link")
	}
	if item.SourceName == "" {
		problems = append(problems, "missing source name")
	}
	if item.PublishedAt.IsZero() {
		problems = append(problems, "invalid published_at")
	}
	if item.IngestedAt.IsZero() {
		problems = append(problems, "invalid ingested_at")
	}
	if item.ID != "" && item.Link != "" && !item.PublishedAt.IsZero() {
		if entity.NewItemID(item.Link, item.PublishedAt) != item.ID {
			problems = append(problems, "id does not match link and published_at")
		}
	}
	if !item.Category.IsValid() {
		problems = append(problems, "category not in known set")
	}
	return problems
}
