package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/modamarket/backend/pkg/db/models"
	"github.com/modamarket/backend/pkg/enums"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
)

type faqLister interface {
	ListByCategory(ctx context.Context, category enums.FAQCategory) ([]models.FAQItem, error)
}

// Entry is one FAQ row as served to the board page.
type Entry struct {
	ID       int64             `json:"id"`
	Category enums.FAQCategory `json:"category"`
	Question string            `json:"question"`
	Answer   string            `json:"answer"`
}

// Service is the FAQ read surface.
type Service interface {
	List(ctx context.Context, category, keyword string) ([]Entry, error)
}

type service struct {
	repo faqLister
}

// NewService wires the FAQ dependencies.
func NewService(repo faqLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("faq repository required")
	}
	return &service{repo: repo}, nil
}

// List returns FAQ entries for the tab, narrowed by the keyword when
// one is given. An empty category means the all tab; the keyword
// matches case-insensitively against question and answer text.
func (s *service) List(ctx context.Context, category, keyword string) ([]Entry, error) {
	tab := enums.FAQCategoryAll
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		parsed, err := enums.ParseFAQCategory(trimmed)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown faq category")
		}
		tab = parsed
	}

	rows, err := s.repo.ListByCategory(ctx, tab)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list faq")
	}

	needle := strings.ToLower(strings.TrimSpace(keyword))
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if needle != "" && !matchesKeyword(row, needle) {
			continue
		}
		entries = append(entries, Entry{
			ID:       row.ID,
			Category: row.Category,
			Question: row.Question,
			Answer:   row.Answer,
		})
	}
	return entries, nil
}

func matchesKeyword(row models.FAQItem, needle string) bool {
	return strings.Contains(strings.ToLower(row.Question), needle) ||
		strings.Contains(strings.ToLower(row.Answer), needle)
}
