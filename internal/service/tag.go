package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/repo"
)

// nonSlug matches every run of characters that cannot appear in a slug.
var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, collapses every run of non-alphanumerics into a
// single hyphen and trims hyphens from both ends.
//
//	"Rocky  Mountains!" -> "rocky-mountains"
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// TagService implements business logic for Tag operations.
// Its primary responsibility is slug normalization: all tag identity is
// determined by slug, which is always lowercase and hyphenated.
type TagService struct {
	tags repo.TagRepo
}

// NewTagService constructs a TagService backed by the provided TagRepo.
func NewTagService(tags repo.TagRepo) *TagService {
	return &TagService{tags: tags}
}

// UpsertByName normalizes name into a slug and upserts the tag.
// Returns domain.ErrValidation when nothing is left after normalization.
func (s *TagService) UpsertByName(ctx context.Context, name string) (domain.Tag, error) {
	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return domain.Tag{}, fmt.Errorf("%w: tag name must contain letters or digits", domain.ErrValidation)
	}
	tag, err := s.tags.Upsert(ctx, name, slug)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.UpsertByName: %w", err)
	}
	return tag, nil
}

// List returns one page of tags whose slug starts with prefix. The prefix is
// lowercased so "Mount" finds "mountains".
func (s *TagService) List(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error) {
	tags, total, err := s.tags.ListPaged(ctx, strings.ToLower(strings.TrimSpace(prefix)), p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TagService.List: %w", err)
	}
	return nonNil(tags), total, nil
}
