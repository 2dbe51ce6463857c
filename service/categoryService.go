package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lokhacodes/UComp/entity"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]*entity.Category, error)
	FindOneByName(ctx context.Context, name string) (*entity.Category, error)
	FindOneOrCreateByName(ctx context.Context, name string) (*entity.Category, error)
}

type CategoryService struct {
	categoryRepository CategoryRepository
}

func NewCategoryService(categoryRepository CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepository: categoryRepository,
	}
}

var categoryTitle = cases.Title(language.English)

func (s *CategoryService) FindAll(ctx context.Context) ([]*entity.Category, error) {
	categories, err := s.categoryRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []*entity.Category{}
	}

	return categories, nil
}

// Create normalizes the name to title case so "tech fest" and "Tech Fest"
// land on the same category document.
func (s *CategoryService) Create(ctx context.Context, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", ErrInvalidInput)
	}

	return s.categoryRepository.FindOneOrCreateByName(ctx, categoryTitle.String(name))
}
