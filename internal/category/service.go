package category

import (
	"errors"
	"fmt"
	"time"

	category_db "ms-eventhub/internal/category/db"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/validation"

	"github.com/google/uuid"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryDBLayer interface {
	CreateCategory(category models.Category) error
	GetCategoryByID(id string) (*models.Category, error)
	UpdateCategory(category models.Category) error
	DeleteCategory(id string) error
	ListCategories(limit, page int, search string) ([]models.Category, int, error)
}

type CategoryService struct {
	DB CategoryDBLayer
}

func NewCategoryService(db CategoryDBLayer) *CategoryService {
	return &CategoryService{DB: db}
}

func (s *CategoryService) CreateCategory(req models.CategoryRequest) (*models.Category, error) {
	if ferr := validation.Struct(req); ferr != nil {
		return nil, ferr
	}

	category := models.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		CreatedAt:   time.Now(),
	}

	if err := s.DB.CreateCategory(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) GetCategory(id string) (*models.Category, error) {
	category, err := s.DB.GetCategoryByID(id)
	if errors.Is(err, category_db.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(id string, req models.CategoryRequest) (*models.Category, error) {
	if ferr := validation.Struct(req); ferr != nil {
		return nil, ferr
	}

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.Description = req.Description
	category.Icon = req.Icon
	category.UpdatedAt = time.Now()

	if err := s.DB.UpdateCategory(*category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(id string) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.DeleteCategory(id); err != nil {
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) ListCategories(limit, page int, search string) ([]models.Category, int, error) {
	return s.DB.ListCategories(limit, page, search)
}
