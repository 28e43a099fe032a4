package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	apperrors "focustracker/internal/errors"
	"focustracker/internal/model"
	"focustracker/internal/repository"
)

// Palette assigns colors to categories created without one.
var Palette = []string{"#e74c3c", "#f39c12", "#2ecc71", "#3498db", "#9b59b6", "#1abc9c", "#e67e22"}

type CategoryService struct {
	repo   *repository.CategoryRepository
	logger *slog.Logger
}

func NewCategoryService(repo *repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryService{repo: repo, logger: logger}
}

// NormalizeCategoryName trims name and checks its length.
func NormalizeCategoryName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	length := utf8.RuneCountInString(trimmed)
	if length == 0 || length > model.MaxCategoryNameLength {
		return "", ErrInvalidCategoryName
	}
	return trimmed, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, *apperrors.APIError) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list categories", "error", err)
		return nil, apperrors.Internal("failed to list categories")
	}
	return categories, nil
}

// Exists reports whether a category with this exact name is stored.
func (s *CategoryService) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *CategoryService) Create(ctx context.Context, name, color string) (*model.Category, *apperrors.APIError) {
	normalized, err := NormalizeCategoryName(name)
	if err != nil {
		return nil, apperrors.BadRequest("invalid_category_name", err.Error())
	}

	if color == "" {
		count, countErr := s.repo.Count(ctx)
		if countErr != nil {
			s.logger.Error("count categories", "error", countErr)
			return nil, apperrors.Internal("failed to create category")
		}
		color = Palette[count%len(Palette)]
	}

	category, err := s.repo.Create(ctx, normalized, color)
	if errors.Is(err, repository.ErrDuplicateCategory) {
		return nil, apperrors.Conflict("duplicate_category", "category already exists", nil)
	}
	if err != nil {
		s.logger.Error("create category", "name", normalized, "error", err)
		return nil, apperrors.Internal("failed to create category")
	}

	s.logger.Info("category created", "id", category.ID, "name", category.Name)
	return category, nil
}

// Update renames or recolors a category. An empty color keeps the current one.
func (s *CategoryService) Update(ctx context.Context, id int64, name, color string) (*model.Category, *apperrors.APIError) {
	normalized, err := NormalizeCategoryName(name)
	if err != nil {
		return nil, apperrors.BadRequest("invalid_category_name", err.Error())
	}

	current, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("category_not_found", "category not found")
	}
	if err != nil {
		s.logger.Error("get category", "id", id, "error", err)
		return nil, apperrors.Internal("failed to update category")
	}
	if color == "" {
		color = current.Color
	}

	err = s.repo.Update(ctx, id, normalized, color)
	switch {
	case errors.Is(err, repository.ErrDuplicateCategory):
		return nil, apperrors.Conflict("duplicate_category", "category already exists", nil)
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.NotFound("category_not_found", "category not found")
	case err != nil:
		s.logger.Error("update category", "id", id, "error", err)
		return nil, apperrors.Internal("failed to update category")
	}

	current.Name = normalized
	current.Color = color
	return current, nil
}

// Delete removes a category. Sessions recorded under it keep their totals.
func (s *CategoryService) Delete(ctx context.Context, id int64) *apperrors.APIError {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("count categories", "error", err)
		return apperrors.Internal("failed to delete category")
	}
	if count <= 1 {
		if _, getErr := s.repo.GetByID(ctx, id); errors.Is(getErr, repository.ErrNotFound) {
			return apperrors.NotFound("category_not_found", "category not found")
		}
		return apperrors.Conflict("last_category", ErrLastCategory.Error(), nil)
	}

	err = s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("category_not_found", "category not found")
	}
	if err != nil {
		s.logger.Error("delete category", "id", id, "error", err)
		return apperrors.Internal("failed to delete category")
	}

	s.logger.Info("category deleted", "id", id)
	return nil
}
