package services

import (
	"database/sql"

	"github.com/fintrackhq/fintrack-be/internal/models"
)

// CategoryServiceProvider defines the interface for category services.
type CategoryServiceProvider interface {
	GetCategories(categoryType string) ([]models.Category, error)
}

// CategoryService serves the seeded reference categories.
type CategoryService struct {
	db *sql.DB
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{db: db}
}

// GetCategories lists categories, optionally filtered by type. A filtered
// query also includes categories usable by both types.
func (s *CategoryService) GetCategories(categoryType string) ([]models.Category, error) {
	var rows *sql.Rows
	var err error
	if categoryType != "" {
		rows, err = s.db.Query(
			"SELECT id, name, type, icon, color, created_at FROM categories WHERE type = ? OR type = 'both' ORDER BY name",
			categoryType)
	} else {
		rows, err = s.db.Query(
			"SELECT id, name, type, icon, color, created_at FROM categories ORDER BY type, name")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		var icon, color sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &icon, &color, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Icon = icon.String
		c.Color = color.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
