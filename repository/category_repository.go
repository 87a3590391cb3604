// file: repository/category_repository.go

package repository

import (
	"context"
	"database/sql"
	"service-desk/logger"
	"service-desk/model"

	"github.com/sirupsen/logrus"
)

// ICategoryRepository defines the contract for category storage.
type ICategoryRepository interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id int) error
}

type CategoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// ListCategories returns all categories ordered by name.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	log := logger.Log
	log.Info("Executing query to list categories")

	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		log.WithError(err).Error("Failed to execute list categories query")
		return nil, err
	}
	defer rows.Close()

	categories := []*model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			log.WithError(err).Error("Failed to scan category row")
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id int) (*model.Category, error) {
	c := &model.Category{}
	err := r.DB.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("category_id", id).Error("Failed to execute get category query")
		}
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	log := logger.Log.WithField("name", category.Name)
	log.Info("Executing query to create a new category")

	err := r.DB.QueryRowContext(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name).Scan(&category.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute create category query")
		return mapError(err)
	}
	return nil
}

func (r *CategoryRepository) UpdateCategory(ctx context.Context, category *model.Category) error {
	log := logger.Log.WithFields(logrus.Fields{
		"category_id": category.ID,
		"name":        category.Name,
	})
	log.Info("Executing query to update category")

	res, err := r.DB.ExecContext(ctx, `UPDATE categories SET name = $1 WHERE id = $2`, category.Name, category.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update category query")
		return mapError(err)
	}
	return requireAffected(res)
}

// DeleteCategory removes a category. Requests referencing it keep existing
// with a NULL category (ON DELETE SET NULL in the schema).
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int) error {
	log := logger.Log.WithField("category_id", id)
	log.Info("Executing query to delete category")

	res, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete category query")
		return err
	}
	return requireAffected(res)
}
