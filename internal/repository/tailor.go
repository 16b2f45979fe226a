package repository

import (
	"context"

	"github.com/creativehub205/ladies-tailor-shop/internal/models"

	"gorm.io/gorm/clause"
)

func (r *repo) CreateTailor(ctx context.Context, tailor *models.Tailor) error {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return err
	}

	return translateError(gormDB.Create(tailor).Error)
}

// CreateTailorIfAbsent inserts the tailor unless the username is taken.
// It reports whether a row was written.
func (r *repo) CreateTailorIfAbsent(ctx context.Context, tailor *models.Tailor) (bool, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return false, err
	}

	result := gormDB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(tailor)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindTailorByUsername(ctx context.Context, username string) (*models.Tailor, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var tailor models.Tailor
	if err := gormDB.Where("username = ?", username).First(&tailor).Error; err != nil {
		return nil, translateError(err)
	}
	return &tailor, nil
}

func (r *repo) FindTailorByID(ctx context.Context, id uint) (*models.Tailor, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var tailor models.Tailor
	if err := gormDB.First(&tailor, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &tailor, nil
}

func (r *repo) ListTailors(ctx context.Context) ([]*models.Tailor, error) {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var tailors []*models.Tailor
	if err := gormDB.Order("id").Find(&tailors).Error; err != nil {
		return nil, err
	}
	return tailors, nil
}

func (r *repo) UpdateTailorPassword(ctx context.Context, id uint, passwordHash string) error {
	gormDB, err := r.conn(ctx)
	if err != nil {
		return err
	}

	result := gormDB.Model(&models.Tailor{}).Where("id = ?", id).Update("password", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
