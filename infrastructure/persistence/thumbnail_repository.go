package persistence

import (
	"context"

	"tube-catalog/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ThumbnailRepository persists thumbnail renditions through GORM on the
// MySQL database. One row per (owner, size).

type ThumbnailRepository struct{ db *gorm.DB }

func NewThumbnailRepository(db *gorm.DB) *ThumbnailRepository {
	return &ThumbnailRepository{db: db}
}

// EnsureThumbnailSchema migrates the thumbnails table
func EnsureThumbnailSchema(db *gorm.DB) error {
	return db.AutoMigrate(&model.Thumbnail{})
}

func (r *ThumbnailRepository) Save(ctx context.Context, thumbnail *model.Thumbnail) error {
	if r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "size"}},
		UpdateAll: true,
	}).Create(thumbnail).Error
}

func (r *ThumbnailRepository) SaveAll(ctx context.Context, thumbnails []model.Thumbnail) error {
	if r.db == nil || len(thumbnails) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "size"}},
		UpdateAll: true,
	}).Create(&thumbnails).Error
}

func (r *ThumbnailRepository) FindAll(ctx context.Context) ([]model.Thumbnail, error) {
	if r.db == nil {
		return nil, nil
	}
	var out []model.Thumbnail
	err := r.db.WithContext(ctx).Find(&out).Error
	return out, err
}

func (r *ThumbnailRepository) FindByOwner(ctx context.Context, ownerID string) ([]model.Thumbnail, error) {
	if r.db == nil {
		return nil, nil
	}
	var out []model.Thumbnail
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&out).Error
	return out, err
}

// DeleteByOwner removes every rendition of one entity; no-op when absent
func (r *ThumbnailRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	if r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&model.Thumbnail{}).Error
}
