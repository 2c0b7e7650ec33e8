package repository

import (
	"context"

	"tube-catalog/domain/model"
)

// II18nLanguage persists the language reference table so display names
// can be joined against stored entities.
type II18nLanguage interface {
	Save(ctx context.Context, language *model.Language) error
	SaveAll(ctx context.Context, languages []model.Language) error
	FindAll(ctx context.Context) ([]model.Language, error)
	GetByCode(ctx context.Context, code string) (*model.Language, error)
	DeleteByCode(ctx context.Context, code string) error
}
