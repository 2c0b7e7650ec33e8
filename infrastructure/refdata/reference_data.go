package refdata

import (
	"fmt"
	"io/fs"
	"sync"

	"tube-catalog/domain/model"
	"tube-catalog/infrastructure/logger"
)

// ReferenceData holds the process-lifetime reference tables. It is built
// once at startup and passed by reference to consumers; nothing mutates
// it after construction except the per-category select-option memo.
type ReferenceData struct {
	fsys       fs.FS
	categories map[string]string

	languages []model.Language
	regions   []model.Region

	mu      sync.Mutex
	options map[string][]model.SelectOption
}

// New loads the language and region tables from fsys and prepares the
// select-option categories for lazy loading. categories maps a category
// name to its bundle file within fsys.
func New(fsys fs.FS, categories map[string]string) (*ReferenceData, error) {
	rd := &ReferenceData{
		fsys:       fsys,
		categories: categories,
		options:    make(map[string][]model.SelectOption),
	}

	f, err := fsys.Open("languages.csv")
	if err != nil {
		return nil, fmt.Errorf("open languages.csv: %w", err)
	}
	languages, skipped, err := LoadLanguages(f, "languages.csv")
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("load languages: %w", err)
	}
	if skipped > 0 {
		logger.GetLogger().WithField("skipped", skipped).Warn("Malformed rows in languages.csv")
	}
	rd.languages = languages

	f, err = fsys.Open("regions.csv")
	if err != nil {
		return nil, fmt.Errorf("open regions.csv: %w", err)
	}
	regions, skipped, err := LoadRegions(f, "regions.csv")
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}
	if skipped > 0 {
		logger.GetLogger().WithField("skipped", skipped).Warn("Malformed rows in regions.csv")
	}
	rd.regions = regions

	return rd, nil
}

// Languages returns the loaded language table.
func (rd *ReferenceData) Languages() []model.Language { return rd.languages }

// Regions returns the loaded region table.
func (rd *ReferenceData) Regions() []model.Region { return rd.regions }

// SelectOptions returns the option list for a category. The underlying
// bundle never changes for the process lifetime, so the resolved list is
// memoized on first load.
func (rd *ReferenceData) SelectOptions(category string) ([]model.SelectOption, error) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	if cached, ok := rd.options[category]; ok {
		return cached, nil
	}
	bundle, ok := rd.categories[category]
	if !ok {
		return nil, fmt.Errorf("unknown select-option category %q", category)
	}
	f, err := rd.fsys.Open(bundle)
	if err != nil {
		return nil, fmt.Errorf("open bundle %s: %w", bundle, err)
	}
	defer f.Close()
	options, err := LoadSelectOptions(f)
	if err != nil {
		return nil, fmt.Errorf("load bundle %s: %w", bundle, err)
	}
	rd.options[category] = options
	return options, nil
}
