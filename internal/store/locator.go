package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yourusername/permit-odds/internal/config"
	"github.com/yourusername/permit-odds/internal/models"
)

// Locator maps data years to record store files named <prefix><year>.<ext>.
type Locator struct {
	dir    string
	prefix string
	ext    string
	years  []int
}

// NewLocator creates a locator for the store directory in cfg. The configured
// default data years are the ones Check reports on.
func NewLocator(cfg *config.StoresConfig) *Locator {
	return &Locator{
		dir:    cfg.Dir,
		prefix: cfg.FilePrefix,
		ext:    strings.TrimPrefix(cfg.Extension, "."),
		years:  append([]int(nil), cfg.DefaultDataYears...),
	}
}

// NewDirLocator creates a locator using the odds_<year>.db convention.
func NewDirLocator(dir string) *Locator {
	return &Locator{dir: dir, prefix: "odds_", ext: "db"}
}

// Dir returns the store directory.
func (l *Locator) Dir() string {
	return l.dir
}

// Path returns the store path for a data year.
func (l *Locator) Path(year int) string {
	return filepath.Join(l.dir, fmt.Sprintf("%s%d.%s", l.prefix, year, l.ext))
}

// Exists reports whether the store file for year is present.
func (l *Locator) Exists(year int) bool {
	info, err := os.Stat(l.Path(year))
	return err == nil && !info.IsDir()
}

// Open opens the store for year. A missing file yields ErrStoreUnavailable.
func (l *Locator) Open(ctx context.Context, year int) (*Store, error) {
	path := l.Path(year)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrStoreUnavailable, path)
		}
		return nil, fmt.Errorf("failed to stat record store %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", models.ErrStoreUnavailable, path)
	}
	return Open(ctx, path, year)
}

// Years lists the data years that have a store file in the directory.
func (l *Locator) Years() ([]int, error) {
	pattern := filepath.Join(l.dir, l.prefix+"*."+l.ext)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list record stores: %w", err)
	}

	years := make([]int, 0, len(matches))
	for _, match := range matches {
		var year int
		name := filepath.Base(match)
		if _, err := fmt.Sscanf(name, l.prefix+"%d."+l.ext, &year); err == nil && l.Path(year) == match {
			years = append(years, year)
		}
	}
	sort.Ints(years)
	return years, nil
}

// Check verifies that every configured data year has a readable store.
func (l *Locator) Check(ctx context.Context) error {
	var missing []string
	for _, year := range l.years {
		st, err := l.Open(ctx, year)
		if err != nil {
			missing = append(missing, fmt.Sprintf("%d", year))
			continue
		}
		st.Close()
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: years %s", models.ErrStoreUnavailable, strings.Join(missing, ", "))
	}
	return nil
}
