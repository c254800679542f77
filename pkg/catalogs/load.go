package catalogs

import (
	"io/fs"
	"path"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/kitstash/pkg/errors"
)

const (
	manufacturersFile = "manufacturers.yaml"
	brandsDir         = "brands"
	specsFile         = "specs.yaml"
	seriesDir         = "series"
)

// load reads the catalog from the configured filesystem.
func (cat *catalog) load() error {
	if err := cat.loadManufacturersYAML(); err != nil {
		return err
	}
	return cat.loadBrandFiles()
}

// loadManufacturersYAML loads manufacturers from manufacturers.yaml.
func (cat *catalog) loadManufacturersYAML() error {
	data, err := fs.ReadFile(cat.options.readFS, manufacturersFile)
	if err != nil {
		return nil // File doesn't exist is okay
	}

	var manufacturers []Manufacturer
	if err := yaml.Unmarshal(data, &manufacturers); err != nil {
		return errors.WrapParse("yaml", manufacturersFile, err)
	}

	for i := range manufacturers {
		m := manufacturers[i]
		m.ID = normalizeID(m.ID)
		for j := range m.Series {
			m.Series[j].ID = normalizeID(m.Series[j].ID)
		}
		if err := cat.manufacturers.Set(&m); err != nil {
			return errors.NewParseError("yaml", manufacturersFile, err.Error(), err)
		}
	}
	return nil
}

// loadBrandFiles walks brands/ and loads series and spec files.
func (cat *catalog) loadBrandFiles() error {
	err := fs.WalkDir(cat.options.readFS, brandsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return errors.WrapIO("walk", p, err)
		}
		if d.IsDir() || path.Ext(p) != ".yaml" {
			return nil
		}

		data, err := fs.ReadFile(cat.options.readFS, p)
		if err != nil {
			return errors.WrapIO("read", p, err)
		}

		parts := strings.Split(p, "/")
		switch {
		case len(parts) == 3 && parts[2] == specsFile:
			return cat.loadSpecsFile(p, parts[1], data)
		case len(parts) == 4 && parts[2] == seriesDir:
			return cat.loadSeriesFile(p, parts[1], strings.TrimSuffix(parts[3], ".yaml"), data)
		default:
			return nil // Not a catalog file
		}
	})

	return err
}

// loadSeriesFile parses brands/<brand>/series/<series>.yaml.
// Files for brands or series not declared in manufacturers.yaml are skipped.
func (cat *catalog) loadSeriesFile(file, brandID, seriesID string, data []byte) error {
	brandID, seriesID = normalizeID(brandID), normalizeID(seriesID)

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return errors.WrapParse("yaml", file, err)
	}

	m, ok := cat.manufacturers.Get(brandID)
	if !ok {
		return nil
	}
	series, ok := m.SeriesByID(seriesID)
	if !ok {
		return nil
	}

	for i := range entries {
		e := &entries[i]
		e.Brand = brandID
		e.BrandName = m.Name
		e.Series = seriesID
		e.Code = strings.TrimSpace(e.Code)
		if e.DisplayCode == "" {
			e.DisplayCode = e.Code
		}
		if e.ColorType == "" {
			e.ColorType = series.ColorType
		}
	}

	if cat.entries[brandID] == nil {
		cat.entries[brandID] = make(map[string][]Entry)
	}
	cat.entries[brandID][seriesID] = entries
	return nil
}

// loadSpecsFile parses brands/<brand>/specs.yaml. Prefix keys are upper-cased.
func (cat *catalog) loadSpecsFile(file, brandID string, data []byte) error {
	var specs BrandSpecs
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return errors.WrapParse("yaml", file, err)
	}

	prefixes := make(map[string]string, len(specs.Prefixes))
	for prefix, colorType := range specs.Prefixes {
		prefixes[strings.ToUpper(strings.TrimSpace(prefix))] = colorType
	}
	specs.Prefixes = prefixes
	if specs.Types == nil {
		specs.Types = make(map[string]Spec)
	}

	cat.specs[normalizeID(brandID)] = specs
	return nil
}
