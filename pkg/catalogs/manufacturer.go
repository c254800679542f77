package catalogs

// Manufacturer is a paint brand with its series in declared order.
type Manufacturer struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Country string   `yaml:"country,omitempty" json:"country,omitempty"`
	Website string   `yaml:"website,omitempty" json:"website,omitempty"`
	Series  []Series `yaml:"series,omitempty" json:"series,omitempty"`
}

// SeriesByID returns the series with the given id.
func (m Manufacturer) SeriesByID(id string) (Series, bool) {
	id = normalizeID(id)
	for _, s := range m.Series {
		if s.ID == id {
			return s, true
		}
	}
	return Series{}, false
}

// Series is a product line of a manufacturer, e.g. Tamiya XF.
type Series struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	ColorType string `yaml:"color_type,omitempty" json:"color_type,omitempty"`
}

// Entry is one color of a series.
type Entry struct {
	Brand       string `yaml:"-" json:"brand"`
	BrandName   string `yaml:"-" json:"brand_name"`
	Series      string `yaml:"-" json:"series"`
	Code        string `yaml:"code" json:"code"`
	DisplayCode string `yaml:"display_code,omitempty" json:"display_code,omitempty"`
	Name        string `yaml:"name" json:"name"`
	Hex         string `yaml:"hex,omitempty" json:"hex,omitempty"`
	Finish      string `yaml:"finish,omitempty" json:"finish,omitempty"`
	ColorType   string `yaml:"color_type,omitempty" json:"color_type,omitempty"`
}

// Label returns the display code and name, e.g. "XF-1 Flat Black".
func (e Entry) Label() string {
	code := e.DisplayCode
	if code == "" {
		code = e.Code
	}
	if code == "" {
		return e.Name
	}
	return code + " " + e.Name
}
