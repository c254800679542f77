package matcher

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"XF-1", "XF1"},
		{"xf 1", "XF1"},
		{"70.950", "70950"},
		{" h-12 ", "H12"},
		{"Flat Black", "FLATBLACK"},
		{"", ""},
		{" - . ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		pattern string
		input   string
		want    bool
	}{
		{"substring code", Substring, "xf1", "XF-1", true},
		{"substring longer code", Substring, "xf1", "XF-10", true},
		{"substring name", Substring, "flat bl", "Flat Black", true},
		{"substring miss", Substring, "xf2", "XF-1", false},
		{"exact hit", Exact, "xf 1", "XF-1", true},
		{"exact miss", Exact, "xf1", "XF-10", false},
		{"prefix hit", Prefix, "70.9", "70.950", true},
		{"prefix miss", Prefix, "950", "70.950", false},
		{"empty pattern", Substring, " - ", "XF-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.mode, tt.pattern)
			if got := m.Match(tt.input); got != tt.want {
				t.Errorf("Match(%q) with %s %q = %v, want %v", tt.input, tt.mode, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatchHelpers(t *testing.T) {
	m := New(Substring, "xf")
	inputs := []string{"X-20A", "XF-1", "LP-1", "XF-2"}

	if got := m.MatchAll(inputs...); !reflect.DeepEqual(got, []string{"XF-1", "XF-2"}) {
		t.Errorf("MatchAll() = %v", got)
	}
	if got := m.MatchFirst(inputs...); got != "XF-1" {
		t.Errorf("MatchFirst() = %q", got)
	}
	if !m.MatchAny("nope", "XF-3") {
		t.Error("MatchAny() = false, want true")
	}
	if m.Pattern() != "xf" {
		t.Errorf("Pattern() = %q", m.Pattern())
	}
	if m.Empty() {
		t.Error("Empty() = true for non-empty pattern")
	}
	if !New(Exact, "").Empty() {
		t.Error("Empty() = false for empty pattern")
	}
}

func TestLeadingAlpha(t *testing.T) {
	tests := map[string]string{
		"XF-1":   "XF",
		"xf1":    "XF",
		"LP-12":  "LP",
		"70.950": "",
		"H12":    "H",
		"":       "",
		"RC001":  "RC",
	}
	for in, want := range tests {
		if got := LeadingAlpha(in); got != want {
			t.Errorf("LeadingAlpha(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Čárový kód", "carovy kod"},
		{"EAN:", "ean"},
		{"  Datum   vydání ", "datum vydani"},
		{"Barcode", "barcode"},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCollapseSpace(t *testing.T) {
	if got := CollapseSpace("  € 39,90 \n "); got != "€ 39,90" {
		t.Errorf("CollapseSpace() = %q", got)
	}
}
