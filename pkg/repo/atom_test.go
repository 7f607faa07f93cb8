package repo

import (
	"testing"

	"github.com/portforge/archplan/pkg/errors"
)

func TestParseAtom(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Atom
		wantErr bool
	}{
		{
			name: "bare package",
			in:   "dev-lang/python",
			want: Atom{Category: "dev-lang", Name: "python"},
		},
		{
			name: "greater-equal",
			in:   ">=dev-libs/glib-2.78.0",
			want: Atom{Op: ">=", Category: "dev-libs", Name: "glib", Version: "2.78.0"},
		},
		{
			name: "tilde",
			in:   "~app-misc/foo-1.2",
			want: Atom{Op: "~", Category: "app-misc", Name: "foo", Version: "1.2"},
		},
		{
			name: "glob",
			in:   "=dev-lang/python-3.12*",
			want: Atom{Op: "=", Glob: true, Category: "dev-lang", Name: "python", Version: "3.12"},
		},
		{
			name: "blocker",
			in:   "!dev-libs/libressl",
			want: Atom{Blocker: true, Category: "dev-libs", Name: "libressl"},
		},
		{
			name: "strong blocker",
			in:   "!!sys-devel/automake",
			want: Atom{Blocker: true, Category: "sys-devel", Name: "automake"},
		},
		{
			name: "use bracket stripped",
			in:   ">=dev-libs/openssl-3.0[ssl,-bindist]",
			want: Atom{Op: ">=", Category: "dev-libs", Name: "openssl", Version: "3.0"},
		},
		{
			name: "slot",
			in:   "dev-lang/python:3.12",
			want: Atom{Category: "dev-lang", Name: "python", Slot: "3.12"},
		},
		{
			name: "slot operator stripped",
			in:   "dev-libs/icu:=",
			want: Atom{Category: "dev-libs", Name: "icu"},
		},
		{
			name: "slot with rebuild marker",
			in:   "dev-qt/qtcore:5=",
			want: Atom{Category: "dev-qt", Name: "qtcore", Slot: "5"},
		},
		{
			name: "repository qualifier stripped",
			in:   "dev-lang/rust::overlay",
			want: Atom{Category: "dev-lang", Name: "rust"},
		},
		{name: "not an atom", in: "virtual", wantErr: true},
		{name: "group operator", in: "||", wantErr: true},
		{name: "operator without version", in: ">=dev-lang/python", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAtom(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAtom(%q) expected error, got %+v", tt.in, got)
				}
				if !errors.Is(err, errors.ErrCodeInvalidAtom) {
					t.Errorf("ParseAtom(%q) error = %v, want INVALID_ATOM", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAtom(%q) error: %v", tt.in, err)
			}
			tt.want.Raw = tt.in
			if got != tt.want {
				t.Errorf("ParseAtom(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatchesVersion(t *testing.T) {
	tests := []struct {
		atom string
		ver  string
		want bool
	}{
		{"dev-lang/python", "3.12.1", true},
		{"=dev-lang/python-3.12.1", "3.12.1", true},
		{"=dev-lang/python-3.12.1", "3.12.2", false},
		{"=dev-lang/python-3.12*", "3.12.1", true},
		{"=dev-lang/python-3.12*", "3.11.8", false},
		{"~dev-lang/python-3.12.1", "3.12.1-r2", true},
		{"~dev-lang/python-3.12.1", "3.12.2", false},
		{">=dev-lang/python-3.12", "3.12", true},
		{">=dev-lang/python-3.12", "3.13", true},
		{">=dev-lang/python-3.12", "3.11.8", false},
		{"<=dev-lang/python-3.12", "3.12", true},
		{"<=dev-lang/python-3.12", "3.12.1", false},
		{">dev-lang/python-3.12", "3.12", false},
		{"<dev-lang/python-3.12", "3.11", true},
	}

	for _, tt := range tests {
		t.Run(tt.atom+" vs "+tt.ver, func(t *testing.T) {
			a, err := ParseAtom(tt.atom)
			if err != nil {
				t.Fatalf("ParseAtom(%q) error: %v", tt.atom, err)
			}
			if got := a.MatchesVersion(tt.ver); got != tt.want {
				t.Errorf("MatchesVersion(%q) = %v, want %v", tt.ver, got, tt.want)
			}
		})
	}
}
