package keyword

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/portforge/archplan/pkg/errors"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	if !p.Stable {
		t.Error("DefaultProfile() should plan stabilization")
	}
	if !p.StableArches().Has("amd64") {
		t.Error("StableArches() missing amd64")
	}
	if !p.UnstableArches().Has("~amd64") {
		t.Error("UnstableArches() missing ~amd64")
	}
	if !p.UnstableArches().Has("~x86-fbsd") {
		t.Error("UnstableArches() missing unstable-only extra ~x86-fbsd")
	}
	if p.StableArches().Has("x86-fbsd") {
		t.Error("StableArches() must not contain unstable-only extras")
	}
	if !p.AllArches().Has("amd64") || !p.AllArches().Has("~amd64") {
		t.Error("AllArches() must contain both forms")
	}
}

func TestTargetArches(t *testing.T) {
	p := Profile{Stable: true, Arches: []string{"amd64", "arm"}}
	if !p.TargetArches().Equal(NewSet("amd64", "arm")) {
		t.Errorf("TargetArches() stable = %v", p.TargetArches().Sorted())
	}

	p.Stable = false
	if !p.TargetArches().Equal(NewSet("~amd64", "~arm")) {
		t.Errorf("TargetArches() keywording = %v", p.TargetArches().Sorted())
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.toml")
	content := `
stable = false
arches = ["amd64", "arm64"]
system_packages = ["sys-libs/glibc", "sys-devel/gcc"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error: %v", err)
	}
	if p.Stable {
		t.Error("LoadProfile() did not override stable")
	}
	if !p.StableArches().Equal(NewSet("amd64", "arm64")) {
		t.Errorf("LoadProfile() arches = %v", p.StableArches().Sorted())
	}
	if !p.IsSystemPackage("sys-libs/glibc-2.39") {
		t.Error("IsSystemPackage() missed configured prefix")
	}
	if p.IsSystemPackage("dev-lang/python-3.12") {
		t.Error("IsSystemPackage() matched unrelated package")
	}
}

func TestLoadProfileErrors(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadProfile(absent) error = %v, want FILE_NOT_FOUND", err)
	}

	empty := filepath.Join(t.TempDir(), "empty.toml")
	if err := os.WriteFile(empty, []byte("stable = true\narches = []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadProfile(empty)
	if !errors.Is(err, errors.ErrCodeInvalidProfile) {
		t.Errorf("LoadProfile(no arches) error = %v, want INVALID_PROFILE", err)
	}
}
