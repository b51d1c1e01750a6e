package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	orig := Version
	defer func() { Version = orig }()

	tests := []struct {
		in   string
		want string
	}{
		{"1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Colored(); got != tt.want {
			t.Errorf("Colored() with %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCurrent(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = ""
	if got := Current(); got.Version != "dev" || got.Tool != "sjtc" {
		t.Errorf("Current() = %+v", got)
	}
}
