package extract

import (
	"slices"
	"testing"

	"markestedt/dropzip/platform"
)

func TestFlags(t *testing.T) {
	tests := []struct {
		name string
		mods platform.Modifier
		want []string
	}{
		{name: "no modifiers", mods: 0, want: []string{"-n", "-l"}},
		{name: "alt and shift", mods: platform.ModAlt | platform.ModShift, want: []string{"-D", "-l"}},
		{name: "alt only", mods: platform.ModAlt, want: []string{"-l"}},
		{name: "shift only", mods: platform.ModShift, want: []string{"-n", "-D", "-l"}},
		{name: "ctrl and win are ignored", mods: platform.ModCtrl | platform.ModWin, want: []string{"-n", "-l"}},
		{name: "all modifiers", mods: platform.ModCtrl | platform.ModAlt | platform.ModShift | platform.ModWin, want: []string{"-D", "-l"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Flags(tt.mods); !slices.Equal(got, tt.want) {
				t.Fatalf("Flags(%v) = %v, want %v", tt.mods, got, tt.want)
			}
		})
	}
}

func TestSpecCommandLine(t *testing.T) {
	spec := Spec{Executable: "tool", Args: []string{"-n", "-l", `C:\My Files\a.zip`}}
	want := `tool -n -l "C:\My Files\a.zip"`
	if got := spec.CommandLine(); got != want {
		t.Fatalf("CommandLine() = %q, want %q", got, want)
	}
}

func TestProgressString(t *testing.T) {
	if got, want := (Progress{Completed: 1, Total: 2}).String(), "extracting: 1/2"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
