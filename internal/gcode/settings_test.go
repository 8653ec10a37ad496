package gcode

import (
	"strings"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if !s.OutputHeader || !s.OutputComments {
		t.Error("Header and comments should default to on")
	}
	if s.OutputLineNumbers {
		t.Error("Line numbers should default to off")
	}
	if !s.ShowEditor {
		t.Error("Editor preview should default to on")
	}
	if s.Precision != 3 {
		t.Errorf("Default precision should be 3, got %d", s.Precision)
	}
	if s.Modal {
		t.Error("Modal suppression should default to off")
	}
	if !s.OutputDoubles {
		t.Error("Duplicate output should default to on")
	}
	if !s.SkipFirstToolChange {
		t.Error("First tool change should be skipped by default")
	}
	if s.UnitsCode != "G20" || s.LengthUnit != "in" || s.SpeedUnit != "in/min" {
		t.Errorf("Defaults should be imperial, got %s/%s/%s", s.UnitsCode, s.LengthUnit, s.SpeedUnit)
	}
	if s.LineNumberStart != 100 || s.LineNumberStep != 10 {
		t.Errorf("Line numbering should be 100/10, got %d/%d", s.LineNumberStart, s.LineNumberStep)
	}
	if s.Preamble == "" || s.Postamble == "" || s.ToolChange == "" {
		t.Error("Built-in text blocks should be populated")
	}
}

func TestResolveSettings(t *testing.T) {
	t.Run("empty string keeps defaults", func(t *testing.T) {
		s, err := ResolveSettings("")
		if err != nil {
			t.Fatalf("ResolveSettings failed: %v", err)
		}
		if s != DefaultSettings() {
			t.Error("Empty argument string should resolve to the defaults")
		}
	})

	t.Run("toggles", func(t *testing.T) {
		cases := []struct {
			args  string
			check func(Settings) bool
			desc  string
		}{
			{"--no-header", func(s Settings) bool { return !s.OutputHeader }, "header off"},
			{"--no-comments", func(s Settings) bool { return !s.OutputComments }, "comments off"},
			{"--line-numbers", func(s Settings) bool { return s.OutputLineNumbers }, "line numbers on"},
			{"--no-show-editor", func(s Settings) bool { return !s.ShowEditor }, "editor off"},
			{"--modal", func(s Settings) bool { return s.Modal }, "modal on"},
			{"--no-tlo", func(s Settings) bool { return !s.UseTLO }, "tlo off"},
		}
		for _, tc := range cases {
			t.Run(tc.args, func(t *testing.T) {
				s, err := ResolveSettings(tc.args)
				if err != nil {
					t.Fatalf("ResolveSettings(%q) failed: %v", tc.args, err)
				}
				if !tc.check(s) {
					t.Errorf("%s not applied by %q", tc.desc, tc.args)
				}
			})
		}
	})

	t.Run("axis-modal disables duplicate output", func(t *testing.T) {
		s, err := ResolveSettings("--axis-modal")
		if err != nil {
			t.Fatalf("ResolveSettings failed: %v", err)
		}
		if s.OutputDoubles {
			t.Error("--axis-modal should turn duplicate output off")
		}
	})

	t.Run("precision", func(t *testing.T) {
		s, err := ResolveSettings("--precision=5")
		if err != nil {
			t.Fatalf("ResolveSettings failed: %v", err)
		}
		if s.Precision != 5 {
			t.Errorf("Expected precision 5, got %d", s.Precision)
		}
	})

	t.Run("inches switches units and precision", func(t *testing.T) {
		s, err := ResolveSettings("--inches")
		if err != nil {
			t.Fatalf("ResolveSettings failed: %v", err)
		}
		if s.UnitsCode != "G20" || s.LengthUnit != "in" || s.SpeedUnit != "in/min" {
			t.Errorf("Expected imperial units, got %s/%s/%s", s.UnitsCode, s.LengthUnit, s.SpeedUnit)
		}
		if s.Precision != 4 {
			t.Errorf("Imperial mode should force precision 4, got %d", s.Precision)
		}
	})

	t.Run("inches overrides an explicit precision", func(t *testing.T) {
		for _, args := range []string{"--precision=5 --inches", "--inches --precision=5"} {
			s, err := ResolveSettings(args)
			if err != nil {
				t.Fatalf("ResolveSettings(%q) failed: %v", args, err)
			}
			if s.Precision != 4 {
				t.Errorf("%q: expected precision 4, got %d", args, s.Precision)
			}
		}
	})

	t.Run("quoted preamble and postamble", func(t *testing.T) {
		s, err := ResolveSettings(`--preamble="G17 G90" --postamble="M30"`)
		if err != nil {
			t.Fatalf("ResolveSettings failed: %v", err)
		}
		if s.Preamble != "G17 G90" {
			t.Errorf("Unexpected preamble %q", s.Preamble)
		}
		if s.Postamble != "M30" {
			t.Errorf("Unexpected postamble %q", s.Postamble)
		}
	})

	t.Run("empty preamble override suppresses the built-in block", func(t *testing.T) {
		s, err := ResolveSettings(`--preamble=""`)
		if err != nil {
			t.Fatalf("ResolveSettings failed: %v", err)
		}
		if s.Preamble != "" {
			t.Errorf("Explicit empty preamble should stick, got %q", s.Preamble)
		}
	})

	t.Run("malformed strings abort", func(t *testing.T) {
		for _, args := range []string{
			`--preamble="unterminated`,
			"--bogus-flag",
			"--precision=notanumber",
			"stray-positional",
		} {
			if _, err := ResolveSettings(args); err == nil {
				t.Errorf("ResolveSettings(%q) should fail", args)
			}
		}
	})

	t.Run("errors never yield partial settings", func(t *testing.T) {
		s, err := ResolveSettings("--no-header --bogus-flag")
		if err == nil {
			t.Fatal("Expected an error")
		}
		if s != (Settings{}) {
			t.Error("Failed resolution must return the zero value")
		}
	})

	t.Run("error text names the problem", func(t *testing.T) {
		_, err := ResolveSettings("stray")
		if err == nil || !strings.Contains(err.Error(), "stray") {
			t.Errorf("Error should name the offending argument, got %v", err)
		}
	})
}
