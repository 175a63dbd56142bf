package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const sampleJSON = `{
	"Wacom Intuos": {
		"default": {
			"mapping": 0,
			"stylus": ["Button 2 pan", "Rotate none"]
		},
		"krita": {
			"window-class": "krita",
			"mapping": "window"
		},
		"krita-canvas": {
			"window-class": "krita",
			"window-title": "canvas",
			"mapping": "DP-2"
		}
	}
}`

func TestLoadJSON(t *testing.T) {
	path := writeTemp(t, "profiles.json", sampleJSON)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg) != 1 {
		t.Fatalf("expected 1 group, got %d", len(cfg))
	}
	group := cfg[0]
	if group.Prefix != "Wacom Intuos" {
		t.Fatalf("expected prefix %q, got %q", "Wacom Intuos", group.Prefix)
	}
	if len(group.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(group.Rules))
	}

	// File order must survive decoding.
	for i, want := range []string{"default", "krita", "krita-canvas"} {
		if group.Rules[i].Name != want {
			t.Fatalf("rule %d: expected name %q, got %q", i, want, group.Rules[i].Name)
		}
	}

	def := group.Rules[0].Rule
	if def.Specificity() != 0 {
		t.Fatalf("default rule: expected specificity 0, got %d", def.Specificity())
	}
	if def.Mapping == nil || def.Mapping.Kind != MapDisplayIndex || def.Mapping.Index != 0 {
		t.Fatalf("default rule: expected display index 0 mapping, got %+v", def.Mapping)
	}
	if len(def.Stylus) != 2 || def.Stylus[0] != "Button 2 pan" {
		t.Fatalf("default rule: unexpected stylus options %v", def.Stylus)
	}

	krita := group.Rules[1].Rule
	if krita.Specificity() != 1 {
		t.Fatalf("krita rule: expected specificity 1, got %d", krita.Specificity())
	}
	if krita.WindowClass == nil || *krita.WindowClass != "krita" {
		t.Fatalf("krita rule: expected window-class krita, got %v", krita.WindowClass)
	}
	if krita.Mapping == nil || krita.Mapping.Kind != MapActiveWindow {
		t.Fatalf("krita rule: expected window mapping, got %+v", krita.Mapping)
	}

	canvas := group.Rules[2].Rule
	if canvas.Specificity() != 2 {
		t.Fatalf("canvas rule: expected specificity 2, got %d", canvas.Specificity())
	}
	if canvas.Mapping == nil || canvas.Mapping.Kind != MapDisplayID || canvas.Mapping.Display != "DP-2" {
		t.Fatalf("canvas rule: expected DP-2 mapping, got %+v", canvas.Mapping)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeTemp(t, "profiles.yaml", `
Wacom Intuos:
  default:
    mapping: "1"
  gimp:
    window-class: Gimp
    mapping: window
    pad: ["Button 1 key ctrl z"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg) != 1 || len(cfg[0].Rules) != 2 {
		t.Fatalf("unexpected shape: %+v", cfg)
	}
	def := cfg[0].Rules[0]
	if def.Name != "default" {
		t.Fatalf("expected first rule %q, got %q", "default", def.Name)
	}
	// Numeric strings are display indexes.
	if def.Rule.Mapping.Kind != MapDisplayIndex || def.Rule.Mapping.Index != 1 {
		t.Fatalf("expected display index 1, got %+v", def.Rule.Mapping)
	}
	gimp := cfg[0].Rules[1].Rule
	if gimp.Mapping.Kind != MapActiveWindow {
		t.Fatalf("expected window mapping, got %+v", gimp.Mapping)
	}
	if len(gimp.Pad) != 1 {
		t.Fatalf("expected 1 pad option, got %v", gimp.Pad)
	}
}

func TestRuleOrderPreservedAcrossManyRules(t *testing.T) {
	path := writeTemp(t, "profiles.json", `{
		"Tablet": {
			"e": {}, "d": {}, "c": {}, "b": {}, "a": {}
		}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"e", "d", "c", "b", "a"} {
		if cfg[0].Rules[i].Name != want {
			t.Fatalf("rule %d: expected %q, got %q", i, want, cfg[0].Rules[i].Name)
		}
	}
}

func TestMatcherPresenceDistinctFromEmpty(t *testing.T) {
	path := writeTemp(t, "profiles.json", `{
		"Tablet": {
			"r": {"window-class": ""}
		}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rule := cfg[0].Rules[0].Rule
	if rule.WindowClass == nil {
		t.Fatalf("present-but-empty matcher decoded as absent")
	}
	if rule.Specificity() != 1 {
		t.Fatalf("expected specificity 1, got %d", rule.Specificity())
	}
}

func TestLoadRejectsNegativeMappingIndex(t *testing.T) {
	path := writeTemp(t, "profiles.json", `{"Tablet": {"r": {"mapping": -1}}}`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for negative mapping index")
	}
}

func TestLoadRejectsInvalidRegex(t *testing.T) {
	path := writeTemp(t, "profiles.json", `{"Tablet": {"r": {"window-title": "(unclosed"}}}`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error for invalid regex")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "Tablet.r.window-title" {
		t.Fatalf("expected path Tablet.r.window-title, got %q", verr.Path)
	}
}

func TestLoadRejectsEmptyOption(t *testing.T) {
	path := writeTemp(t, "profiles.json", `{"Tablet": {"r": {"pad": ["  "]}}}`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty option string")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := writeTemp(t, "profiles.json", `{"Tablet": `)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
