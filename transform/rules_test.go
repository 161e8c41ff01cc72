package transform_test

import (
	"strings"
	"testing"

	"wst/transform"
)

func join(props []transform.Property) string {
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ";")
}

func TestRenameRule(t *testing.T) {
	if renamed, ok := transform.RenameRule("flex-direction"); !ok || renamed != "--flex-direction" {
		t.Errorf("unexpected rename for flex-direction: %q, %v", renamed, ok)
	}
	if _, ok := transform.RenameRule("background-image"); ok {
		t.Error("background-image must not be renamed")
	}
}

func TestReplaceRule(t *testing.T) {
	props, ok := transform.ReplaceRule("display", "linear")
	if !ok {
		t.Fatal("expected replace rule for display:linear")
	}
	if got, want := join(props), "--lynx-display-toggle:var(--lynx-display-linear);--lynx-display:linear;display:flex"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// returned slice is a copy
	props[0].Value = "changed"
	again, _ := transform.ReplaceRule("display", "linear")
	if again[0].Value == "changed" {
		t.Error("rule table was modified through returned slice")
	}

	if _, ok := transform.ReplaceRule("display", "grid"); ok {
		t.Error("display:grid must not match")
	}
	if _, ok := transform.ReplaceRule("height", "1px"); ok {
		t.Error("height must not match")
	}
}

func TestLinearGravityTable(t *testing.T) {
	cases := map[string]string{
		"top":    "flex-start flex-end flex-start flex-start",
		"bottom": "flex-end flex-start flex-start flex-start",
		"left":   "flex-start flex-start flex-start flex-end",
		"right":  "flex-start flex-start flex-end flex-start",
	}
	for value, want := range cases {
		props, ok := transform.ReplaceRule("linear-gravity", value)
		if !ok || len(props) != 4 {
			t.Fatalf("linear-gravity:%s: unexpected rule %v", value, props)
		}
		got := make([]string, 0, 4)
		for _, p := range props {
			got = append(got, p.Value)
		}
		if strings.Join(got, " ") != want {
			t.Errorf("linear-gravity:%s: got %v, want %s", value, got, want)
		}
		if props[0].Name != "--justify-content-column" || props[3].Name != "--justify-content-row-reverse" {
			t.Errorf("linear-gravity:%s: unexpected order %v", value, props)
		}
	}
}

func TestRuleIterators(t *testing.T) {
	renames := 0
	for name, renamed := range transform.RenameRules() {
		if !strings.HasPrefix(renamed, "--") || strings.HasPrefix(name, "--") {
			t.Errorf("unexpected rename %s -> %s", name, renamed)
		}
		renames++
	}
	if renames != 8 {
		t.Errorf("expected 8 rename rules, got %d", renames)
	}

	values := map[string]int{}
	for name, vals := range transform.ReplaceRules() {
		values[name] = len(vals)
	}
	want := map[string]int{
		"display":               2,
		"direction":             1,
		"linear-orientation":    4,
		"linear-direction":      4,
		"linear-gravity":        10,
		"linear-cross-gravity":  4,
		"linear-layout-gravity": 13,
		"justify-content":       4,
	}
	for name, n := range want {
		if values[name] != n {
			t.Errorf("%s: expected %d values, got %d", name, n, values[name])
		}
	}
	if len(values) != len(want) {
		t.Errorf("expected %d replace properties, got %d", len(want), len(values))
	}
}
