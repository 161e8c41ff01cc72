package transform

import (
	"iter"
	"maps"
	"slices"
)

// Property is a single "name:value" pair produced by rewriting.
type Property struct {
	Name  string
	Value string
}

func (p Property) String() string {
	return p.Name + ":" + p.Value
}

// Dialect properties which are simply renamed, value is kept as is.
var renameRules = map[string]string{
	"linear-weight":       "--lynx-linear-weight",
	"flex-direction":      "--flex-direction",
	"flex-wrap":           "--flex-wrap",
	"flex-grow":           "--flex-grow",
	"flex-shrink":         "--flex-shrink",
	"flex-basis":          "--flex-basis",
	"list-main-axis-gap":  "--list-main-axis-gap",
	"list-cross-axis-gap": "--list-cross-axis-gap",
}

// Property values which expand into fixed lists. Order of the list is the
// order of emission.
var replaceRules = map[string]map[string][]Property{
	"display": {
		"linear": {
			{"--lynx-display-toggle", "var(--lynx-display-linear)"},
			{"--lynx-display", "linear"},
			{"display", "flex"},
		},
		"flex": {
			{"--lynx-display-toggle", "var(--lynx-display-flex)"},
			{"--lynx-display", "flex"},
			{"display", "flex"},
		},
	},
	"direction": {
		"lynx-rtl": {{"direction", "rtl"}},
	},
	"linear-orientation": {
		"horizontal":         orientation("horizontal"),
		"horizontal-reverse": orientation("horizontal-reverse"),
		"vertical":           orientation("vertical"),
		"vertical-reverse":   orientation("vertical-reverse"),
	},
	"linear-direction": {
		"row":            orientation("horizontal"),
		"row-reverse":    orientation("horizontal-reverse"),
		"column":         orientation("vertical"),
		"column-reverse": orientation("vertical-reverse"),
	},
	"linear-gravity": {
		"top":               gravity("flex-start", "flex-end", "flex-start", "flex-start"),
		"bottom":            gravity("flex-end", "flex-start", "flex-start", "flex-start"),
		"left":              gravity("flex-start", "flex-start", "flex-start", "flex-end"),
		"right":             gravity("flex-start", "flex-start", "flex-end", "flex-start"),
		"center-vertical":   gravity("center", "center", "flex-start", "flex-start"),
		"center-horizontal": gravity("flex-start", "flex-start", "center", "center"),
		"start":             gravity("flex-start", "flex-start", "flex-start", "flex-start"),
		"end":               gravity("flex-end", "flex-end", "flex-end", "flex-end"),
		"center":            gravity("center", "center", "center", "center"),
		"space-between":     gravity("space-between", "space-between", "space-between", "space-between"),
	},
	"linear-cross-gravity": {
		"start":   {{"align-items", "start"}},
		"end":     {{"align-items", "end"}},
		"center":  {{"align-items", "center"}},
		"stretch": {{"align-items", "stretch"}},
	},
	"linear-layout-gravity": {
		"none":              layoutGravity("auto", "auto"),
		"stretch":           layoutGravity("stretch", "stretch"),
		"top":               layoutGravity("start", "auto"),
		"bottom":            layoutGravity("end", "auto"),
		"left":              layoutGravity("auto", "start"),
		"right":             layoutGravity("auto", "end"),
		"start":             layoutGravity("start", "start"),
		"end":               layoutGravity("end", "end"),
		"center":            layoutGravity("center", "center"),
		"center-vertical":   layoutGravity("center", "start"),
		"center-horizontal": layoutGravity("start", "center"),
		"fill-vertical":     layoutGravity("stretch", "auto"),
		"fill-horizontal":   layoutGravity("auto", "stretch"),
	},
	"justify-content": {
		"start": {{"justify-content", "flex-start"}},
		"end":   {{"justify-content", "flex-end"}},
		"left":  {{"justify-content", invalidValue}},
		"right": {{"justify-content", invalidValue}},
	},
}

// invalidValue makes declaration ignored by the browser.
const invalidValue = "--lynx-invalid-invalid-invalid"

func orientation(value string) []Property {
	return []Property{
		{"--lynx-linear-orientation", value},
		{"--lynx-linear-orientation-toggle", "var(--lynx-linear-orientation-" + value + ")"},
	}
}

func gravity(column, columnReverse, row, rowReverse string) []Property {
	return []Property{
		{"--justify-content-column", column},
		{"--justify-content-column-reverse", columnReverse},
		{"--justify-content-row", row},
		{"--justify-content-row-reverse", rowReverse},
	}
}

func layoutGravity(row, column string) []Property {
	return []Property{
		{"--align-self-row", row},
		{"--align-self-column", column},
	}
}

// Fixed fragments used by property specific logic.
var (
	colorForGradient = []Property{
		{"color", "transparent"},
		{"-webkit-background-clip", "text"},
		{"background-clip", "text"},
	}
	colorForNormal = []Property{
		{"--lynx-text-bg-color", "initial"},
		{"-webkit-background-clip", "initial"},
		{"background-clip", "initial"},
	}
	flexNone = []Property{
		{flexShrink, "0"},
		{flexGrow, "0"},
		{flexBasis, "auto"},
	}
	flexAuto = []Property{
		{flexShrink, "1"},
		{flexGrow, "1"},
		{flexBasis, "auto"},
	}
)

const (
	flexGrow   = "--flex-grow"
	flexShrink = "--flex-shrink"
	flexBasis  = "--flex-basis"

	textBgColor       = "--lynx-text-bg-color"
	linearWeightSum   = "--lynx-linear-weight-sum"
	linearWeightBasis = "--lynx-linear-weight-basis"

	importantSuffix = " !important"
)

// RenameRule returns custom property name dialect property is renamed to.
func RenameRule(name string) (string, bool) {
	renamed, ok := renameRules[name]
	return renamed, ok
}

// ReplaceRule returns expansion of the property value. Returned slice is a
// copy and may be modified.
func ReplaceRule(name, value string) ([]Property, bool) {
	props, ok := replaceRules[name][value]
	if !ok {
		return nil, false
	}
	return slices.Clone(props), true
}

// RenameRules iterates over all rename rules in no particular order.
func RenameRules() iter.Seq2[string, string] {
	return maps.All(renameRules)
}

// ReplaceRules iterates over properties which have replace rules and their
// values in no particular order.
func ReplaceRules() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for name, values := range replaceRules {
			if !yield(name, slices.Collect(maps.Keys(values))) {
				return
			}
		}
	}
}
