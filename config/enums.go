package config

import "wst/document"

// Width of code units inline styles are processed in.
// ENUM(utf8, utf16)
type CodeUnits int

// Wide reports whether styles should be converted to UTF-16 before rewriting.
func (c CodeUnits) Wide() bool {
	return c == CodeUnitsUtf16
}

// Kind maps file name to the document kind using configured extensions.
func (conf *DocumentConfig) Kind(name string) document.Kind {
	return document.KindByName(name, conf.HTMLExtensions, conf.XHTMLExtensions)
}
