// Package textblob shapes text into positioned glyph runs that display
// lists can record and canvases can draw.
//
// Shaping uses the HarfBuzz port from github.com/go-text/typesetting and
// splits mixed-direction text with golang.org/x/text/unicode/bidi. Glyph
// outlines come from golang.org/x/image/font/sfnt. The default font is Go
// Regular.
package textblob
