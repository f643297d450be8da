package textblob

import (
	"sync"
	"unicode/utf8"

	"github.com/chewxy/math32"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/retain"
	"github.com/gogpu/retain/geom"
)

// Glyph is a positioned glyph. X and Y are relative to the blob origin on
// the baseline, Y growing down.
type Glyph struct {
	ID   uint32
	X, Y float32
}

// Run is a sequence of glyphs sharing a font, size and direction.
type Run struct {
	Font   *Font
	Size   float32
	RTL    bool
	Glyphs []Glyph
}

// Blob is immutable shaped text. Display lists compare blobs by identity.
type Blob struct {
	text    string
	runs    []Run
	bounds  geom.Rect
	advance float32
	glyphs  int

	outlineOnce sync.Once
	outline     *geom.Path
}

// Shape lays out text on a single line in f at size pixels per em.
func Shape(text string, f *Font, size float32) *Blob {
	if f == nil {
		f = DefaultFont()
	}
	b := &Blob{text: text}
	if text == "" || size <= 0 {
		return b
	}

	runes := []rune(text)
	face := font.NewFace(f.shaping)
	var shaper shaping.HarfbuzzShaper
	var ascent, descent float32

	for _, seg := range bidiSegments(text, len(runes)) {
		dir := di.DirectionLTR
		if seg.rtl {
			dir = di.DirectionRTL
		}
		out := shaper.Shape(shaping.Input{
			Text:      runes,
			RunStart:  seg.start,
			RunEnd:    seg.end,
			Direction: dir,
			Face:      face,
			Size:      fixed.Int26_6(size * 64),
			Script:    language.LookupScript(runes[seg.start]),
			Language:  language.NewLanguage("en"),
		})
		run := Run{Font: f, Size: size, RTL: seg.rtl, Glyphs: make([]Glyph, 0, len(out.Glyphs))}
		for _, g := range out.Glyphs {
			run.Glyphs = append(run.Glyphs, Glyph{
				ID: uint32(g.GlyphID),
				X:  b.advance + fromFixed(g.XOffset),
				Y:  -fromFixed(g.YOffset),
			})
			b.advance += fromFixed(g.XAdvance)
		}
		ascent = math32.Max(ascent, math32.Max(fromFixed(out.LineBounds.Ascent), fromFixed(out.GlyphBounds.Ascent)))
		descent = math32.Max(descent, -math32.Min(fromFixed(out.LineBounds.Descent), fromFixed(out.GlyphBounds.Descent)))
		b.glyphs += len(run.Glyphs)
		b.runs = append(b.runs, run)
	}
	b.bounds = geom.LTRB(0, -ascent, b.advance, descent)
	return b
}

type segment struct {
	start, end int
	rtl        bool
}

// bidiSegments splits text into direction runs, in visual order, as rune
// index ranges.
func bidiSegments(text string, n int) []segment {
	whole := []segment{{start: 0, end: n}}
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return whole
	}
	order, err := p.Order()
	if err != nil || order.NumRuns() == 0 {
		return whole
	}
	segs := make([]segment, 0, order.NumRuns())
	for i := 0; i < order.NumRuns(); i++ {
		r := order.Run(i)
		start, end := r.Pos()
		if end < start {
			continue
		}
		segs = append(segs, segment{start: start, end: end + 1, rtl: r.Direction() == bidi.RightToLeft})
	}
	if len(segs) == 0 || segs[len(segs)-1].end != n {
		retain.Logger().Debug("textblob: bidi runs do not cover text", "runes", n)
		return whole
	}
	if !p.IsLeftToRight() {
		for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
			segs[i], segs[j] = segs[j], segs[i]
		}
	}
	return segs
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

// Text returns the source text.
func (b *Blob) Text() string { return b.text }

// Runs returns the shaped runs. The slice must not be modified.
func (b *Blob) Runs() []Run { return b.runs }

// Bounds returns conservative bounds relative to the origin.
func (b *Blob) Bounds() geom.Rect { return b.bounds }

// Advance returns the total horizontal advance.
func (b *Blob) Advance() float32 { return b.advance }

// GlyphCount returns the number of glyphs across all runs.
func (b *Blob) GlyphCount() int { return b.glyphs }

// RuneCount returns the number of runes in the source text.
func (b *Blob) RuneCount() int { return utf8.RuneCountInString(b.text) }

// Outline returns the glyph outlines as a single path relative to the
// origin. The result is computed once and shared.
func (b *Blob) Outline() *geom.Path {
	b.outlineOnce.Do(func() {
		b.outline = b.buildOutline()
	})
	return b.outline
}

func (b *Blob) buildOutline() *geom.Path {
	p := geom.NewPath()
	var buf sfnt.Buffer
	for _, run := range b.runs {
		ppem := fixed.Int26_6(run.Size * 64)
		for _, g := range run.Glyphs {
			segs, err := run.Font.outline.LoadGlyph(&buf, sfnt.GlyphIndex(g.ID), ppem, nil)
			if err != nil {
				retain.Logger().Debug("textblob: glyph outline", "glyph", g.ID, "err", err)
				continue
			}
			pt := func(v fixed.Point26_6) (float32, float32) {
				return g.X + fromFixed(v.X), g.Y + fromFixed(v.Y)
			}
			for _, s := range segs {
				switch s.Op {
				case sfnt.SegmentOpMoveTo:
					p.Close()
					x, y := pt(s.Args[0])
					p.MoveTo(x, y)
				case sfnt.SegmentOpLineTo:
					x, y := pt(s.Args[0])
					p.LineTo(x, y)
				case sfnt.SegmentOpQuadTo:
					cx, cy := pt(s.Args[0])
					x, y := pt(s.Args[1])
					p.QuadTo(cx, cy, x, y)
				case sfnt.SegmentOpCubeTo:
					c1x, c1y := pt(s.Args[0])
					c2x, c2y := pt(s.Args[1])
					x, y := pt(s.Args[2])
					p.CubicTo(c1x, c1y, c2x, c2y, x, y)
				}
			}
			p.Close()
		}
	}
	return p
}
