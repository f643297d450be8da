package textblob

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font is a parsed font usable for shaping and outlining. A Font is safe
// for concurrent use.
type Font struct {
	name    string
	shaping *font.Font
	outline *opentype.Font
}

// ParseFont parses TrueType or OpenType data.
func ParseFont(name string, data []byte) (*Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("textblob: parse %s for shaping: %w", name, err)
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("textblob: parse %s for outlines: %w", name, err)
	}
	return &Font{name: name, shaping: face.Font, outline: otf}, nil
}

// Name returns the name given to ParseFont.
func (f *Font) Name() string { return f.name }

var defaultFont = sync.OnceValue(func() *Font {
	f, err := ParseFont("Go Regular", goregular.TTF)
	if err != nil {
		panic(err)
	}
	return f
})

// DefaultFont returns Go Regular.
func DefaultFont() *Font { return defaultFont() }
