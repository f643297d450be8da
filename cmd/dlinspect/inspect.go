package main

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gputypes"
	"github.com/muesli/termenv"

	"github.com/gogpu/retain/canvas"
	_ "github.com/gogpu/retain/canvas/raster"
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/displaylist/complexity"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/layers"
	"github.com/gogpu/retain/scenefile"
)

type config struct {
	backend string
	ceiling uint
	png     string
	sink    string
	trace   bool
	align   int
	frame   int
}

var backends = map[string]gputypes.Backend{
	"metal":  gputypes.BackendMetal,
	"gl":     gputypes.BackendGL,
	"vulkan": gputypes.BackendVulkan,
	"dx12":   gputypes.BackendDX12,
}

// memoCapacity bounds the scores kept between watch reloads.
const memoCapacity = 256

type inspector struct {
	cfg  config
	out  *termenv.Output
	calc *complexity.Memo
}

func newInspector(cfg config, out *termenv.Output) (*inspector, error) {
	var opts []complexity.Option
	if cfg.ceiling > 0 {
		opts = append(opts, complexity.WithCeiling(cfg.ceiling))
	}
	var calc complexity.Calculator
	if cfg.backend == "naive" {
		calc = complexity.NewNaive(opts...)
	} else {
		b, ok := backends[cfg.backend]
		if !ok {
			return nil, fmt.Errorf("unknown backend %q", cfg.backend)
		}
		calc = complexity.ForBackend(b, opts...)
	}
	if cfg.sink == "" {
		cfg.sink = "raster"
	}
	return &inspector{cfg: cfg, out: out, calc: complexity.NewMemo(calc, memoCapacity)}, nil
}

func (in *inspector) style(s, color string) termenv.Style {
	return in.out.String(s).Foreground(in.out.Color(color))
}

func (in *inspector) errorf(format string, args ...any) {
	fmt.Fprintln(in.out, in.style("error: "+fmt.Sprintf(format, args...), "1").Bold())
}

// inspect loads the scene at path and reports every frame.
func (in *inspector) inspect(path string) error {
	s, err := scenefile.Load(path)
	if err != nil {
		return err
	}
	trees, err := s.Trees()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	bg, err := s.BackgroundColor()
	if err != nil {
		return fmt.Errorf("%s: background: %w", path, err)
	}

	size := s.FrameSize()
	fmt.Fprintf(in.out, "%s %dx%d, %d frames\n", in.style(path, "4").Bold(), size.Width, size.Height, len(trees))

	var prev *layers.LayerTree
	for i, tree := range trees {
		damage := tree.Diff(prev, layers.WithAlignment(int32(in.cfg.align), int32(in.cfg.align)))
		prev = tree
		if in.cfg.frame >= 0 && i != in.cfg.frame {
			continue
		}
		if err := in.frame(i, s.Frames[i].Name, tree, damage, bg); err != nil {
			return err
		}
	}
	hits, misses := in.calc.Stats()
	fmt.Fprintf(in.out, "complexity memo: %d hits, %d misses\n", hits, misses)
	return nil
}

func (in *inspector) frame(i int, name string, tree *layers.LayerTree, damage layers.Damage, bg displaylist.Color) error {
	frameRect := geom.IRectFromSize(tree.FrameSize())
	title := fmt.Sprintf("frame %d", i)
	if name != "" {
		title += " " + name
	}
	fmt.Fprintln(in.out, in.style(title, "5").Bold())

	var damageStyle termenv.Style
	switch {
	case damage.IsEmpty():
		damageStyle = in.style("none", "2")
	case damage.FrameDamage == frameRect:
		damageStyle = in.style(damage.FrameDamage.String()+" full frame", "1")
	default:
		damageStyle = in.style(damage.FrameDamage.String(), "3")
	}
	fmt.Fprintf(in.out, "  damage     %s", damageStyle)
	if damage.BufferDamage != damage.FrameDamage {
		fmt.Fprintf(in.out, " buffer %s", damage.BufferDamage)
	}
	fmt.Fprintln(in.out)

	var lists []*displaylist.DisplayList
	count := walk(tree.Root(), func(l layers.Layer) {
		if dl, ok := l.(*layers.DisplayListLayer); ok {
			lists = append(lists, dl.DisplayList())
		}
	})
	fmt.Fprintf(in.out, "  layers     %d (%d display lists)\n", count, len(lists))
	for _, dl := range lists {
		fmt.Fprintf(in.out, "    list %-4d ops %-4d %s\n", dl.UniqueID(), dl.OpCount(true), in.score(dl))
	}

	flat := tree.Flatten(frameRect.Rect())
	fmt.Fprintf(in.out, "  flattened  bounds %s ops %d %s\n", flat.Bounds(), flat.OpCount(true), in.score(flat))

	if in.cfg.trace {
		tr := canvas.NewTrace(nil)
		tree.Paint(tr)
		for _, line := range tr.Lines() {
			fmt.Fprintln(in.out, "    "+line)
		}
	}
	if in.cfg.png != "" {
		return in.render(i, tree, bg)
	}
	return nil
}

func (in *inspector) score(dl *displaylist.DisplayList) string {
	score := in.calc.Compute(dl)
	switch {
	case complexity.IsComplex(in.calc, score):
		return in.style("complex", "1").String()
	case in.calc.ShouldBeCached(score):
		return in.style(fmt.Sprintf("score %d, worth caching", score), "3").String()
	}
	return fmt.Sprintf("score %d", score)
}

// render paints the prerolled tree with the configured sink and saves the
// result when the sink produces an image.
func (in *inspector) render(i int, tree *layers.LayerTree, bg displaylist.Color) error {
	size := tree.FrameSize()
	c, err := canvas.New(in.cfg.sink, int(size.Width), int(size.Height))
	if err != nil {
		return err
	}
	c.DrawColor(bg, displaylist.BlendSrc)
	tree.Paint(c)

	img, ok := c.(interface{ Image() *image.RGBA })
	if !ok {
		return fmt.Errorf("sink %q does not produce images", in.cfg.sink)
	}
	path := in.cfg.png
	if strings.Contains(path, "%") {
		path = fmt.Sprintf(path, i)
	}
	if err := imaging.Save(img.Image(), path); err != nil {
		return fmt.Errorf("failed to save frame %d: %w", i, err)
	}
	fmt.Fprintf(in.out, "  wrote      %s\n", path)
	return nil
}

// walk calls fn for every layer under root and returns how many there are.
func walk(root layers.Layer, fn func(layers.Layer)) int {
	fn(root)
	n := 1
	if c, ok := root.(interface{ Children() []layers.Layer }); ok {
		for _, child := range c.Children() {
			n += walk(child, fn)
		}
	}
	return n
}
