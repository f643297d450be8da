package displaylist

import "github.com/gogpu/retain/geom"

// BuilderOption configures a Builder during creation.
//
// Example:
//
//	b := displaylist.NewBuilder(displaylist.WithCullRect(geom.WH(800, 600)))
type BuilderOption func(*builderOptions)

type builderOptions struct {
	cull geom.Rect
}

func defaultBuilderOptions() builderOptions {
	return builderOptions{cull: geom.GiantRect}
}

// WithCullRect sets the initial clip. Ops entirely outside it still record
// but contribute nothing to the list bounds.
func WithCullRect(r geom.Rect) BuilderOption {
	return func(o *builderOptions) {
		o.cull = r
	}
}
