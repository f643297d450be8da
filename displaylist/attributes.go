package displaylist

// AttrFlags describes which Paint attributes an operation consults and how
// its geometry interacts with stroking. Builder.SetAttributesFromPaint only
// records the attributes named by the flags, so two paints that differ in
// irrelevant fields produce identical op streams.
type AttrFlags uint32

const (
	UsesAntiAlias AttrFlags = 1 << iota
	UsesDither
	UsesAlpha
	UsesColor
	UsesBlend
	UsesColorFilter
	UsesImageFilter
	UsesMaskFilter

	// IsGeometric ops honor Style and may be stroked.
	IsGeometric
	// IsStrokedGeometry ops are always stroked regardless of Style.
	IsStrokedGeometry
	// MayHaveCaps ops have open contours.
	MayHaveCaps
	// MayHaveJoins ops have corners.
	MayHaveJoins
	// MayHaveAcuteJoins ops can produce miter spikes.
	MayHaveAcuteJoins
	// MayHaveDiagonalCaps ops can have square caps at an angle.
	MayHaveDiagonalCaps
	// IsFlood ops fill the whole clip.
	IsFlood
)

// Has reports whether every bit of mask is set.
func (f AttrFlags) Has(mask AttrFlags) bool { return f&mask == mask }

// AppliesStyle reports whether the op honors Style.
func (f AttrFlags) AppliesStyle() bool { return f&IsGeometric != 0 }

// IsStroked reports whether the op is stroked under the given style.
func (f AttrFlags) IsStroked(s Style) bool {
	return f&IsStrokedGeometry != 0 || (f&IsGeometric != 0 && s != StyleFill)
}

// IgnoresPaint reports whether no attribute affects the op.
func (f AttrFlags) IgnoresPaint() bool {
	return f&(UsesAntiAlias|UsesDither|UsesAlpha|UsesColor|UsesBlend|
		UsesColorFilter|UsesImageFilter|UsesMaskFilter|IsGeometric|IsStrokedGeometry) == 0
}

const (
	floodAttrs    = UsesDither | UsesAlpha | UsesColor | UsesBlend | UsesColorFilter | UsesImageFilter
	geometryAttrs = floodAttrs | UsesAntiAlias | UsesMaskFilter | IsGeometric
	strokeAttrs   = (geometryAttrs &^ IsGeometric) | IsStrokedGeometry
	imageAttrs    = UsesAntiAlias | UsesDither | UsesAlpha | UsesBlend | UsesColorFilter | UsesImageFilter | UsesMaskFilter
)

// Attribute sets for each kind of operation.
const (
	DrawPaintFlags           = floodAttrs | IsFlood
	DrawColorFlags AttrFlags = 0
	DrawLineFlags            = strokeAttrs | MayHaveCaps | MayHaveDiagonalCaps
	DrawHVLineFlags          = strokeAttrs | MayHaveCaps
	DrawRectFlags            = geometryAttrs | MayHaveJoins
	DrawOvalFlags            = geometryAttrs
	DrawCircleFlags          = geometryAttrs
	DrawRRectFlags           = geometryAttrs
	DrawDRRectFlags          = geometryAttrs
	DrawPathFlags            = geometryAttrs | MayHaveCaps | MayHaveJoins | MayHaveAcuteJoins | MayHaveDiagonalCaps
	DrawArcNoCenterFlags     = geometryAttrs | MayHaveCaps | MayHaveDiagonalCaps
	DrawArcWithCenterFlags   = geometryAttrs | MayHaveJoins | MayHaveAcuteJoins
	DrawPointsAsPointsFlags  = strokeAttrs | MayHaveCaps
	DrawPointsAsLinesFlags   = strokeAttrs | MayHaveCaps | MayHaveDiagonalCaps
	DrawPointsAsPolygonFlags = strokeAttrs | MayHaveCaps | MayHaveJoins | MayHaveAcuteJoins | MayHaveDiagonalCaps

	DrawImageFlags              AttrFlags = 0
	DrawImageWithPaintFlags               = imageAttrs
	DrawImageRectFlags          AttrFlags = 0
	DrawImageRectWithPaintFlags           = imageAttrs

	DrawTextBlobFlags    = geometryAttrs | MayHaveJoins | MayHaveAcuteJoins
	DrawShadowFlags      AttrFlags = 0
	DrawDisplayListFlags AttrFlags = 0

	SaveLayerFlags          AttrFlags = 0
	SaveLayerWithPaintFlags           = UsesAlpha | UsesBlend | UsesColorFilter | UsesImageFilter
)

// DrawPointsFlags returns the attribute set for a point mode.
func DrawPointsFlags(mode PointMode) AttrFlags {
	switch mode {
	case PointModeLines:
		return DrawPointsAsLinesFlags
	case PointModePolygon:
		return DrawPointsAsPolygonFlags
	}
	return DrawPointsAsPointsFlags
}

// PointMode selects how DrawPoints interprets its points.
type PointMode uint8

const (
	// PointModePoints draws each point as a dot sized by the stroke width.
	PointModePoints PointMode = iota
	// PointModeLines draws each consecutive pair as a line segment.
	PointModeLines
	// PointModePolygon draws a connected polyline.
	PointModePolygon
)

// String returns the mode name used in traces.
func (m PointMode) String() string {
	switch m {
	case PointModePoints:
		return "points"
	case PointModeLines:
		return "lines"
	case PointModePolygon:
		return "polygon"
	}
	return "PointMode(?)"
}

// ClipOp combines a clip shape with the current clip.
type ClipOp uint8

const (
	ClipIntersect ClipOp = iota
	ClipDifference
)

func (op ClipOp) String() string {
	if op == ClipDifference {
		return "difference"
	}
	return "intersect"
}

// SaveLayerOptions are flags recorded with a SaveLayer op.
type SaveLayerOptions uint8

const (
	// RendersWithAttributes means the layer composites with the current
	// alpha, blend mode and filters.
	RendersWithAttributes SaveLayerOptions = 1 << iota
	// CanDistributeOpacity is set by the builder when the layer content
	// may take the layer alpha individually. It is never set by callers.
	CanDistributeOpacity
	// ImplicitFilterLayer marks a layer whose image filter has no color
	// filter equivalent and therefore needs an extra offscreen pass.
	ImplicitFilterLayer
)

// NoSaveLayerOptions composites the layer with default attributes.
const NoSaveLayerOptions SaveLayerOptions = 0

// RendersWithAttributes reports whether the layer composites with the
// current attributes.
func (o SaveLayerOptions) RendersWithAttributes() bool { return o&RendersWithAttributes != 0 }

// CanDistributeOpacity reports whether the layer content can take the
// layer alpha itself.
func (o SaveLayerOptions) CanDistributeOpacity() bool { return o&CanDistributeOpacity != 0 }

// ImplicitFilterLayer reports whether the layer needs an extra pass for
// its image filter.
func (o SaveLayerOptions) ImplicitFilterLayer() bool { return o&ImplicitFilterLayer != 0 }

// WithCanDistributeOpacity returns o with CanDistributeOpacity set.
func (o SaveLayerOptions) WithCanDistributeOpacity() SaveLayerOptions {
	return o | CanDistributeOpacity
}
