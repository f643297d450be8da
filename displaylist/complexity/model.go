package complexity

// costModel holds the coefficients of a backend's linear cost model.
// Scores are in units of roughly 5ns of GPU time, so a score of 200000
// is about a millisecond.
type costModel struct {
	name           string
	cacheThreshold uint

	aaPenalty     float32 // anti-aliased geometry
	strokePenalty float32 // strokes wider than a hairline
	maskPenalty   float32 // draws with a mask filter

	flood float32

	lineBase, linePerLength float32

	fillBase, fillPerArea          float32
	strokeBase, strokePerPerimeter float32
	ovalFactor                     float32
	rrectFactor                    float32

	pathBase                      float32
	lineVerb, quadVerb, cubicVerb float32
	nonConvexPenalty              float32

	pointBase float32
	perPoint  [3]float32 // indexed by PointMode

	imageBase, imagePerArea float32
	uploadPenalty           float32 // images not yet resident on the GPU

	shadowLineVerb, shadowQuadVerb, shadowCubicVerb float32
	transparentOccluderPenalty                      float32

	saveLayerBase, saveLayerEach float32
	implicitLayerEach            float32

	textBase, textEach, textPerGlyph float32
}

var metalModel = costModel{
	name:           "Metal",
	cacheThreshold: 200_000,

	aaPenalty:     1.4,
	strokePenalty: 1.15,
	maskPenalty:   2.5,

	flood: 1500,

	lineBase:      20,
	linePerLength: 0.09,

	fillBase:           5,
	fillPerArea:        1.0 / 225,
	strokeBase:         5,
	strokePerPerimeter: 0.3,
	ovalFactor:         1.6,
	rrectFactor:        1.3,

	pathBase:         1000,
	lineVerb:         75,
	quadVerb:         100,
	cubicVerb:        210,
	nonConvexPenalty: 1.5,

	pointBase: 20,
	perPoint:  [3]float32{3, 5, 6},

	imageBase:     1200,
	imagePerArea:  4.0 / 170,
	uploadPenalty: 1.9,

	shadowLineVerb:             20_000,
	shadowQuadVerb:             20_000,
	shadowCubicVerb:            80_000,
	transparentOccluderPenalty: 1.05,

	saveLayerBase:     200_000,
	saveLayerEach:     100_000,
	implicitLayerEach: 40_000,

	textBase:     150_000,
	textEach:     833,
	textPerGlyph: 20,
}

var glModel = costModel{
	name:           "GL",
	cacheThreshold: 200_000,

	aaPenalty:     1.5,
	strokePenalty: 1.3,
	maskPenalty:   3,

	flood: 2500,

	lineBase:      35,
	linePerLength: 0.12,

	fillBase:           10,
	fillPerArea:        0.0075,
	strokeBase:         10,
	strokePerPerimeter: 0.45,
	ovalFactor:         1.8,
	rrectFactor:        1.5,

	pathBase:         1500,
	lineVerb:         110,
	quadVerb:         150,
	cubicVerb:        300,
	nonConvexPenalty: 2,

	pointBase: 30,
	perPoint:  [3]float32{4, 7, 9},

	imageBase:     2000,
	imagePerArea:  0.03,
	uploadPenalty: 2.5,

	shadowLineVerb:             30_000,
	shadowQuadVerb:             30_000,
	shadowCubicVerb:            120_000,
	transparentOccluderPenalty: 1.05,

	saveLayerBase:     300_000,
	saveLayerEach:     150_000,
	implicitLayerEach: 60_000,

	textBase:     180_000,
	textEach:     1000,
	textPerGlyph: 30,
}
