// Package layout converts raster pixels into the single-page print
// placement. Everything here is pure arithmetic.
package layout

// MmPerPx converts CSS pixels to millimeters under the 96 DPI assumption.
const MmPerPx = 0.264583

// A4 portrait page size in millimeters.
const (
	PageWidthMm  = 210.0
	PageHeightMm = 297.0
)

// PageLayoutDecision is the placement of one raster on the fixed page.
// Derived once per export and never stored.
type PageLayoutDecision struct {
	// WidthMm and HeightMm are the final image dimensions on the page.
	// Never larger than the physical page.
	WidthMm  float64
	HeightMm float64
	// OffsetXMm and OffsetYMm anchor the image. Always 0,0: output is
	// full-bleed from the page's top-left corner.
	OffsetXMm float64
	OffsetYMm float64
	// Scale is the uniform shrink factor applied in shrink-to-fit mode;
	// 1.0 in fill-page mode.
	Scale float64
	// FillPage is true when content fit inside the page and was
	// stretched to cover it exactly.
	FillPage bool
}

// PxToMm converts a pixel length to millimeters.
func PxToMm(px float64) float64 {
	return px * MmPerPx
}

// Decide computes the page placement for a raster of the given pixel size.
//
// Content that fits inside the page on both axes is stretched to exactly
// the full page, edge to edge, rather than centered inside blank margin.
// Content larger than the page shrinks uniformly until both axes fit,
// anchored top-left. Output never exceeds the physical page.
func Decide(pxWidth, pxHeight float64) PageLayoutDecision {
	contentW := PxToMm(pxWidth)
	contentH := PxToMm(pxHeight)

	if contentW <= PageWidthMm && contentH <= PageHeightMm {
		return PageLayoutDecision{
			WidthMm:  PageWidthMm,
			HeightMm: PageHeightMm,
			Scale:    1.0,
			FillPage: true,
		}
	}

	scale := PageWidthMm / contentW
	if s := PageHeightMm / contentH; s < scale {
		scale = s
	}
	if scale > 1.0 {
		scale = 1.0
	}

	return PageLayoutDecision{
		WidthMm:  contentW * scale,
		HeightMm: contentH * scale,
		Scale:    scale,
		FillPage: false,
	}
}
