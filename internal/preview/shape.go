package preview

import (
	"image"
	"image/color"

	"github.com/diogo/teestudio/internal/scene"
)

// Logical screen size of the preview
const (
	screenWidth  = 480
	screenHeight = 560
)

// pxPerUnit converts mesh units to screen pixels. The logo offsets of
// +-0.075 land a little under a sixth of the body width from center.
const pxPerUnit = screenWidth * 1.6

var backdrop = color.RGBA{R: 0x2a, G: 0x2d, B: 0x34, A: 0xff}

// shirtOutline is the flat shirt silhouette, in fractions of the screen
type shirtOutline struct {
	bodyLeft, bodyRight, bodyTop, bodyBottom float64
	sleeveReach, sleeveDrop                  float64
	neckRadius                               float64
}

var outline = shirtOutline{
	bodyLeft:    0.27,
	bodyRight:   0.73,
	bodyTop:     0.14,
	bodyBottom:  0.92,
	sleeveReach: 0.12,
	sleeveDrop:  0.24,
	neckRadius:  0.085,
}

// shirtMask rasterizes the silhouette into an alpha mask of w x h. The shirt
// is drawn white and tinted at draw time.
func shirtMask(w, h int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Mirror onto the left half so both sides rasterize identically
			mx := min(x, w-1-x)
			if insideShirt(float64(mx)+0.5, float64(y)+0.5, float64(w), float64(h)) {
				mask.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return mask
}

func insideShirt(x, y, w, h float64) bool {
	fx, fy := x/w, y/h
	o := outline

	// Neck scoop
	dx := (fx - 0.5) * w / h
	dy := fy - o.bodyTop
	if dx*dx+dy*dy < o.neckRadius*o.neckRadius {
		return false
	}

	if fx >= o.bodyLeft && fx <= o.bodyRight && fy >= o.bodyTop && fy <= o.bodyBottom {
		return true
	}

	// Sleeves: trapezoids hanging off the shoulders, narrowing downwards
	if fy < o.bodyTop || fy > o.bodyTop+o.sleeveDrop {
		return false
	}
	t := (fy - o.bodyTop) / o.sleeveDrop
	reach := o.sleeveReach * (1 - 0.35*t)
	switch {
	case fx < o.bodyLeft:
		return fx >= o.bodyLeft-reach-(1-t)*0.02 && fy <= o.bodyTop+o.sleeveDrop*(1-0.2*(o.bodyLeft-fx)/o.sleeveReach)
	case fx > o.bodyRight:
		return fx <= o.bodyRight+reach+(1-t)*0.02 && fy <= o.bodyTop+o.sleeveDrop*(1-0.2*(fx-o.bodyRight)/o.sleeveReach)
	}
	return false
}

// chestCenter is where a decal at mesh offset (0, 0.08) lands
func chestCenter() (float64, float64) {
	return screenWidth / 2, screenHeight * 0.36
}

// logoRect places the logo decal on screen
func logoRect(d *scene.Decal) image.Rectangle {
	cx, cy := chestCenter()
	cx += d.Position[0] * pxPerUnit
	cy -= (d.Position[1] - 0.08) * pxPerUnit
	half := d.Scale * pxPerUnit / 2
	return image.Rect(int(cx-half), int(cy-half), int(cx+half), int(cy+half))
}

// fullRect covers the shirt body
func fullRect() image.Rectangle {
	o := outline
	return image.Rect(
		int(o.bodyLeft*screenWidth), int((o.bodyTop+o.neckRadius)*screenHeight),
		int(o.bodyRight*screenWidth), int(o.bodyBottom*screenHeight),
	)
}
