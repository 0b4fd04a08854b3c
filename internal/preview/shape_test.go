package preview

import (
	"context"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/diogo/teestudio/internal/logging"
	"github.com/diogo/teestudio/internal/palette"
	"github.com/diogo/teestudio/internal/scene"
	"github.com/diogo/teestudio/internal/state"
)

func TestShirtMask(t *testing.T) {
	mask := shirtMask(screenWidth, screenHeight)

	tests := []struct {
		name   string
		x, y   int
		inside bool
	}{
		{"chest", screenWidth / 2, screenHeight / 2, true},
		{"hem", screenWidth / 2, int(0.9 * screenHeight), true},
		{"neck scoop", screenWidth / 2, 89 /* int(0.16 * screenHeight), truncated */, false},
		{"left sleeve", int(0.2 * screenWidth), int(0.2 * screenHeight), true},
		{"right sleeve", int(0.8 * screenWidth), int(0.2 * screenHeight), true},
		{"corner", 2, 2, false},
		{"below sleeve", int(0.2 * screenWidth), int(0.6 * screenHeight), false},
		{"below hem", screenWidth / 2, screenHeight - 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mask.AlphaAt(tt.x, tt.y).A == 0xff
			if got != tt.inside {
				t.Errorf("(%d,%d) inside = %v, want %v", tt.x, tt.y, got, tt.inside)
			}
		})
	}
}

func TestShirtMaskSymmetric(t *testing.T) {
	mask := shirtMask(screenWidth, screenHeight)
	for y := 0; y < screenHeight; y += 7 {
		for x := 0; x < screenWidth/2; x += 5 {
			l := mask.AlphaAt(x, y).A
			r := mask.AlphaAt(screenWidth-1-x, y).A
			if l != r {
				t.Fatalf("asymmetric at (%d,%d): %d vs %d", x, y, l, r)
			}
		}
	}
}

func TestLogoRect(t *testing.T) {
	opts := scene.DefaultOptions()

	center := logoRect(scene.Build(palette.White, opts).Logo)
	cx, cy := chestCenter()
	mid := center.Min.Add(center.Max).Div(2)
	if abs(mid.X-int(cx)) > 1 || abs(mid.Y-int(cy)) > 1 {
		t.Errorf("centered logo midpoint = %v, want about (%v,%v)", mid, cx, cy)
	}

	left := logoRect(scene.Build(palette.White, opts.MoveLogo(-1)).Logo)
	right := logoRect(scene.Build(palette.White, opts.MoveLogo(1)).Logo)
	if !(left.Min.X < center.Min.X && center.Min.X < right.Min.X) {
		t.Errorf("positions not ordered: %v %v %v", left, center, right)
	}

	small := logoRect(scene.Build(palette.White, opts.ResizeLogo(-1)).Logo)
	large := logoRect(scene.Build(palette.White, opts.ResizeLogo(1)).Logo)
	if !(small.Dx() < center.Dx() && center.Dx() < large.Dx()) {
		t.Errorf("sizes not ordered: %d %d %d", small.Dx(), center.Dx(), large.Dx())
	}

	body := fullRect()
	if left.Min.X < body.Min.X || right.Max.X > body.Max.X {
		t.Errorf("logo leaves the body: left %v right %v body %v", left, right, body)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestGameUpdateStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := newGame(ctx, state.NewStore(), scene.DefaultOptions, logging.Discard())

	if err := g.Update(); err != nil {
		t.Fatalf("Update() = %v before cancel", err)
	}
	cancel()
	if err := g.Update(); err != ebiten.Termination {
		t.Errorf("Update() = %v, want ebiten.Termination", err)
	}

	if w, h := g.Layout(1920, 1080); w != screenWidth || h != screenHeight {
		t.Errorf("Layout() = %d x %d", w, h)
	}
}

func TestTextureMissingFileIsSkipped(t *testing.T) {
	g := newGame(context.Background(), state.NewStore(), scene.DefaultOptions, logging.Discard())

	if img := g.texture(""); img != nil {
		t.Error("empty source should give no texture")
	}
	if img := g.texture("/nonexistent/decal.png"); img != nil {
		t.Error("missing file should give no texture")
	}
	if !g.failed["/nonexistent/decal.png"] {
		t.Error("failed load not remembered")
	}
}
