// Package preview opens an optional desktop window showing a flat shirt in the
// current color with the enabled decals. It only reads the shared state.
package preview

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/diogo/teestudio/internal/palette"
	"github.com/diogo/teestudio/internal/scene"
)

// ColorSource is the read side of the shared color state
type ColorSource interface {
	Color() palette.RGB
}

// OptionsSource returns the current view options. The TUI owns them.
type OptionsSource func() scene.Options

// Run opens the window and blocks until it is closed or ctx is done.
// ebiten requires this to run on the main goroutine.
func Run(ctx context.Context, colors ColorSource, options OptionsSource, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	g := newGame(ctx, colors, options, logger)

	ebiten.SetWindowTitle("teestudio preview")
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(30)

	logger.Debug("preview_opened")
	err := ebiten.RunGame(g)
	logger.Debug("preview_closed")
	return err
}

type game struct {
	ctx     context.Context
	colors  ColorSource
	options OptionsSource
	logger  *slog.Logger

	shirt *ebiten.Image

	mu       sync.Mutex
	textures map[string]*ebiten.Image
	failed   map[string]bool
}

func newGame(ctx context.Context, colors ColorSource, options OptionsSource, logger *slog.Logger) *game {
	return &game{
		ctx:      ctx,
		colors:   colors,
		options:  options,
		logger:   logger,
		textures: make(map[string]*ebiten.Image),
		failed:   make(map[string]bool),
	}
}

func (g *game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
		return nil
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.shirt == nil {
		g.shirt = ebiten.NewImageFromImage(shirtMask(screenWidth, screenHeight))
	}

	s := scene.Build(g.colors.Color(), g.options())

	screen.Fill(backdrop)

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.Scale(float32(s.Material.R), float32(s.Material.G), float32(s.Material.B), 1)
	screen.DrawImage(g.shirt, op)

	if s.Full != nil {
		g.drawDecal(screen, s.Full.Texture.Source, fullRect())
	}
	if s.Logo != nil {
		g.drawDecal(screen, s.Logo.Texture.Source, logoRect(s.Logo))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func (g *game) drawDecal(screen *ebiten.Image, src string, dst image.Rectangle) {
	tex := g.texture(src)
	if tex == nil || dst.Empty() {
		return
	}
	b := tex.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(dst.Dx())/float64(b.Dx()), float64(dst.Dy())/float64(b.Dy()))
	op.GeoM.Translate(float64(dst.Min.X), float64(dst.Min.Y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(tex, op)
}

// texture loads a decal image once. A failed load is logged once and the
// decal is skipped from then on.
func (g *game) texture(src string) *ebiten.Image {
	if src == "" {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if img, ok := g.textures[src]; ok {
		return img
	}
	if g.failed[src] {
		return nil
	}
	img, _, err := ebitenutil.NewImageFromFile(src)
	if err != nil {
		g.failed[src] = true
		g.logger.Warn("decal_load_failed", slog.String("path", src), slog.String("error", err.Error()))
		return nil
	}
	g.textures[src] = img
	return img
}
