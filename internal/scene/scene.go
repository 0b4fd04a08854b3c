// Package scene computes the parameters handed to the shirt renderer: material
// color, group transform and decal placement. It reads color, never writes it.
package scene

import (
	"encoding/json"
	"math"

	"github.com/diogo/teestudio/internal/config"
	"github.com/diogo/teestudio/internal/palette"
)

// ModelAsset is the shirt mesh shipped with the renderer
const ModelAsset = "assets/3d/tshirt.glb"

// MinChannel keeps the material from going fully black, which the renderer
// shades as a flat silhouette.
const MinChannel = 0.02

var (
	logoPositions = []float64{-0.075, 0, 0.075}
	logoScales    = []float64{0.09, 0.12, 0.17}
)

const (
	defaultLogoX     = 0
	defaultLogoScale = 0.12
	logoY            = 0.08
	logoZ            = 0.13
)

// Position and size labels, indexed like the option values
var (
	PositionNames = []string{"left", "center", "right"}
	SizeNames     = []string{"small", "medium", "large"}
)

// Options are the user-controlled view settings
type Options struct {
	Logo         string `json:"logo"`
	Full         string `json:"full"`
	ShowLogo     bool   `json:"show_logo"`
	ShowFull     bool   `json:"show_full"`
	LogoPosition int    `json:"logo_position"`
	LogoSize     int    `json:"logo_size"`
	Compact      bool   `json:"compact"`
}

// DefaultOptions shows the logo centered at medium size
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig reads the decal and scene sections of cfg
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Logo:         cfg.Decals.Logo,
		Full:         cfg.Decals.Full,
		ShowLogo:     cfg.Scene.ShowLogo,
		ShowFull:     cfg.Scene.ShowFull,
		LogoPosition: cfg.Scene.LogoPosition,
		LogoSize:     cfg.Scene.LogoSize,
		Compact:      cfg.Scene.Compact,
	}
}

// MoveLogo shifts the logo position by delta, staying within left..right
func (o Options) MoveLogo(delta int) Options {
	o.LogoPosition = clampIndex(o.LogoPosition+delta, len(logoPositions))
	return o
}

// ResizeLogo changes the logo size by delta, staying within small..large
func (o Options) ResizeLogo(delta int) Options {
	o.LogoSize = clampIndex(o.LogoSize+delta, len(logoScales))
	return o
}

// Vec3 is a position or rotation
type Vec3 [3]float64

// Texture references an image for the renderer
type Texture struct {
	Source     string `json:"source"`
	ColorSpace string `json:"color_space"`
}

// Decal is one projected image on the mesh
type Decal struct {
	Texture   Texture `json:"texture"`
	Position  Vec3    `json:"position"`
	Rotation  Vec3    `json:"rotation"`
	Scale     float64 `json:"scale"`
	DepthTest bool    `json:"depth_test"`
}

// Scene is everything the renderer needs for one frame
type Scene struct {
	Model      string      `json:"model"`
	Material   palette.RGB `json:"material"`
	GroupScale float64     `json:"group_scale"`
	MeshOffset Vec3        `json:"mesh_offset"`
	Logo       *Decal      `json:"logo,omitempty"`
	Full       *Decal      `json:"full,omitempty"`
}

// Build derives the scene for color and opts
func Build(color palette.RGB, opts Options) Scene {
	s := Scene{
		Model: ModelAsset,
		Material: palette.RGB{
			R: math.Max(color.R, MinChannel),
			G: math.Max(color.G, MinChannel),
			B: math.Max(color.B, MinChannel),
		},
		GroupScale: 9,
		MeshOffset: Vec3{0, 0.1, 0},
	}
	if opts.Compact {
		s.GroupScale = 6
		s.MeshOffset = Vec3{0, 0.35, 0}
	}

	if opts.ShowFull {
		s.Full = &Decal{
			Texture: srgb(opts.Full),
			Scale:   1,
		}
	}
	if opts.ShowLogo {
		s.Logo = &Decal{
			Texture:   srgb(opts.Logo),
			Position:  Vec3{LogoX(opts.LogoPosition), logoY, logoZ},
			Scale:     LogoScale(opts.LogoSize),
			DepthTest: true,
		}
	}
	return s
}

// LogoX maps a position index to the decal x offset. Out of range is centered.
func LogoX(index int) float64 {
	if index < 0 || index >= len(logoPositions) {
		return defaultLogoX
	}
	return logoPositions[index]
}

// LogoScale maps a size index to the decal scale. Out of range is medium.
func LogoScale(index int) float64 {
	if index < 0 || index >= len(logoScales) {
		return defaultLogoScale
	}
	return logoScales[index]
}

// JSON renders the scene for an external renderer
func (s Scene) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func srgb(src string) Texture {
	return Texture{Source: src, ColorSpace: "srgb"}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
