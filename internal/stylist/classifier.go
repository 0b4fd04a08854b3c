// Package stylist decides whether chat text is about clothing, builds the
// prompt sent to the model, and pulls shirt colors out of free text.
package stylist

import (
	"strings"

	"github.com/diogo/teestudio/internal/palette"
)

// Keyword groups used by IsOnTopic. Short words that hide inside everyday
// words ("hat" in "what", "tie" in "quiet") are left out on purpose.
var (
	clothingNouns = []string{
		"shirt", "t-shirt", "tshirt", "tee", "hoodie", "sweater", "jacket", "dress",
		"jeans", "pants", "shorts", "skirt", "outfit", "clothes", "clothing", "apparel",
		"garment", "fabric", "cotton", "sleeve", "collar", "neckline", "logo", "decal",
		"print", "pattern", "design", "graphic", "merch", "uniform", "sneaker",
	}

	colorWords = []string{"color", "colour", "shade", "tone", "hue", "palette"}

	styleAdjectives = []string{
		"fashion", "style", "stylish", "casual", "formal", "vintage", "retro", "sporty",
		"trendy", "elegant", "minimal", "bold", "pastel", "neon", "monochrome", "streetwear",
		"classic", "modern", "summer", "winter", "matte", "bright", "dark",
	}

	actionVerbs = []string{
		"make it", "change", "try ", "go with", "match", "pair", "wear", "customize",
		"customise", "pick", "choose", "suggest", "recommend", "look good", "looks good",
	}
)

var topicKeywords = func() []string {
	var kw []string
	kw = append(kw, clothingNouns...)
	kw = append(kw, colorWords...)
	kw = append(kw, styleAdjectives...)
	kw = append(kw, actionVerbs...)
	kw = append(kw, palette.Names()...)
	return kw
}()

// IsOnTopic reports whether text looks like a clothing or fashion question.
// It is a routing hint for the prompt, not a filter: plain substring matching
// with no tokenization, stemming or negation.
func IsOnTopic(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range topicKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Keywords returns a copy of the classifier keyword set.
func Keywords() []string {
	out := make([]string, len(topicKeywords))
	copy(out, topicKeywords)
	return out
}
