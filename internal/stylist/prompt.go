package stylist

import (
	"fmt"
	"strings"

	"github.com/diogo/teestudio/internal/palette"
)

// Prompt is the text sent verbatim to the model for one chat turn.
type Prompt struct {
	Text    string
	OnTopic bool
}

// BuildPrompt classifies text and wraps it in the matching instructions.
func BuildPrompt(text string) Prompt {
	if !IsOnTopic(text) {
		return Prompt{Text: buildRedirectPrompt(text), OnTopic: false}
	}
	return Prompt{Text: buildConsultantPrompt(text), OnTopic: true}
}

func buildConsultantPrompt(text string) string {
	return strings.Join([]string{
		"Role:",
		"You are a friendly fashion consultant inside a 3D t-shirt customizer.",
		"",
		"Task:",
		"Answer the customer's question about their t-shirt: colors, styles, decals and outfit ideas.",
		"",
		"Rules:",
		consultantRules(),
		"",
		"Customer:",
		strings.TrimSpace(text),
	}, "\n")
}

func consultantRules() string {
	return strings.Join([]string{
		"1) Keep the answer short: two to four sentences.",
		"2) When you recommend a shirt color, name exactly one color clearly.",
		fmt.Sprintf("3) Prefer one of these color names: %s.", strings.Join(palette.Names(), ", ")),
		"4) If none of those fit, give a hex code such as #1e90ff instead.",
		"5) Do not list alternative colors unless the customer asks for options.",
	}, "\n")
}

func buildRedirectPrompt(text string) string {
	return strings.Join([]string{
		"Role:",
		"You are the assistant of a 3D t-shirt customizer. You only help with clothing and t-shirt design.",
		"",
		"Task:",
		"The customer asked something unrelated to clothing.",
		"Politely say that you can only help with designing their t-shirt,",
		"then steer the conversation back by suggesting they ask about colors, styles or decals.",
		"Do not answer the unrelated question. Keep it to two sentences.",
		"",
		"Customer:",
		strings.TrimSpace(text),
	}, "\n")
}
