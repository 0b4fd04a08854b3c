// Package api provides the Gemini generateContent clients used by the chat
// assistant.
package api

// GJSON paths into a generateContent response body.
const (
	PathCandidates   = "candidates"
	PathFirstText    = "candidates.0.content.parts.0.text"
	PathBlockReason  = "promptFeedback.blockReason"
	PathErrorMessage = "error.message"
	PathErrorStatus  = "error.status"

	// Relative to one candidate
	PathCandParts        = "content.parts"
	PathCandFinishReason = "finishReason"

	// Relative to one part
	PathPartText    = "text"
	PathPartThought = "thought"
)
