package models

import "strings"

// Candidate is one generated answer
type Candidate struct {
	Text         string
	FinishReason string
}

// ModelOutput is a parsed generateContent response
type ModelOutput struct {
	Model      string
	Candidates []Candidate
}

// Text returns the first candidate's text
func (m *ModelOutput) Text() string {
	if m == nil || len(m.Candidates) == 0 {
		return ""
	}
	return m.Candidates[0].Text
}

// FinishReason returns the first candidate's finish reason
func (m *ModelOutput) FinishReason() string {
	if m == nil || len(m.Candidates) == 0 {
		return ""
	}
	return m.Candidates[0].FinishReason
}

// IsEmpty reports whether the output carries no visible text
func (m *ModelOutput) IsEmpty() bool {
	return strings.TrimSpace(m.Text()) == ""
}
