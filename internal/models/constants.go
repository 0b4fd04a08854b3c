// Package models contains data types and constants for the Generative Language API.
package models

import (
	"fmt"
	"strings"
)

// Endpoints for the Generative Language API
const (
	EndpointBase = "https://generativelanguage.googleapis.com/v1beta"

	// EndpointGenerateTemplate takes the model name
	EndpointGenerateTemplate = EndpointBase + "/models/%s:generateContent"

	// HeaderAPIKey carries the API key on REST requests
	HeaderAPIKey = "X-goog-api-key"
)

// Model is a Gemini model the customizer can talk to
type Model struct {
	Name        string
	DisplayName string
}

// Available models
var (
	Model20Flash = Model{
		Name:        "gemini-2.0-flash",
		DisplayName: "Gemini 2.0 Flash",
	}

	Model25Flash = Model{
		Name:        "gemini-2.5-flash",
		DisplayName: "Gemini 2.5 Flash",
	}

	Model25Pro = Model{
		Name:        "gemini-2.5-pro",
		DisplayName: "Gemini 2.5 Pro",
	}

	// DefaultModel is the model used when nothing is configured
	DefaultModel = Model20Flash
)

// AllModels returns a list of all known models
func AllModels() []Model {
	return []Model{Model20Flash, Model25Flash, Model25Pro}
}

// ModelFromName returns a Model by its name. Unknown names are passed
// through untouched so newer models work without a release.
func ModelFromName(name string) Model {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultModel
	}
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	return Model{Name: name, DisplayName: name}
}

// GenerateEndpoint returns the generateContent URL for a model under base.
// An empty base selects the public endpoint.
func GenerateEndpoint(base, model string) string {
	if base == "" {
		return fmt.Sprintf(EndpointGenerateTemplate, model)
	}
	return fmt.Sprintf(strings.TrimRight(base, "/")+"/models/%s:generateContent", model)
}

// DefaultHeaders returns the headers sent with every REST request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "teestudio/0.1",
	}
}
