// Command teestudio is a terminal t-shirt customizer with a Gemini style
// assistant.
package main

import (
	"github.com/joho/godotenv"

	"github.com/diogo/teestudio/internal/commands"
)

func main() {
	// A .env file is optional; GEMINI_API_KEY usually comes from the shell
	_ = godotenv.Load()
	commands.Execute()
}
