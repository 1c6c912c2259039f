package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file into the environment when one exists
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}
}

type LLMCredentials struct {
	APIKey  string
	BaseURL string
}

// GetLLMCredentials reads the chat-completion key, and an optional base URL
// override, from the environment
func GetLLMCredentials() LLMCredentials {
	return LLMCredentials{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	}
}
