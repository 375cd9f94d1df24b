package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultPromptDir is the subdirectory within the user's config directory.
const defaultPromptDir = ".config/scribe/prompts"

// DefaultSummaryPrompt is the system prompt used when no summarization
// prompt file is configured.
const DefaultSummaryPrompt = "Summarize the following article in 2-3 concise sentences."

// LoadPromptContent resolves the path for a prompt template and reads it.
// An absolute configuredPath is used directly; a relative or empty one is
// treated as a filename under ~/.config/scribe/prompts/. Returns fallback
// when no file exists at the default location.
func LoadPromptContent(configuredPath, defaultFilename, fallback string) (string, error) {
	finalPath := configuredPath

	if !filepath.IsAbs(configuredPath) {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		filename := configuredPath
		if filename == "" {
			filename = defaultFilename
		}
		finalPath = filepath.Join(homeDir, defaultPromptDir, filename)
	}

	promptBytes, err := os.ReadFile(finalPath)
	if err != nil {
		if os.IsNotExist(err) && !filepath.IsAbs(configuredPath) && configuredPath == "" {
			return fallback, nil
		}
		return "", fmt.Errorf("failed to read prompt file '%s': %w", finalPath, err)
	}
	return string(promptBytes), nil
}
