package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
)

const (
	systemPromptFile         = "default_system_prompt.txt"
	userPromptFile           = "default_user_prompt.txt"
	analysisSystemPromptFile = "slack_analysis_system_prompt.txt"
	analysisUserPromptFile   = "slack_analysis_user_prompt.txt"
)

// Prompts holds the prompt texts loaded at startup.
type Prompts struct {
	System         string
	User           string
	AnalysisSystem string // never overridden by room config
	AnalysisUser   string
}

// LoadPrompts reads prompts from dir when set, otherwise from the embedded
// defaults. The analysis user prompt is optional and falls back to User.
func LoadPrompts(dir string, embedded fs.FS) (Prompts, error) {
	fsys := embedded
	root := "prompts"
	if dir != "" {
		fsys = os.DirFS(dir)
		root = "."
	}
	slog.Info("loading prompts", "dir", dir, "embedded", dir == "")

	var p Prompts
	var err error
	if p.System, err = readPrompt(fsys, path.Join(root, systemPromptFile)); err != nil {
		return Prompts{}, err
	}
	if p.User, err = readPrompt(fsys, path.Join(root, userPromptFile)); err != nil {
		return Prompts{}, err
	}
	if p.AnalysisSystem, err = readPrompt(fsys, path.Join(root, analysisSystemPromptFile)); err != nil {
		return Prompts{}, err
	}
	p.AnalysisUser, err = readPrompt(fsys, path.Join(root, analysisUserPromptFile))
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("slack analysis user prompt not found, using default user prompt")
		p.AnalysisUser = p.User
	} else if err != nil {
		return Prompts{}, err
	}

	slog.Info("prompts loaded",
		"system_chars", len(p.System),
		"user_chars", len(p.User),
		"analysis_system_chars", len(p.AnalysisSystem),
		"analysis_user_chars", len(p.AnalysisUser),
	)
	return p, nil
}

func readPrompt(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", name, err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", fmt.Errorf("empty prompt file %s", name)
	}
	return content, nil
}
