package llm

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/sevigo/codewise/internal/core"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

type PromptKey string

const (
	CodeReviewPrompt PromptKey = "code_review"
)

// PromptManager holds the embedded prompt templates keyed by task and language.
type PromptManager struct {
	prompts map[PromptKey]map[core.Language]*template.Template
}

// NewPromptManager parses every embedded "<key>_<lang>.prompt" file.
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[PromptKey]map[core.Language]*template.Template),
	}

	files, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		fileName := file.Name()
		baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		lastUnderscore := strings.LastIndex(baseName, "_")
		if lastUnderscore <= 0 || lastUnderscore == len(baseName)-1 {
			return nil, fmt.Errorf("invalid prompt filename format: %s (expected 'key_lang.prompt')", fileName)
		}

		key := PromptKey(baseName[:lastUnderscore])
		lang := core.Language(baseName[lastUnderscore+1:])

		content, err := promptFiles.ReadFile("prompts/" + fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded prompt file %s: %w", fileName, err)
		}

		if err := pm.register(key, lang, string(content)); err != nil {
			return nil, fmt.Errorf("failed to register prompt from file %s: %w", fileName, err)
		}
	}

	return pm, nil
}

func (pm *PromptManager) register(key PromptKey, lang core.Language, content string) error {
	tmpl, err := template.New(string(key) + "_" + string(lang)).Option("missingkey=error").Parse(content)
	if err != nil {
		return fmt.Errorf("could not parse template: %w", err)
	}

	if _, ok := pm.prompts[key]; !ok {
		pm.prompts[key] = make(map[core.Language]*template.Template)
	}

	pm.prompts[key][lang] = tmpl
	return nil
}

// Get returns the template for key in lang, falling back to English.
func (pm *PromptManager) Get(key PromptKey, lang core.Language) (*template.Template, error) {
	byLang, ok := pm.prompts[key]
	if !ok {
		return nil, fmt.Errorf("no prompts found for key '%s'", key)
	}

	if tmpl, ok := byLang[lang]; ok {
		return tmpl, nil
	}
	if tmpl, ok := byLang[core.English]; ok {
		return tmpl, nil
	}

	return nil, fmt.Errorf("no template found for key '%s' and language '%s'", key, lang)
}

// Render executes the template for key and lang with data.
func (pm *PromptManager) Render(key PromptKey, lang core.Language, data any) (string, error) {
	tmpl, err := pm.Get(key, lang)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}
