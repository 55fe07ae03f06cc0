package gateway

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var defaultPromptYAML []byte

// Prompt is the instructional template sent to the model.
type Prompt struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	System      string  `yaml:"system"`
	User        string  `yaml:"user"`

	userTmpl *template.Template
}

// DefaultPrompt returns the embedded prompt.
func DefaultPrompt() (*Prompt, error) {
	return ParsePrompt(defaultPromptYAML)
}

// ParsePrompt decodes a YAML prompt definition and compiles its user template.
func ParsePrompt(data []byte) (*Prompt, error) {
	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompt: %w", err)
	}
	if strings.TrimSpace(p.System) == "" || strings.TrimSpace(p.User) == "" {
		return nil, fmt.Errorf("prompt requires both system and user sections")
	}
	tmpl, err := template.New("user").Option("missingkey=error").Parse(p.User)
	if err != nil {
		return nil, fmt.Errorf("failed to compile user prompt: %w", err)
	}
	p.userTmpl = tmpl
	return &p, nil
}

// Render fills the user template with the source text.
func (p *Prompt) Render(text string) (string, error) {
	var b strings.Builder
	if err := p.userTmpl.Execute(&b, struct{ Text string }{Text: text}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}
