// Package domain provides the core data types shared across promptforge:
// prompts, run records, and the canonical error taxonomy.
package domain

import (
	"fmt"
	"regexp"
)

// placeholderRe matches {name} template placeholders in prompt text.
var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Prompt is a named, parameterized template with system and user text.
// TemplateVars declares the variable names the template expects; it must be a
// superset of the placeholder names referenced in System and User text. That
// relationship is a precondition for rendering, not structurally enforced.
type Prompt struct {
	// ID uniquely identifies the prompt in the prompt store.
	ID string `json:"id"`

	// TemplateVars lists the declared variable names, in order.
	TemplateVars []string `json:"template_vars"`

	// System is the system message template.
	System string `json:"system"`

	// User is the user message template.
	User string `json:"user"`
}

// PlaceholderNames returns the placeholder names referenced in text, in order
// of first appearance.
func PlaceholderNames(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// render substitutes {name} placeholders in text with values. Every
// placeholder must have a value; a missing one is an error rather than being
// passed through silently.
func render(text string, values map[string]string) (string, error) {
	var missing string
	out := placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := values[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", fmt.Errorf("template variable %q has no value", missing)
	}
	return out, nil
}

// RenderUser renders the user message with the given variable values.
func (p *Prompt) RenderUser(values map[string]string) (string, error) {
	return render(p.User, values)
}

// RenderSystem renders the system message with the given variable values.
func (p *Prompt) RenderSystem(values map[string]string) (string, error) {
	return render(p.System, values)
}

// Clone returns a deep copy of the prompt. Stores hand out clones so callers
// can't mutate stored state in place.
func (p *Prompt) Clone() *Prompt {
	c := *p
	c.TemplateVars = append([]string(nil), p.TemplateVars...)
	return &c
}
