package genai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Persona is a named writing voice with its own system prompt.
type Persona struct {
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

type personaFile struct {
	Personas []Persona `yaml:"personas"`
}

// LoadPersonas reads persona definitions from a YAML file keyed by
// name. A missing path is not an error; the writer falls back to the
// built-in voice.
func LoadPersonas(path string) (map[string]Persona, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading personas file: %w", err)
	}

	var f personaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing personas file: %w", err)
	}

	personas := make(map[string]Persona, len(f.Personas))
	for _, p := range f.Personas {
		if p.Name == "" || p.Prompt == "" {
			return nil, fmt.Errorf("personas file: every persona needs a name and a prompt")
		}
		personas[p.Name] = p
	}
	return personas, nil
}
