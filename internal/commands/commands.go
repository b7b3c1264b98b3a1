// Package commands holds the admin-managed custom command table. The
// admin surface owns the CRUD; the bot only consumes the table and a
// periodic reload signal.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"akvabot/internal/vk"
)

// Command is one admin-defined trigger → response pair with an
// optional keyboard in VK JSON form.
type Command struct {
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers"`
	Response string   `yaml:"response"`
	Keyboard string   `yaml:"keyboard,omitempty"`
}

// ParseKeyboard decodes the stored keyboard JSON, if any.
func (c *Command) ParseKeyboard() *vk.Keyboard {
	if strings.TrimSpace(c.Keyboard) == "" {
		return nil
	}
	var kb vk.Keyboard
	if err := json.Unmarshal([]byte(c.Keyboard), &kb); err != nil {
		return nil
	}
	return &kb
}

// Store is the in-memory command set, swapped wholesale on reload.
type Store struct {
	mu       sync.RWMutex
	commands []Command
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps the full command set.
func (s *Store) Replace(cmds []Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append([]Command(nil), cmds...)
}

// Match finds the first command with a trigger equal to the input,
// case-insensitively after trimming.
func (s *Store) Match(text string) (*Command, bool) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.commands {
		for _, trigger := range s.commands[i].Triggers {
			if strings.ToLower(strings.TrimSpace(trigger)) == needle {
				cmd := s.commands[i]
				return &cmd, true
			}
		}
	}
	return nil, false
}

// Len returns the number of loaded commands.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.commands)
}

// LoadFile reads the command table from a yaml file.
func LoadFile(path string) ([]Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Commands []Command `yaml:"commands"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse commands file: %w", err)
	}
	return file.Commands, nil
}
