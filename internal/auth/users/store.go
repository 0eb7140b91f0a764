// Package users loads the account seed file of the game API.
package users

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lightgame/panel/internal/access"
)

// Seed is one account to provision at startup. Password is either a bcrypt
// hash (starting with "$2") or a plain development password.
type Seed struct {
	ID       int          `yaml:"id" json:"id"`
	Name     string       `yaml:"name" json:"name"`
	Password string       `yaml:"password" json:"password"`
	Access   access.Level `yaml:"access" json:"access"`
}

// Hashed reports whether Password is already a bcrypt hash.
func (s Seed) Hashed() bool { return strings.HasPrefix(s.Password, "$2") }

// Load reads a YAML (or JSON, which is YAML) list of seeds.
func Load(path string) ([]Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var arr []Seed
	if err := yaml.Unmarshal(b, &arr); err != nil {
		return nil, fmt.Errorf("users: parse %s: %w", filepath.Base(path), err)
	}
	seen := make(map[string]struct{}, len(arr))
	for i, s := range arr {
		name := strings.TrimSpace(s.Name)
		if name == "" || s.Password == "" {
			return nil, fmt.Errorf("users: entry %d: name and password are required", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("users: duplicate user %q", name)
		}
		seen[name] = struct{}{}
		arr[i].Name = name
	}
	if len(arr) == 0 {
		return nil, errors.New("users: seed file has no users")
	}
	return arr, nil
}
