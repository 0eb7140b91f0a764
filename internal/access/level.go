// Package access defines the ordered access levels that gate panel pages and actions.
package access

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Level is a closed, ordered access level. Higher values include lower ones.
type Level int

const (
	Player Level = iota
	VIP
	Moderator
	Admin
	Dev
	Owner
)

var names = [...]string{"player", "vip", "moderator", "admin", "dev", "owner"}

// Levels returns every level in ascending order.
func Levels() []Level { return []Level{Player, VIP, Moderator, Admin, Dev, Owner} }

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool { return l >= Player && l <= Owner }

// Allows reports whether a holder of l may reach something requiring required.
func (l Level) Allows(required Level) bool { return l >= required }

func (l Level) String() string {
	if !l.Valid() {
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
	return names[l]
}

// ParseLevel accepts a level name ("admin") or its numeric value ("3").
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return Level(i), nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Level(n).Valid() {
		return Player, fmt.Errorf("unknown access level %q", s)
	}
	return Level(n), nil
}

// UnmarshalText lets levels appear by name in YAML and JSON config.
func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// MarshalJSON keeps the numeric wire form the game API uses.
func (l Level) MarshalJSON() ([]byte, error) { return json.Marshal(int(l)) }

// UnmarshalJSON accepts either the numeric or the named form.
func (l *Level) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if !Level(n).Valid() {
			return fmt.Errorf("unknown access level %d", n)
		}
		*l = Level(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("access level: %w", err)
	}
	return l.UnmarshalText([]byte(s))
}
