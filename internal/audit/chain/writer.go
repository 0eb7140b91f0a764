// Package chain writes a tamper-evident audit log: one JSON event per line,
// each carrying the SHA-256 of the previous line's hash and its own body.
package chain

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/lightgame/panel/internal/entity"
)

type Writer struct {
	mu   sync.Mutex
	f    *os.File
	prev []byte // previous hash
	now  func() time.Time
}

// NewWriter opens path for appending. An existing log is continued from its
// last hash.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	prev, err := lastHash(path)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Writer{f: f, prev: prev, now: time.Now}, nil
}

func (w *Writer) Close() error { return w.f.Close() }

type Event struct {
	Time   time.Time         `json:"time"`
	Kind   string            `json:"kind"`
	Actor  string            `json:"actor"`
	Target string            `json:"target"`
	Meta   map[string]string `json:"meta"`
	Prev   string            `json:"prev"`
	Hash   string            `json:"hash"`
}

func digest(prev []byte, ev Event) ([]byte, error) {
	ev.Hash = ""
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	h := sha256.Sum256(append(append([]byte{}, prev...), b...))
	return h[:], nil
}

func (w *Writer) Log(kind, actor, target string, meta map[string]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	ev := Event{Time: w.now().UTC(), Kind: kind, Actor: actor, Target: target, Meta: meta, Prev: hex.EncodeToString(w.prev)}
	h, err := digest(w.prev, ev)
	if err != nil {
		return err
	}
	ev.Hash = hex.EncodeToString(h)
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.f.Write(append(b, '\n')); err != nil {
		return err
	}
	copy(w.prev, h)
	return nil
}

func lastHash(path string) ([]byte, error) {
	prev := make([]byte, sha256.Size)
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return prev, nil
	}
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return prev, nil
	}
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}
	var ev Event
	if err := json.Unmarshal(b, &ev); err != nil {
		return nil, fmt.Errorf("audit: last line of %s: %w", path, err)
	}
	h, err := hex.DecodeString(ev.Hash)
	if err != nil || len(h) != sha256.Size {
		return nil, fmt.Errorf("audit: last line of %s has a bad hash", path)
	}
	return h, nil
}

// Verify walks the log at path and returns the number of events, or an
// error naming the first line whose chain is broken.
func Verify(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	prev := make([]byte, sha256.Size)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		n++
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return n - 1, fmt.Errorf("audit: line %d: %w", n, err)
		}
		if ev.Prev != hex.EncodeToString(prev) {
			return n - 1, fmt.Errorf("audit: line %d: chain broken", n)
		}
		h, err := digest(prev, ev)
		if err != nil {
			return n - 1, err
		}
		if ev.Hash != hex.EncodeToString(h) {
			return n - 1, fmt.Errorf("audit: line %d: hash mismatch", n)
		}
		prev = h
	}
	return n, sc.Err()
}

// Observer records the game API calls of one user. Successful list calls are
// skipped; every mutation and every failure is logged.
func (w *Writer) Observer(actor func() string) entity.Observer {
	return entity.ObserverFunc(func(_ context.Context, ev entity.Event) {
		if ev.Op == entity.OpList && ev.Err == nil {
			return
		}
		meta := map[string]string{
			"status":  strconv.Itoa(ev.Status),
			"elapsed": ev.Elapsed.String(),
		}
		if ev.Err != nil {
			meta["error"] = ev.Err.Error()
		}
		target := ev.Entity
		if ev.ID != 0 {
			target += "#" + strconv.Itoa(ev.ID)
		}
		_ = w.Log(string(ev.Op), actor(), target, meta)
	})
}
