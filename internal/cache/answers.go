// Package cache keeps accepted extraction answers on disk so reruns over the
// same page text skip the model call.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Answer is one saved extraction. Record holds the normalized record, not
// the model's raw reply, so a hit is used as is.
type Answer struct {
	Model        string          `json:"model"`
	PromptSHA256 string          `json:"prompt_sha256"`
	Record       json.RawMessage `json:"record"`
	SavedAt      time.Time       `json:"saved_at"`
}

// Answers is a directory of Answer files, one per model and prompt.
type Answers struct {
	Dir string
	// Private keeps the directory at 0700 and entries at 0600.
	Private bool
}

// PromptDigest is the hex SHA-256 of prompt.
func PromptDigest(prompt string) string {
	h := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(h[:])
}

// Key names the entry for model and prompt.
func Key(model, prompt string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}

func (a *Answers) modes() (dir, file os.FileMode) {
	if a.Private {
		return 0o700, 0o600
	}
	return 0o755, 0o644
}

func (a *Answers) prepare() error {
	if a == nil || a.Dir == "" {
		return errors.New("answer cache dir not configured")
	}
	dirMode, _ := a.modes()
	if err := os.MkdirAll(a.Dir, dirMode); err != nil {
		return err
	}
	if a.Private {
		return os.Chmod(a.Dir, dirMode)
	}
	return nil
}

func (a *Answers) path(key string) string {
	return filepath.Join(a.Dir, key+".json")
}

// Lookup returns the answer saved for model and prompt. An entry that does
// not decode, or that was saved for another model or prompt, is removed and
// reported as a miss. Hits refresh the entry's mtime so EnforceLimits evicts
// the least recently used first.
func (a *Answers) Lookup(_ context.Context, model, prompt string) (Answer, bool, error) {
	if err := a.prepare(); err != nil {
		return Answer{}, false, err
	}
	p := a.path(Key(model, prompt))
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return Answer{}, false, nil
	}
	if err != nil {
		return Answer{}, false, err
	}
	var ans Answer
	if err := json.Unmarshal(b, &ans); err != nil || ans.Model != model || ans.PromptSHA256 != PromptDigest(prompt) || len(ans.Record) == 0 {
		_ = os.Remove(p)
		return Answer{}, false, nil
	}
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return ans, true, nil
}

// Remember saves record as the answer for model and prompt, replacing any
// previous entry. The file is renamed into place so a concurrent Lookup never
// reads a partial entry.
func (a *Answers) Remember(_ context.Context, model, prompt string, record any) error {
	if err := a.prepare(); err != nil {
		return err
	}
	rec, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	b, err := json.MarshalIndent(Answer{
		Model:        model,
		PromptSHA256: PromptDigest(prompt),
		Record:       rec,
		SavedAt:      time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}

	tmp, err := os.CreateTemp(a.Dir, ".answer-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	_, fileMode := a.modes()
	if err := os.Chmod(tmp.Name(), fileMode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), a.path(Key(model, prompt)))
}
