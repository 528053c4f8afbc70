// Package credential models the Anthropic API key under diagnosis.
package credential

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"

	"keydoctor/config"
)

// Key is the secrets entry holding the API key.
const Key = "ANTHROPIC_API_KEY"

// Prefix is the literal every Anthropic API key starts with.
const Prefix = "sk-ant-"

const (
	previewHead = 20
	previewTail = 10
	previewSep  = "..."

	fingerprintLen = 12
)

var ErrNotFound = errors.New(Key + " not found in secrets store")

// Credential holds the key exactly as loaded. The raw value is for display
// only; outbound calls use Effective.
type Credential struct {
	Raw string
}

func New(raw string) Credential {
	return Credential{Raw: raw}
}

// Load reads the key from store. It never mutates the store.
func Load(store config.Store) (Credential, error) {
	if store == nil {
		return Credential{}, ErrNotFound
	}
	raw, ok := store.Lookup(Key)
	if !ok {
		return Credential{}, ErrNotFound
	}
	return New(raw), nil
}

// Preview returns the first 20 and last 10 characters of the raw value
// joined by "...". Short values are clamped, never padded.
func (c Credential) Preview() string {
	r := []rune(c.Raw)
	head := r[:min(previewHead, len(r))]
	tail := r[max(0, len(r)-previewTail):]
	return string(head) + previewSep + string(tail)
}

// Length is the character count of the raw value.
func (c Credential) Length() int {
	return len([]rune(c.Raw))
}

func (c Credential) HasValidPrefix() bool {
	return strings.HasPrefix(c.Raw, Prefix)
}

// Trimmed strips surrounding whitespace, counting the ASCII information
// separators U+001C..U+001F as whitespace too.
func (c Credential) Trimmed() string {
	return strings.TrimFunc(c.Raw, isSpace)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

func (c Credential) HasSurroundingWhitespace() bool {
	return c.Trimmed() != c.Raw
}

// Effective is the value sent to the API.
func (c Credential) Effective() string {
	return c.Trimmed()
}

// Fingerprint identifies the effective key in logs, locks and history
// without revealing it.
func (c Credential) Fingerprint() string {
	sum := sha256.Sum256([]byte(c.Effective()))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}
