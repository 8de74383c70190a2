// Package cache provides the storage layer for derived sentences and
// exported artifacts.
//
// The pipeline caches two kinds of blob:
//
//   - Sentences: the text form of a derived sentence, keyed by the grammar
//     parameters and step count. Deriving is the expensive stage since
//     sentence length grows with every generation.
//   - Artifacts: exporter output, keyed by the sentence hash and the
//     interpretation and export options.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for shared deployments of the HTTP API, and [NullCache] when caching is
// disabled. Key construction is separated into [Keyer] so callers can
// namespace keys with [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Default time-to-live per key type. Derived sentences are deterministic in
// their key, so they can live much longer than artifacts whose exporters
// may change between releases.
const (
	TTLSentence = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SentenceKeyOpts identifies a derivation.
type SentenceKeyOpts struct {
	Rule  string `json:"rule"`
	Steps int    `json:"steps"`
}

// ArtifactKeyOpts identifies one exported artifact of a sentence. Preset,
// Seed and Steps are recorded in the JSON export, so they are part of the
// key.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Preset   string  `json:"preset"`
	Seed     *uint64 `json:"seed,omitempty"`
	Steps    int     `json:"steps"`
	Mode     string  `json:"mode"`
	Angle    float64 `json:"angle"`
	Fit      float64 `json:"fit"`
	Rotation float64 `json:"rotation"`
}

// Keyer builds cache keys.
type Keyer interface {
	// SentenceKey returns the key for a derived sentence. paramsHash is a
	// hash over the axiom and grammar parameters.
	SentenceKey(paramsHash string, opts SentenceKeyOpts) string

	// ArtifactKey returns the key for an exported artifact. sentenceHash is
	// a hash over the sentence text.
	ArtifactKey(sentenceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every key component into a fixed-length key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SentenceKey implements Keyer.
func (DefaultKeyer) SentenceKey(paramsHash string, opts SentenceKeyOpts) string {
	return hashKey("sentence", paramsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sentenceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sentenceHash, opts)
}
