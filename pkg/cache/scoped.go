package cache

// ScopedKeyer prefixes every key of an inner Keyer. The HTTP server uses
// it to keep its entries apart from the CLI's when both share a backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix to every key of
// inner. A nil inner uses the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SentenceKey implements Keyer.
func (k *ScopedKeyer) SentenceKey(paramsHash string, opts SentenceKeyOpts) string {
	return k.prefix + k.inner.SentenceKey(paramsHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(sentenceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sentenceHash, opts)
}
