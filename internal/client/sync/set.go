package sync

import (
	"encoding/json"
	stdsync "sync"

	core "github.com/ourunion/unionhub/internal/models"
)

// entitySet is the controller's state for one synchronized set: the
// current document, the fingerprint of the last value considered synced,
// and a write-generation counter. The counter replaces a timed
// suppress-echo flag: a pull result is applied only if no local write
// landed after the pull started.
type entitySet struct {
	key core.EntityKey

	mu          stdsync.Mutex
	value       json.RawMessage
	fingerprint string
	generation  uint64
}

func newEntitySet(key core.EntityKey) *entitySet {
	return &entitySet{key: key}
}

// snapshot returns a copy of the current document and the generation it
// was observed at.
func (s *entitySet) snapshot() (json.RawMessage, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value := make(json.RawMessage, len(s.value))
	copy(value, s.value)
	return value, s.generation
}

// applyLocal installs a locally mutated document and bumps the
// generation. The fingerprint is set immediately so that observing the
// same document back from the server is a no-op.
func (s *entitySet) applyLocal(value json.RawMessage, fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.fingerprint = fingerprint
	s.generation++
}

// applyRemote installs a pulled document. It reports false without
// changing state when the fingerprint matches the last synced one, or
// when a local write happened after sinceGen (last write observed wins).
func (s *entitySet) applyRemote(sinceGen uint64, value json.RawMessage, fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fingerprint == s.fingerprint {
		return false
	}
	if s.generation != sinceGen {
		return false
	}
	s.value = value
	s.fingerprint = fingerprint
	return true
}

// seed installs an initial document without generation bookkeeping.
// Used only during initialization, before any consumer runs.
func (s *entitySet) seed(value json.RawMessage, fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.fingerprint = fingerprint
}

// canonicalFingerprint hashes the canonical re-encoding of raw, so that
// formatting differences introduced by server-side JSON storage do not
// read as content changes.
func canonicalFingerprint(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return core.Fingerprint(raw)
	}
	return core.Fingerprint(v)
}
