package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// EntityKey addresses one synchronized entity set. The same keys name the
// remote rows, the realtime channels, and the local cache entries.
type EntityKey string

const (
	KeySettings     EntityKey = "union_settings"
	KeyPosts        EntityKey = "union_posts"
	KeyDeletedPosts EntityKey = "union_deleted_posts"
	KeyMembers      EntityKey = "union_members"
)

// EntityKeys returns all synchronized entity-set keys.
func EntityKeys() []EntityKey {
	return []EntityKey{KeySettings, KeyPosts, KeyDeletedPosts, KeyMembers}
}

func (k EntityKey) Valid() bool {
	switch k {
	case KeySettings, KeyPosts, KeyDeletedPosts, KeyMembers:
		return true
	}
	return false
}

// Fingerprint derives the change-detection hash of an entity-set value:
// sha256 over the canonical JSON encoding. Struct encoding order is fixed,
// so equal values always produce equal fingerprints.
func Fingerprint(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// Entity sets are plain structs and slices; this cannot fail for them.
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// ValidateEntity decodes raw as the schema declared for key and checks the
// set's invariants. This is the parse-don't-trust boundary: malformed remote
// payloads are rejected here instead of leaking into consumers.
func ValidateEntity(key EntityKey, raw json.RawMessage) error {
	switch key {
	case KeySettings:
		var s SiteSettings
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return ValidateSettings(s)
	case KeyPosts, KeyDeletedPosts:
		var posts []Post
		if err := json.Unmarshal(raw, &posts); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return ValidatePosts(posts)
	case KeyMembers:
		var members []Member
		if err := json.Unmarshal(raw, &members); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return ValidateMembers(members)
	default:
		return fmt.Errorf("unknown entity key %q", key)
	}
}
