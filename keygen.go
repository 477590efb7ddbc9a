package cache

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Key builds a cache key of the form "namespace:digest", where digest is
// a 16-hex-character hash of params.
//
// Params are canonicalized before hashing: JSON object keys are emitted
// in sorted order and time values serialize to a fixed RFC 3339 form, so
// structurally equal params produce the same key regardless of how they
// were assembled. Array order is significant. The digest is not
// cryptographic; it only needs to keep distinct params apart.
func Key(namespace string, params any) string {
	b, err := json.Marshal(params)
	if err != nil {
		// Unserializable params still need a stable key.
		b = []byte(fmt.Sprintf("%#v", params))
	}
	return fmt.Sprintf("%s:%016x", namespace, xxhash.Sum64(b))
}
