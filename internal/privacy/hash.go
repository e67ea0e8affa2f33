package privacy

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContactHash returns the one-way digest stored in place of a raw contact
// value. The transform is deterministic so exact-match lookup keeps working,
// and irreversible: there is no supported way to recover the original.
func ContactHash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
