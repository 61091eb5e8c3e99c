package shared

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// DigestHex returns the hex-encoded blake3-256 digest of data. Used for
// doctrine digests and the season archive hash chain.
func DigestHex(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// KeyedDigestHex returns the hex-encoded keyed blake3 MAC of data. The
// key must be 32 bytes.
func KeyedDigestHex(key []byte, data []byte) string {
	h := blake3.New(32, key)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SignHex MACs data with a secret of any length; the MAC key is the
// blake3-256 digest of the secret. Webhook deliveries are signed with
// this over timestamp followed by body.
func SignHex(secret string, data []byte) string {
	key := blake3.Sum256([]byte(secret))
	return KeyedDigestHex(key[:], data)
}
