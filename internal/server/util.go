package server

import "crypto/rand"

// newCapabilityKey returns an opaque bearer credential. Keys double as login
// codes, so the alphabet avoids ambiguous characters. Bytes outside the
// largest multiple of the alphabet size are rejected to keep the draw
// uniform.
func newCapabilityKey(length int) string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
	const limit = 256 - 256%len(alphabet)
	if length <= 0 {
		length = 40
	}
	key := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(key) < length {
		if _, err := rand.Read(buf); err != nil {
			panic(err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			key = append(key, alphabet[int(b)%len(alphabet)])
			if len(key) == length {
				break
			}
		}
	}
	return string(key)
}
