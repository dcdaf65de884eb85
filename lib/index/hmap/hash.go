package hmap

// FNV-1a, the reference hash for hashed keys. Kept here so every layer
// that addresses the map hashes the same way.
const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// HashBytes returns the 64-bit FNV-1a hash of p.
func HashBytes(p []byte) uint64 {
	hash := uint64(fnvOffset64)
	for i := 0; i < len(p); i++ {
		hash ^= uint64(p[i])
		hash *= fnvPrime64
	}
	return hash
}

// HashString returns the 64-bit FNV-1a hash of s without copying it.
func HashString(s string) uint64 {
	hash := uint64(fnvOffset64)
	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= fnvPrime64
	}
	return hash
}
