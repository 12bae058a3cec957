// Package codec converts cached values to and from bytes for byte-oriented
// providers (see store/encoded).
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
