package storage

import (
	"encoding/binary"
	"math"
)

// EncodeEmbedding packs a float32 vector into little-endian IEEE-754 bytes
// for BLOB storage. A nil or empty vector encodes to nil, which is stored
// as NULL (the entry had no text to embed).
func EncodeEmbedding(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// DecodeEmbedding unpacks a BLOB written by EncodeEmbedding. Trailing bytes
// that do not form a full float32 are ignored.
func DecodeEmbedding(b []byte) []float32 {
	n := len(b) / 4
	if n == 0 {
		return nil
	}
	vec := make([]float32, n)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec
}
