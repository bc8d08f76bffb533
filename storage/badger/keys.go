package badger

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// Key prefixes for different data types
const (
	documentPrefix  = "doc"
	watermarkPrefix = "cmt"
	sequencePrefix  = "seq"
)

// collectionDigest hashes a collection name to a fixed-width token.
// Collection names are opaque caller input and may contain the key
// delimiter, so keys embed the digest instead of the raw name.
func collectionDigest(collection string) [8]byte {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(collection))
	var digest [8]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

// makeDocumentPrefix generates the key prefix shared by every document
// in a collection. Format: prefix:digest:
func makeDocumentPrefix(collection string) []byte {
	digest := collectionDigest(collection)
	buf := make([]byte, 0, len(documentPrefix)+1+len(digest)+1)
	buf = append(buf, documentPrefix...)
	buf = append(buf, ':')
	buf = append(buf, digest[:]...)
	buf = append(buf, ':')
	return buf
}

// makeDocumentKey generates a key for a document by sequence number.
// The sequence is written in BigEndian order so lexicographic iteration
// follows insertion order.
func makeDocumentKey(collection string, seq uint64) []byte {
	prefix := makeDocumentPrefix(collection)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// documentSequence extracts the sequence number from a document key.
func documentSequence(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(key)-8:])
}

// makeWatermarkKey generates the key holding a collection's highest
// committed sequence number.
func makeWatermarkKey(collection string) []byte {
	digest := collectionDigest(collection)
	buf := make([]byte, 0, len(watermarkPrefix)+1+len(digest))
	buf = append(buf, watermarkPrefix...)
	buf = append(buf, ':')
	buf = append(buf, digest[:]...)
	return buf
}

// makeSequenceKey generates the key backing a collection's badger
// sequence.
func makeSequenceKey(collection string) []byte {
	digest := collectionDigest(collection)
	buf := make([]byte, 0, len(sequencePrefix)+1+len(digest))
	buf = append(buf, sequencePrefix...)
	buf = append(buf, ':')
	buf = append(buf, digest[:]...)
	return buf
}
