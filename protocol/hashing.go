package protocol

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

var keccakPool = sync.Pool{
	New: func() any { return sha3.NewLegacyKeccak256() },
}

// Keccak256 hashes the concatenation of chunks. Quote digests, VAA digests and resolver
// cache keys all go through here.
func Keccak256(chunks ...[]byte) Bytes32 {
	h, ok := keccakPool.Get().(hash.Hash)
	if !ok {
		panic("keccak pool returned a non-hash value")
	}
	defer keccakPool.Put(h)

	h.Reset()
	for _, c := range chunks {
		h.Write(c) //nolint:revive // hash.Hash writes never fail
	}
	var out Bytes32
	h.Sum(out[:0])
	return out
}
