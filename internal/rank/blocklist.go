package rank

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// BlockSet is the blocklist of commonly reused, low-entropy chunks. It holds
// only full MD5 digests, never the raw chunks, so distributing the set does
// not leak the dangerous strings themselves.
type BlockSet struct {
	digests map[string]struct{}
}

// NewBlockSet builds a block set from the artifact's digest strings. Digests
// are matched case-insensitively on their hex form.
func NewBlockSet(digests []string) *BlockSet {
	b := &BlockSet{digests: make(map[string]struct{}, len(digests))}
	for _, d := range digests {
		b.digests[strings.ToLower(d)] = struct{}{}
	}
	return b
}

// Contains reports whether the chunk's digest is on the blocklist. The chunk
// is digested locally; only digests are ever compared.
func (b *BlockSet) Contains(chunk string) bool {
	sum := md5.Sum([]byte(chunk))
	_, ok := b.digests[hex.EncodeToString(sum[:])]
	return ok
}

// Len returns the number of blocked digests.
func (b *BlockSet) Len() int { return len(b.digests) }
