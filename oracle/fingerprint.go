package oracle

import (
	"fmt"
	"hash/crc32"

	"github.com/irforge/typetighten/ir"
)

// identityBit hashes t's own pointer identity into a single bit of a 64-bit
// mask, the same CRC32-then-modulo-64 scheme the teacher's RTA fingerprinter
// uses over method sets — here applied to reference-type identity so that
// two disjoint descendant sets can usually be rejected with one AND before
// falling back to an exact set-membership check.
func identityBit(t ir.ReferenceType) uint64 {
	sum := crc32.ChecksumIEEE(fmt.Appendf(nil, "%p", t))
	return 1 << (sum % 64)
}

// fingerprint ORs together the identity bits of every type in ts.
func fingerprint(ts map[ir.ReferenceType]struct{}) uint64 {
	var mask uint64
	for t := range ts {
		mask |= identityBit(t)
	}
	return mask
}

// maybeIntersects is the fast-reject check: if it returns false, a and b's
// member sets are definitely disjoint and no exact check is needed.
func maybeIntersects(aMask, bMask uint64) bool {
	return aMask&bMask != 0
}
