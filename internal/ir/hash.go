package ir

import (
	"encoding/hex"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/zeebo/blake3"
)

// ScriptCID computes the content identifier of a script:
// CIDv1 with the raw codec (0x55) over a sha2-256 multihash,
// rendered in the default base32 form ("bafkrei...").
//
// The identifier is stable: equal bytes always give the same CID.
func ScriptCID(source []byte) (string, error) {
	digest, err := multihash.Sum(source, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("script cid: %w", err)
	}
	return cid.NewCidV1(cid.Raw, digest).String(), nil
}

// Checksum returns the hex BLAKE3-256 digest of data.
// Used to detect corruption of stored payloads.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
