package store

import "github.com/klauspost/compress/zstd"

var scriptEncoder, _ = zstd.NewWriter(nil)

func compressBytes(src []byte) []byte {
	return scriptEncoder.EncodeAll(src, make([]byte, 0, len(src)))
}

// Decoder with cached decompressors; nil reader since only DecodeAll is used.
var scriptDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))

func decompressBytes(src []byte) ([]byte, error) {
	return scriptDecoder.DecodeAll(src, nil)
}
