package compression

import "github.com/klauspost/compress/zstd"

// One encoder and decoder for the whole process: EncodeAll and DecodeAll
// are safe for concurrent use, and rebuilding the codec tables on every
// report download is wasted work.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// ZstdCompressor compresses whole payloads in memory. The sales CSV
// exports it serves are small, so there is no streaming variant.
type ZstdCompressor struct{}

func (z ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func (z ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(data, nil)
}
