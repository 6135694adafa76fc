// Package compression wraps the codecs used for response bodies and
// report downloads.
package compression

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}
