package compression

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("product_id,name,qty,revenue\n1,Arepa,5,25\n", 200))

	for _, c := range []Compressor{GzipCompressor{}, ZstdCompressor{}} {
		compressed, err := c.Compress(payload)
		if err != nil {
			t.Fatalf("Compress failed: %v", err)
		}
		if len(compressed) >= len(payload) {
			t.Errorf("Expected repetitive payload to shrink, got %d -> %d", len(payload), len(compressed))
		}

		restored, err := c.Decompress(compressed)
		if err != nil {
			t.Fatalf("Decompress failed: %v", err)
		}
		if !bytes.Equal(restored, payload) {
			t.Error("Round trip did not restore the payload")
		}
	}
}

func TestZstdConcurrentUse(t *testing.T) {
	// The package shares one encoder and decoder; parallel exports must
	// not corrupt each other.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			payload := bytes.Repeat([]byte{byte('a' + n%26)}, 4096)
			compressed, err := ZstdCompressor{}.Compress(payload)
			if err != nil {
				t.Errorf("Compress failed: %v", err)
				return
			}
			restored, err := ZstdCompressor{}.Decompress(compressed)
			if err != nil {
				t.Errorf("Decompress failed: %v", err)
				return
			}
			if !bytes.Equal(restored, payload) {
				t.Error("Concurrent round trip diverged")
			}
		}(i)
	}
	wg.Wait()
}
