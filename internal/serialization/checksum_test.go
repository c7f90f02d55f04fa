package serialization

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

// TestChecksum_KnownVectors pins the SHA-256 implementation to known digests.
func TestChecksum_KnownVectors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hello world", "hello world", "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := ComputeChecksum([]byte(tt.input))
			if got := hex.EncodeToString(sum[:]); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}

			fromReader, err := ComputeChecksumReader(bytes.NewReader([]byte(tt.input)))
			if err != nil {
				t.Fatalf("ComputeChecksumReader failed: %v", err)
			}
			if fromReader != sum {
				t.Error("Reader checksum should match direct checksum")
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestComputeChecksumReader_Error(t *testing.T) {
	if _, err := ComputeChecksumReader(failingReader{}); err == nil {
		t.Error("Expected read error to propagate")
	}
}

func TestValidateChecksum(t *testing.T) {
	sum := ComputeChecksum([]byte("weights"))
	if err := ValidateChecksum(sum, sum); err != nil {
		t.Errorf("Expected no error for matching checksums, got: %v", err)
	}

	other := ComputeChecksum([]byte("weightz"))
	err := ValidateChecksum(other, sum)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Expected ErrChecksumMismatch, got: %v", err)
	}
}
