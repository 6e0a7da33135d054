package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-1", FormatNumber("INV-", 1))
	assert.Equal(t, "ACME-42", FormatNumber("ACME-", 42))

	// No zero padding
	assert.Equal(t, "INV-7", FormatNumber("INV-", 7))

	// Empty prefix falls back to the default
	assert.Equal(t, "INV-3", FormatNumber("", 3))
}

func TestFallbackSequence(t *testing.T) {
	assert.Equal(t, int64(1), FallbackSequence(0))
	assert.Equal(t, int64(6), FallbackSequence(5))
}
