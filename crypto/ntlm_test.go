package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNTLMHashVector(t *testing.T) {
	got := NTLMHash("foo")
	want := []byte{172, 142, 101, 127, 131, 223, 130, 190, 234, 93, 67, 189, 175, 120, 0, 204}
	assert.Equal(t, want, got)
}
