package krb5

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinOptionsAndHasOption(t *testing.T) {
	bits := JoinOptions(OptRenewable, OptRenewableOk)
	assert.True(t, HasOption(bits, OptRenewable))
	assert.True(t, HasOption(bits, OptRenewableOk))
	assert.False(t, HasOption(bits, OptForwardable))
	assert.False(t, HasOption(bits, OptCanonicalize))
}

func TestHasOptionOnEmptyBits(t *testing.T) {
	assert.False(t, HasOption(nil, OptForwardable))
}
