package kerrors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndIs(t *testing.T) {
	err := New(Crypto, "unsupported algorithm")
	assert.True(t, IsCrypto(err))
	assert.False(t, IsParsing(err))
	assert.Equal(t, "crypto: unsupported algorithm", err.Error())
}

func TestWrapUnwrap(t *testing.T) {
	err := Wrap(IO, "read reply", io.ErrUnexpectedEOF)
	assert.True(t, IsIO(err))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestIsFalseOnPlainError(t *testing.T) {
	assert.False(t, IsKerberos(errors.New("plain")))
}

func TestNewf(t *testing.T) {
	err := Newf(InvalidConst, "unexpected tag %d", 7)
	assert.Equal(t, "invalid_const: unexpected tag 7", err.Error())
}
