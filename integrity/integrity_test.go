package integrity

import (
	"testing"

	"github.com/shiloren/gics/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32Deterministic(t *testing.T) {
	data := []byte("segment payload bytes")
	assert.Equal(t, CRC32(data), CRC32(data))
	assert.NotEqual(t, CRC32(data), CRC32([]byte("different")))
}

func TestCheckCRC32(t *testing.T) {
	data := []byte("abc")
	require.NoError(t, CheckCRC32(data, CRC32(data)))

	err := CheckCRC32(data, CRC32(data)+1)
	require.Error(t, err)
	assert.True(t, errs.IsIntegrity(err))
}

func TestChainDeterministicAndOrderSensitive(t *testing.T) {
	segments := [][]byte{[]byte("seg0"), []byte("seg1"), []byte("seg2")}

	c1 := NewChain()
	for _, s := range segments {
		c1.Update(s)
	}

	c2 := NewChain()
	for _, s := range segments {
		c2.Update(s)
	}
	assert.Equal(t, c1.Root(), c2.Root())

	c3 := NewChain()
	for i := len(segments) - 1; i >= 0; i-- {
		c3.Update(segments[i])
	}
	assert.NotEqual(t, c1.Root(), c3.Root())
}

func TestChainZeroRootWhenEmpty(t *testing.T) {
	c := NewChain()
	assert.Equal(t, [32]byte{}, c.Root())
}

func TestVerifyChainRoot(t *testing.T) {
	segments := [][]byte{[]byte("a"), []byte("b")}
	c := NewChain()
	for _, s := range segments {
		c.Update(s)
	}

	assert.True(t, VerifyChainRoot(segments, c.Root()))
	assert.False(t, VerifyChainRoot(segments, [32]byte{}))

	err := CheckChainRoot(segments, [32]byte{})
	require.Error(t, err)
	assert.True(t, errs.IsIntegrity(err))
}

func TestAuthVerifyRoundTrip(t *testing.T) {
	key := []byte("derived-password-key-32-bytes!!")
	token := AuthVerify(key)

	assert.True(t, VerifyAuth(key, token))
	assert.False(t, VerifyAuth([]byte("wrong-key-entirely-different-32"), token))

	require.NoError(t, CheckAuth(key, token))
	err := CheckAuth([]byte("wrong-key-entirely-different-32"), token)
	require.Error(t, err)
	assert.True(t, errs.IsIntegrity(err))
}
