package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len(), "new buffer should have zero length")
	assert.Equal(t, 1024, bb.Cap(), "new buffer should have specified capacity")
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(8)

	n, err := bb.Write([]byte("some data"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, []byte("some data"), bb.Bytes())

	originalCap := bb.Cap()
	bb.Reset()
	assert.Equal(t, 0, bb.Len(), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, bb.Cap(), "Reset should preserve capacity")
}

func TestByteBuffer_Reserve(t *testing.T) {
	bb := NewByteBuffer(4)
	_, _ = bb.Write([]byte("ab"))

	bb.Reserve(2)
	assert.Equal(t, 4, bb.Cap(), "Reserve should not grow when capacity suffices")

	bb.Reserve(100)
	assert.GreaterOrEqual(t, bb.Cap()-bb.Len(), 100)
	assert.Equal(t, []byte("ab"), bb.Bytes(), "Reserve must keep existing content")
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.Write([]byte("payload"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "payload", out.String())
}

func TestByteBufferPool_DropsOversizedBuffers(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	_, _ = bb.Write([]byte("abc"))
	p.Put(bb)

	reused := p.Get()
	assert.Equal(t, 0, reused.Len(), "pooled buffers come back empty")

	big := NewByteBuffer(128)
	p.Put(big) // silently dropped

	p.Put(nil)
}

func TestGetPageBuffer(t *testing.T) {
	bb := GetPageBuffer(PageBufferDefaultSize * 2)
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), PageBufferDefaultSize*2)

	PutPageBuffer(bb)
}
