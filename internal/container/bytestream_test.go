package container_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morphgo/morphgo/internal/container"
)

func TestByteStreamBufferBuffersUntilFlush(t *testing.T) {
	var sink bytes.Buffer
	bsb := container.NewByteStreamBuffer(&sink, 64)

	require.NoError(t, bsb.Append([]byte("hello")))
	assert.Equal(t, 0, sink.Len(), "nothing should reach the sink before Flush")

	require.NoError(t, bsb.Flush())
	assert.Equal(t, "hello", sink.String())
}

func TestByteStreamBufferFlushesOnOverflow(t *testing.T) {
	var sink bytes.Buffer
	bsb := container.NewByteStreamBuffer(&sink, 8)

	require.NoError(t, bsb.Append([]byte("1234567")))
	require.NoError(t, bsb.Append([]byte("89")))
	// the second append doesn't fit in the remaining free space of an
	// already-full-sized buffer, so it forces a flush of the first payload
	// before being buffered itself.
	assert.Equal(t, "1234567", sink.String())

	require.NoError(t, bsb.Flush())
	assert.Equal(t, "123456789", sink.String())
}
