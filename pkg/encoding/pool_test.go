package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeJSONToBuffer(t *testing.T) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	require.NoError(t, EncodeJSONToBuffer(buf, map[string]string{"number": "4111111111111111"}))
	assert.JSONEq(t, `{"number":"4111111111111111"}`, buf.String())
}

func TestPutBuffer_ZeroesContents(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("4111111111111111")
	backing := buf.Bytes()

	PutBuffer(buf)

	assert.Equal(t, 0, buf.Len())
	for _, b := range backing {
		assert.Zero(t, b)
	}
}

func TestGetBuffer_ReturnsEmptyBuffer(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("cvv=123")
	PutBuffer(buf)

	assert.Equal(t, 0, GetBuffer().Len())
}
