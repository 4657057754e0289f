package encoding

import (
	"bytes"
	"sync"

	"github.com/goccy/go-json"
)

// maxPooledSize keeps outlier bodies from pinning memory in the pool
const maxPooledSize = 64 * 1024

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

// GetBuffer retrieves an empty bytes.Buffer from the pool
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer zeroes the buffer and returns it to the pool.
// Request bodies carry card data, so no bytes survive into the next use.
func PutBuffer(buf *bytes.Buffer) {
	b := buf.Bytes()
	for i := range b {
		b[i] = 0
	}
	buf.Reset()
	if buf.Cap() > maxPooledSize {
		return
	}
	bufferPool.Put(buf)
}

// EncodeJSONToBuffer encodes v as JSON into buf
func EncodeJSONToBuffer(buf *bytes.Buffer, v interface{}) error {
	return json.NewEncoder(buf).Encode(v)
}
