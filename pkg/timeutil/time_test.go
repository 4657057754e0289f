package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNow_AlwaysUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Now().Location())
}

func TestFixed(t *testing.T) {
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	clock := Fixed(at)

	assert.Equal(t, at, clock())
	assert.Equal(t, at, clock())
}
