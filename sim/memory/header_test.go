package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader_EncodeDecode(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		preUse bool
		use    bool
		want   int
	}{
		{"free, predecessor free", 10, false, false, 40},
		{"free, predecessor used", 10, true, false, 42},
		{"used, predecessor free", 10, false, true, 41},
		{"used, predecessor used", 10, true, true, 43},
		{"terminator", 0, false, true, 1},
		{"initial heap block", 1995, true, false, 7982},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := MakeHeader(tt.size, tt.preUse, tt.use)
			assert.Equal(t, tt.want, int(h))
			assert.Equal(t, tt.size, h.Size())
			assert.Equal(t, tt.preUse, h.PreUse())
			assert.Equal(t, tt.use, h.Use())
		})
	}
}

func TestHeader_WithBits_PreservesOtherFields(t *testing.T) {
	// GIVEN an allocated block whose predecessor is allocated
	h := MakeHeader(7, true, true)

	// WHEN each bit is cleared independently
	free := h.WithUse(false)
	orphan := h.WithPreUse(false)

	// THEN only the targeted bit changes
	assert.Equal(t, MakeHeader(7, true, false), free)
	assert.Equal(t, MakeHeader(7, false, true), orphan)
	assert.Equal(t, 7, free.Size())
	assert.Equal(t, 7, orphan.Size())
}

func TestHeader_String(t *testing.T) {
	assert.Equal(t, "{size=11 preuse=1 use=0}", MakeHeader(11, true, false).String())
}
