package safemath

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestAdd64(t *testing.T) {
	tests := []struct {
		name   string
		a, b   uint64
		want   uint64
		wantOK bool
	}{
		{"zero plus zero", 0, 0, 0, true},
		{"small", 1, 2, 3, true},
		{"at boundary", math.MaxUint64 - 1, 1, math.MaxUint64, true},
		{"overflow max plus one", math.MaxUint64, 1, 0, false},
		{"overflow max plus max", math.MaxUint64, math.MaxUint64, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Add64(tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMul64(t *testing.T) {
	got, ok := Mul64(1<<32, 1<<31)
	assert.True(t, ok)
	assert.Equal(t, uint64(1)<<63, got)

	_, ok = Mul64(1<<32, 1<<32)
	assert.False(t, ok)

	_, ok = Mul64(math.MaxUint64, 2)
	assert.False(t, ok)
}

func TestUint256(t *testing.T) {
	maxBalance := *new(uint256.Int).SetAllOne()

	sum, ok := AddUint256(*uint256.NewInt(40), *uint256.NewInt(2))
	assert.True(t, ok)
	assert.Equal(t, uint64(42), sum.Uint64())

	_, ok = AddUint256(maxBalance, *uint256.NewInt(1))
	assert.False(t, ok)

	diff, ok := SubUint256(*uint256.NewInt(42), *uint256.NewInt(42))
	assert.True(t, ok)
	assert.True(t, diff.IsZero())

	_, ok = SubUint256(*uint256.NewInt(1), *uint256.NewInt(2))
	assert.False(t, ok)
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name                string
		page, limit, length uint64
		start, end          uint64
	}{
		{"page zero", 0, 2, 5, 0, 0},
		{"limit zero", 1, 0, 5, 0, 0},
		{"first page", 1, 2, 5, 0, 2},
		{"second page", 2, 2, 5, 2, 4},
		{"partial last page", 3, 2, 5, 4, 5},
		{"past the end", 4, 2, 5, 0, 0},
		{"empty sequence", 1, 10, 0, 0, 0},
		{"limit larger than length", 1, math.MaxUint64, 5, 0, 5},
		{"offset overflows", math.MaxUint64, math.MaxUint64, 5, 0, 0},
		{"offset fits but beyond length", 1 << 33, 1 << 30, 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PageBounds(tt.page, tt.limit, tt.length)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}
