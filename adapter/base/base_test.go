package base

import (
	"math"
	"testing"
	"time"
)

func TestWaitMs(t *testing.T) {
	tests := []struct {
		timeout time.Duration
		want    uint32
	}{
		{-5 * time.Millisecond, 0},
		{0, 0},
		{500 * time.Microsecond, 0},
		{250 * time.Millisecond, 250},
		{time.Duration(math.MaxUint32+10) * time.Millisecond, math.MaxUint32},
	}
	for _, tt := range tests {
		if got := WaitMs(tt.timeout); got != tt.want {
			t.Errorf("WaitMs(%v) = %d, want %d", tt.timeout, got, tt.want)
		}
	}
}
