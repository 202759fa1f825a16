package notify

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestTone(t *testing.T) {
	buf := tone(44100, 880, 100*time.Millisecond)

	if got, want := len(buf), 4410*2; got != want {
		t.Fatalf("len(tone) = %d, want %d", got, want)
	}

	if first := int16(binary.LittleEndian.Uint16(buf[0:])); first != 0 {
		t.Errorf("first sample = %d, want 0 (fade in)", first)
	}

	var peak int16
	for i := 0; i < len(buf); i += 2 {
		v := int16(binary.LittleEndian.Uint16(buf[i:]))
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		t.Fatal("tone is silent")
	}
	ratio := 0.31
	if limit := int16(ratio * 32767); peak > limit {
		t.Errorf("peak = %d, want <= %d", peak, limit)
	}
}
