package clock

import (
	"testing"
	"time"
)

func TestSystem_IsUTC(t *testing.T) {
	if loc := System.Now().Location(); loc != time.UTC {
		t.Fatalf("System.Now must be UTC, got %v", loc)
	}
}

func TestFixed_SetAndAdvance(t *testing.T) {
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	c := NewFixed(base)

	if !c.Now().Equal(base) || c.Now().Location() != time.UTC {
		t.Fatalf("NewFixed should normalise to UTC, got %v", c.Now())
	}

	c.Advance(90 * time.Minute)
	if want := base.Add(90 * time.Minute); !c.Now().Equal(want) {
		t.Fatalf("Advance: got %v want %v", c.Now(), want)
	}

	later := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Set(later)
	if !c.Now().Equal(later) {
		t.Fatalf("Set: got %v want %v", c.Now(), later)
	}
}
