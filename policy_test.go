package duocache

import (
	"reflect"
	"testing"
)

func TestSelectEvictionsWithinBudget(t *testing.T) {
	rows := []tierSnapshot{
		{Key: "a", LastAccessTs: 1, ByteSize: 10},
		{Key: "b", LastAccessTs: 2, ByteSize: 10},
	}
	victims := selectEvictions(rows, 2, 20, 5, 100)
	if victims != nil {
		t.Errorf("expected no victims, got %v", victims)
	}
}

func TestSelectEvictionsCountBudget(t *testing.T) {
	// put("b", ts=1), put("a", ts=1), put("c", ts=2), max count 2.
	rows := []tierSnapshot{
		{Key: "b", LastAccessTs: 1, ByteSize: 1},
		{Key: "a", LastAccessTs: 1, ByteSize: 1},
		{Key: "c", LastAccessTs: 2, ByteSize: 1},
	}
	victims := selectEvictions(rows, 3, 3, 2, -1)
	if !reflect.DeepEqual(victims, []string{"a"}) {
		t.Errorf("expected [a] evicted (tie broken by key), got %v", victims)
	}
}

func TestSelectEvictionsByteBudget(t *testing.T) {
	rows := []tierSnapshot{
		{Key: "x", LastAccessTs: 1, ByteSize: 50},
		{Key: "y", LastAccessTs: 2, ByteSize: 50},
		{Key: "z", LastAccessTs: 3, ByteSize: 50},
	}
	victims := selectEvictions(rows, 3, 150, -1, 100)
	if !reflect.DeepEqual(victims, []string{"x"}) {
		t.Errorf("expected [x] evicted, got %v", victims)
	}
}

func TestSelectEvictionsMultipleVictims(t *testing.T) {
	rows := []tierSnapshot{
		{Key: "x", LastAccessTs: 1, ByteSize: 10},
		{Key: "y", LastAccessTs: 2, ByteSize: 10},
		{Key: "z", LastAccessTs: 3, ByteSize: 10},
	}
	victims := selectEvictions(rows, 3, 30, 1, -1)
	if !reflect.DeepEqual(victims, []string{"x", "y"}) {
		t.Errorf("expected [x y] evicted, got %v", victims)
	}
}

func TestSelectEvictionsUnlimitedBudget(t *testing.T) {
	rows := []tierSnapshot{{Key: "a", LastAccessTs: 1, ByteSize: 10}}
	victims := selectEvictions(rows, 1, 10, -1, -1)
	if victims != nil {
		t.Errorf("expected no victims with unlimited budget, got %v", victims)
	}
}

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name         string
		lastAccess   float64
		currentTs    float64
		ttlSeconds   float64
		wantExpired  bool
	}{
		{"zero ttl never expires", 0, 1000, 0, false},
		{"negative ttl never expires", 0, 1000, -1, false},
		{"within ttl", 10, 15, 10, false},
		{"exactly at ttl boundary", 10, 20, 10, false},
		{"past ttl", 10, 21, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isExpired(tt.lastAccess, tt.currentTs, tt.ttlSeconds)
			if got != tt.wantExpired {
				t.Errorf("isExpired() = %v, want %v", got, tt.wantExpired)
			}
		})
	}
}
