package catalog

import (
	"context"
	"testing"
)

func TestStatic_Venues(t *testing.T) {
	c := NewStatic([]string{" Grand Ballroom ", "", "Rooftop", "Grand Ballroom"})

	venues, err := c.Venues(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(venues) != 2 || venues[0] != "Grand Ballroom" || venues[1] != "Rooftop" {
		t.Fatalf("unexpected venues: %v", venues)
	}

	venues[0] = "Changed"
	again, _ := c.Venues(context.Background())
	if again[0] != "Grand Ballroom" {
		t.Error("catalogue was modified through a returned slice")
	}
}
