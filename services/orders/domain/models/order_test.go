package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNewOrder(t *testing.T) {
	lines := []Line{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("1899.00")},
		{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("2499.00")},
	}
	o, err := NewOrder(7, lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Total.StringFixed(2) != "6297.00" {
		t.Fatalf("unexpected total %s", o.Total)
	}
	if o.Status != StatusPending || o.UserID != 7 || o.ItemCount() != 3 {
		t.Fatalf("unexpected order: %+v", o)
	}
	if _, err := uuid.Parse(o.Reference); err != nil {
		t.Fatalf("reference is not a uuid: %q", o.Reference)
	}

	other, _ := NewOrder(7, lines)
	if other.Reference == o.Reference {
		t.Fatal("references must be unique")
	}
}

func TestNewOrder_Invalid(t *testing.T) {
	if _, err := NewOrder(1, nil); err == nil {
		t.Fatal("expected error for no lines")
	}
	if _, err := NewOrder(1, []Line{{ProductID: 1, Quantity: 0}}); err == nil {
		t.Fatal("expected error for zero quantity")
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses() {
		got, err := ParseStatus(string(s))
		if err != nil || got != s {
			t.Errorf("ParseStatus(%q) = %q, %v", s, got, err)
		}
		if got.Label() == string(s) {
			t.Errorf("status %q has no label", s)
		}
	}
	if _, err := ParseStatus("perdido"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
