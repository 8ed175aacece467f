package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCartTotals(t *testing.T) {
	c := Cart{UserID: 1, Lines: []Line{
		{ProductID: 1, UnitPrice: decimal.RequireFromString("1899.00"), Quantity: 2},
		{ProductID: 2, UnitPrice: decimal.RequireFromString("0.10"), Quantity: 3},
	}}

	if got := c.Total().StringFixed(2); got != "3798.30" {
		t.Fatalf("expected total 3798.30, got %s", got)
	}
	if c.ItemCount() != 5 {
		t.Fatalf("expected 5 items, got %d", c.ItemCount())
	}
	if c.IsEmpty() {
		t.Fatal("cart with lines is not empty")
	}
	if !(Cart{}).Total().IsZero() || !(Cart{}).IsEmpty() {
		t.Fatal("empty cart must total zero")
	}
}

func TestValidateQuantity(t *testing.T) {
	for q, wantErr := range map[int]bool{-1: true, 0: true, 1: false, 99: false, 100: true} {
		if err := ValidateQuantity(q); (err != nil) != wantErr {
			t.Errorf("ValidateQuantity(%d) err = %v, wantErr %v", q, err, wantErr)
		}
	}
	for q, wantErr := range map[int]bool{-1: true, 0: false, 50: false, 100: true} {
		if err := ValidateNewQuantity(q); (err != nil) != wantErr {
			t.Errorf("ValidateNewQuantity(%d) err = %v, wantErr %v", q, err, wantErr)
		}
	}
}
