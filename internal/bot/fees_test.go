package bot

import (
	"math/rand"
	"testing"
)

func TestFeePickerAlwaysReturnsConfiguredValue(t *testing.T) {
	fees := []float64{0.001, 0.01, 0.1}
	allowed := map[float64]bool{}
	for _, f := range fees {
		allowed[f] = true
	}
	picker, err := NewFeePicker(fees, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewFeePicker: %v", err)
	}
	for i := 0; i < 1000; i++ {
		if f := picker.Pick(); !allowed[f] {
			t.Fatalf("Pick() = %v, not in configured list", f)
		}
	}
}

func TestFeePickerSingleValue(t *testing.T) {
	picker, err := NewFeePicker([]float64{0.002}, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("NewFeePicker: %v", err)
	}
	for i := 0; i < 10; i++ {
		if f := picker.Pick(); f != 0.002 {
			t.Fatalf("Pick() = %v", f)
		}
	}
}

func TestFeePickerRejectsEmptyList(t *testing.T) {
	if _, err := NewFeePicker(nil, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected error for empty fee list")
	}
}

func TestFeePickerCopiesList(t *testing.T) {
	fees := []float64{0.5}
	picker, err := NewFeePicker(fees, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewFeePicker: %v", err)
	}
	fees[0] = 99
	if f := picker.Pick(); f != 0.5 {
		t.Fatalf("Pick() = %v after caller mutation, want 0.5", f)
	}
}
