package pdftext

import (
	"testing"

	"github.com/Geek0x0/pdf"
)

func TestIsScanned_BelowThreshold(t *testing.T) {
	if !isScanned(0.0099) {
		t.Fatal("expected ratio below 0.01 to be scanned")
	}
}

func TestIsScanned_AtThresholdIsBornDigital(t *testing.T) {
	if isScanned(coverageThreshold) {
		t.Fatal("expected ratio exactly at 0.01 to be born-digital, not scanned")
	}
}

func TestIsScanned_AboveThreshold(t *testing.T) {
	if isScanned(0.5) {
		t.Fatal("expected ratio well above threshold to be born-digital")
	}
}

func TestBlockArea(t *testing.T) {
	b := pdf.ClassifiedBlock{Rect: pdf.Rect{X0: 10, Y0: 10, X1: 110, Y1: 60}}
	got := blockArea(b)
	if got != 5000 {
		t.Fatalf("expected area 5000, got %v", got)
	}
}

func TestBlockArea_DegenerateRectIsZero(t *testing.T) {
	b := pdf.ClassifiedBlock{Rect: pdf.Rect{X0: 50, Y0: 50, X1: 10, Y1: 10}}
	if got := blockArea(b); got != 0 {
		t.Fatalf("expected degenerate rect to contribute 0 area, got %v", got)
	}
}
