package ingestion

import (
	"errors"
	"testing"
)

func TestLocateAnchor(t *testing.T) {
	grid := RawGrid{
		{"ACME FLOWERS LLC"},
		{""},
		{"Generated on 2024-03-08 by jsalazar"},
		{"", ""},
		{"PO #", "Customer", "Vendor", "Product", "Qty PO", "Ship Date"},
		{"PO-1001", "FLORAMART", "ROSAS DEL SUR", "ROSE RED NAOMI", "10", "08/03/2024"},
	}

	idx, err := LocateAnchor(grid, KometConfirm.Signature)
	if err != nil {
		t.Fatalf("LocateAnchor: %v", err)
	}
	if idx != 4 {
		t.Errorf("anchor = %d, want 4", idx)
	}
}

func TestLocateAnchorRequiresAllFragments(t *testing.T) {
	// "vendor" alone in a footnote must not match
	grid := RawGrid{
		{"Contact your vendor representative for details"},
		{"PO-1001", "10"},
	}
	if _, err := LocateAnchor(grid, KometConfirm.Signature); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("err = %v, want ErrTableNotFound", err)
	}
}

func TestLocateAnchorEmptyGrid(t *testing.T) {
	if _, err := LocateAnchor(RawGrid{}, KometConfirm.Signature); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("err = %v, want ErrTableNotFound", err)
	}
	if _, err := LocateAnchor(RawGrid{{""}, {"", ""}}, KometConfirm.Signature); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("err = %v, want ErrTableNotFound", err)
	}
}

func TestLocateAnchorOrFirstRowFallsBack(t *testing.T) {
	grid := RawGrid{
		{""},
		{"PO#", "Code", "Quantity"}, // no flydate, signature won't match
		{"SO-1", "ROS-40", "5"},
	}
	idx, fellBack, err := LocateAnchorOrFirstRow(grid, StandingOrder.Signature)
	if err != nil {
		t.Fatalf("LocateAnchorOrFirstRow: %v", err)
	}
	if !fellBack {
		t.Error("expected fallback to be reported")
	}
	if idx != 1 {
		t.Errorf("anchor = %d, want 1", idx)
	}
}

func TestLocateAnchorOrFirstRowPrefersSignature(t *testing.T) {
	grid := RawGrid{
		{"junk"},
		{"PO#", "Code", "FlyDate", "Quantity"},
	}
	idx, fellBack, err := LocateAnchorOrFirstRow(grid, StandingOrder.Signature)
	if err != nil {
		t.Fatalf("LocateAnchorOrFirstRow: %v", err)
	}
	if fellBack {
		t.Error("signature matched, fallback must not be reported")
	}
	if idx != 1 {
		t.Errorf("anchor = %d, want 1", idx)
	}
}
