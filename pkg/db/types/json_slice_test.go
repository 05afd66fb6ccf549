package dbtypes

import "testing"

type line struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
}

func TestJSONSliceScanAcceptsBytesAndStrings(t *testing.T) {
	var fromBytes JSONSlice[line]
	if err := fromBytes.Scan([]byte(`[{"productId":1,"name":"Amber"}]`)); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if len(fromBytes) != 1 || fromBytes[0].Name != "Amber" {
		t.Fatalf("unexpected decode %+v", fromBytes)
	}

	var fromString JSONSlice[line]
	if err := fromString.Scan(`[]`); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if len(fromString) != 0 {
		t.Fatalf("expected empty slice, got %+v", fromString)
	}

	var fromNil JSONSlice[line]
	if err := fromNil.Scan(nil); err != nil || fromNil == nil {
		t.Fatalf("nil scan should produce empty slice, got %v %v", fromNil, err)
	}

	if err := fromNil.Scan(42); err == nil {
		t.Fatal("expected unsupported type to fail")
	}
}

func TestJSONSliceValueOfNilIsEmptyArray(t *testing.T) {
	var empty JSONSlice[line]
	value, err := empty.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != "[]" {
		t.Fatalf("expected [] got %v", value)
	}
}
