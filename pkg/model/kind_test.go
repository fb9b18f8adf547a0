package model

import (
	"encoding/json"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"association", Association, false},
		{"Composition", Composition, false},
		{" AGGREGATION ", Aggregation, false},
		{"extends", Inheritance, false},
		{"implements", Realization, false},
		{"dependency", Dependency, false},
		{"friendship", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindPredicates(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() {
			t.Errorf("%v.Valid() = false", k)
		}
		if k.IsDirectional() && k.IsWholePart() {
			t.Errorf("%v is both directional and whole-part", k)
		}
	}
	if Kind(-1).Valid() || Kind(6).Valid() {
		t.Error("out-of-range kinds reported valid")
	}
	if got := Kind(9).String(); got != "Kind(9)" {
		t.Errorf("String() = %q, want Kind(9)", got)
	}
}

func TestKindJSON(t *testing.T) {
	r := Relationship{Target: "B", Kind: Realization, WholeEndAtSource: false}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"target":"B","kind":"realization","whole_end_at_source":false}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var bad Relationship
	if err := json.Unmarshal([]byte(`{"target":"B","kind":"friend"}`), &bad); err == nil {
		t.Error("Unmarshal accepted unknown kind")
	}
}

func TestParsePrimitiveType(t *testing.T) {
	tests := []struct {
		in       string
		fallback PrimitiveType
		want     PrimitiveType
		wantErr  bool
	}{
		{"int", TypeString, TypeInt, false},
		{"", TypeVoid, TypeVoid, false},
		{"bool", TypeString, TypeBoolean, false},
		{"number", TypeString, TypeFloat, false},
		{"Date", TypeString, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrimitiveType(tt.in, tt.fallback)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePrimitiveType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
