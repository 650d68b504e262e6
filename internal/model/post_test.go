package model

import (
	"reflect"
	"testing"
)

func TestTagsValueAndScan(t *testing.T) {
	tests := []struct {
		name   string
		tags   Tags
		stored string
	}{
		{"empty", Tags{}, ""},
		{"nil", nil, ""},
		{"one", Tags{"go"}, ",go,"},
		{"html characters kept", Tags{"r&d", "<ops>"}, ",r&d,<ops>,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.tags.Value()
			if err != nil {
				t.Fatalf("Value() error = %v", err)
			}
			if v != tt.stored {
				t.Fatalf("Value() = %q, want %q", v, tt.stored)
			}

			var back Tags
			if err := back.Scan([]byte(tt.stored)); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			want := tt.tags
			if want == nil {
				want = Tags{}
			}
			if !reflect.DeepEqual(back, want) {
				t.Fatalf("Scan() = %#v, want %#v", back, want)
			}
		})
	}
}

func TestTagsRejectSeparator(t *testing.T) {
	if _, err := (Tags{"a,b"}).Value(); err == nil {
		t.Fatal("Value() accepted a tag containing the separator")
	}
	var tags Tags
	if err := tags.Scan(42); err == nil {
		t.Fatal("Scan() accepted an int")
	}
	if err := tags.Scan(nil); err != nil || tags == nil || len(tags) != 0 {
		t.Fatalf("Scan(nil) = %#v, %v", tags, err)
	}
}
