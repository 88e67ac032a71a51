package decode

import (
	"testing"
)

func TestCSVQuotedFields(t *testing.T) {
	data := []byte("name,district\n\"Acme, Inc.\"\"Station\"\"\",Central\n")
	rows, err := CSV(data)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1][0] != `Acme, Inc."Station"` {
		t.Errorf("field = %q", rows[1][0])
	}
}

func TestCSVStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)
	rows, err := CSV(data)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if rows[0][0] != "a" {
		t.Errorf("first field = %q, want \"a\"", rows[0][0])
	}
}

func TestCSVRaggedRows(t *testing.T) {
	rows, err := CSV([]byte("a,b,c\n1,2\n"))
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if len(rows[1]) != 2 {
		t.Errorf("second row has %d fields, want 2", len(rows[1]))
	}
}

func TestParseLatLon(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon string
		ok       bool
	}{
		{"valid", "22.30", "114.17", true},
		{"empty", "", "114.17", false},
		{"text", "n/a", "114.17", false},
		{"nan", "NaN", "114.17", false},
		{"inf", "22.30", "+Inf", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt, ok := ParseLatLon(tt.lat, tt.lon)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (pt.Lat() != 22.30 || pt.Lon() != 114.17) {
				t.Errorf("point = %v", pt)
			}
		})
	}
}
