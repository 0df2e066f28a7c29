package numeric

import (
	"errors"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.605,90", 1605.90},
		{"630,00", 630.0},
		{"14,24", 14.24},
		{"0,00", 0.0},
		{"110.289,85", 110289.85},
		{"10653,50", 10653.50}, // no thousands separator
		{"5", 5.0},
	}

	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if err != nil {
			t.Errorf("ParseNumber(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseNumberFailures(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "TOTAL"} {
		_, err := ParseNumber(in)
		if !errors.Is(err, ErrNotANumber) {
			t.Errorf("ParseNumber(%q) should fail with ErrNotANumber, got %v", in, err)
		}
	}
}

func TestFormatNumberRoundTrip(t *testing.T) {
	// Parsing then reformatting must reproduce the original string exactly.
	for _, s := range []string{"1.605,90", "630,00", "0,00", "110.289,85", "1.234.567,89"} {
		v, err := ParseNumber(s)
		if err != nil {
			t.Fatalf("ParseNumber(%q): %v", s, err)
		}
		if got := FormatNumber(v); got != s {
			t.Errorf("round trip of %q produced %q", s, got)
		}
	}
}

func TestLastTriplet(t *testing.T) {
	line := "                                                630,00    1,12    705,60"
	tr, ok := LastTriplet(line)
	if !ok {
		t.Fatal("expected a triplet")
	}
	if tr.Quantity != 630.0 || tr.Price != 1.12 || tr.Amount != 705.60 {
		t.Errorf("unexpected triplet: %+v", tr)
	}
}

func TestLastTripletIgnoresEmbeddedNumbers(t *testing.T) {
	// Numbers inside the description must not displace the trailing triplet.
	line := "E02AM010 m2 DESBROCE TERRENO ZONA 3 DE 10 cm 450,40 2,34 1.053,94"
	tr, ok := LastTriplet(line)
	if !ok {
		t.Fatal("expected a triplet")
	}
	if tr.Quantity != 450.40 || tr.Price != 2.34 || tr.Amount != 1053.94 {
		t.Errorf("unexpected triplet: %+v", tr)
	}
}

func TestLastTripletTooFewNumbers(t *testing.T) {
	if _, ok := LastTriplet("DEM06 Ml CORTE PAVIMENTO EXISTENTE"); ok {
		t.Error("line without three numbers should not yield a triplet")
	}
}

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ud", "Ud"},
		{"UD", "Ud"},
		{"u", "Ud"},
		{"Ml", "m"},
		{"ml", "m"},
		{"m.", "m"},
		{"m2", "m²"},
		{"M2", "m²"},
		{"m3", "m³"},
		{"pa", "PA"},
		{"P.A.", "PA"},
		{"P:A:", "PA"},
		{"p.a", "PA"},
		{"kg", "Kg"},   // unknown mapping: title-cased pass-through
		{"mes", "Mes"}, // same
	}

	for _, tt := range tests {
		if got := NormalizeUnit(tt.in); got != tt.want {
			t.Errorf("NormalizeUnit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	// 630 x 1.12 = 705.60 exactly.
	if !ValidateAmount(630.0, 1.12, 705.60, DefaultAmountTolerance) {
		t.Error("exact product should validate")
	}

	// 450.40 x 2.34 = 1053.936, rounds to 1053.94.
	if !ValidateAmount(450.40, 2.34, 1053.94, DefaultAmountTolerance) {
		t.Error("product within tolerance should validate")
	}

	if ValidateAmount(100.0, 2.0, 300.0, DefaultAmountTolerance) {
		t.Error("product far from amount should not validate")
	}
}

func TestRebuildDescription(t *testing.T) {
	lines := []string{
		"Corte de pavimento de aglomerado asfáltico u hormigón,  con corta-",
		"dora de disco diamante,   en calzadas, i/replanteo y p.p. de",
		"medios auxiliares.",
	}

	got := RebuildDescription(lines)
	want := "Corte de pavimento de aglomerado asfáltico u hormigón, con cortadora de disco diamante, en calzadas, i/replanteo y p.p. de medios auxiliares."
	if got != want {
		t.Errorf("RebuildDescription mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestRebuildDescriptionKeepsInlineDashes(t *testing.T) {
	// Only a hyphen glued to a line's last word marks a wrapped word; a
	// free-standing dash is punctuation and must survive the rebuild.
	tests := []struct {
		lines []string
		want  string
	}{
		{
			[]string{"Tubería de PVC de 200 mm - incluso piezas especiales y", "conexión a pozo de registro."},
			"Tubería de PVC de 200 mm - incluso piezas especiales y conexión a pozo de registro.",
		},
		{
			[]string{"Suministro y montaje de válvula -", "de compuerta."},
			"Suministro y montaje de válvula - de compuerta.",
		},
		{
			[]string{"Demolición de firme con retro-", "excavadora mixta."},
			"Demolición de firme con retroexcavadora mixta.",
		},
	}

	for _, tt := range tests {
		if got := RebuildDescription(tt.lines); got != tt.want {
			t.Errorf("RebuildDescription(%q) = %q, want %q", tt.lines, got, tt.want)
		}
	}
}
