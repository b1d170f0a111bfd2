package core

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain ascii", input: "ankara", want: "ankara"},
		{name: "dotted capital I", input: "İstanbul", want: "istanbul"},
		{name: "all caps dotted", input: "İSTANBUL", want: "istanbul"},
		{name: "all caps dotless", input: "ISTANBUL", want: "istanbul"},
		{name: "dotless small i", input: "Kırsal Alan", want: "kirsal alan"},
		{name: "cedilla and s-cedilla", input: "Çeşme", want: "cesme"},
		{name: "breve g", input: "Muğla", want: "mugla"},
		{name: "umlauts", input: "ÜSKÜDAR Ödemiş", want: "uskudar odemis"},
		{name: "mixed case", input: "ŞanlıUrfa", want: "sanliurfa"},
		{name: "digits and punctuation kept", input: "19 Mayıs-Köyü", want: "19 mayis-koyu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_IstanbulVariantsEqual(t *testing.T) {
	a := Normalize("İstanbul")
	b := Normalize("istanbul")
	c := Normalize("İSTANBUL")
	if a != b || b != c {
		t.Errorf("variants differ: %q, %q, %q", a, b, c)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", "İzmir", "ÇEŞME", "Iğdır", "Ağrı Dağı", "Kırsal Alan", "Gümüşhane", "MIXED case İı", "Straße",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestNormalizedContains(t *testing.T) {
	tests := []struct {
		s      string
		needle string
		want   bool
	}{
		{"Çeşme", "cesme", true},
		{"Çeşme", "", true},
		{"", "a", false},
		{"Merkez Mahallesi", "mahalle", true},
		{"Bornova", "karsiyaka", false},
	}
	for _, tt := range tests {
		if got := NormalizedContains(tt.s, tt.needle); got != tt.want {
			t.Errorf("NormalizedContains(%q, %q) = %v, want %v", tt.s, tt.needle, got, tt.want)
		}
	}
}
