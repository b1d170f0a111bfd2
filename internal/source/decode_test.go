package source

import (
	"strings"
	"testing"

	"github.com/JonMunkholm/settlements/internal/core"
	"github.com/google/go-cmp/cmp"
)

func TestFormatFromName(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"data.json", FormatJSON},
		{"data.csv", FormatCSV},
		{"DATA.CSV", FormatCSV},
		{"https://example.com/export.csv?download=1", FormatCSV},
		{"https://example.com/export.csv#top", FormatCSV},
		{"settlements", FormatJSON},
		{"archive/2024/settlements.txt", FormatJSON},
	}

	for _, tt := range tests {
		if got := FormatFromName(tt.name); got != tt.want {
			t.Errorf("FormatFromName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFieldForKey(t *testing.T) {
	tests := []struct {
		key  string
		want core.Field
		ok   bool
	}{
		{"region", core.FieldRegion, true},
		{"İl", core.FieldRegion, true},
		{"  Province ", core.FieldRegion, true},
		{"İlçe", core.FieldSubregion, true},
		{"ILCE", core.FieldSubregion, true},
		{"Belediye", core.FieldAuthority, true},
		{"Mahalle", core.FieldLocality, true},
		{"neighbourhood", core.FieldLocality, true},
		{"Durum", core.FieldStatus, true},
		{"population", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := FieldForKey(tt.key)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("FieldForKey(%q) = (%v, %v), want (%v, %v)", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDecodeJSON_Array(t *testing.T) {
	input := `[
		{"region": "Adana", "subregion": "Ceyhan", "authority": "Ceyhan Belediyesi", "locality": "Adnan Menderes Mahallesi", "status": "Kentsel Alan"},
		{"region": "Adana", "subregion": "Ceyhan", "locality": "Büyükmangıt Mahallesi", "status": "Kırsal Alan"}
	]`

	got, err := DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}

	want := []core.Record{
		{Region: "Adana", Subregion: "Ceyhan", Authority: "Ceyhan Belediyesi", Locality: "Adnan Menderes Mahallesi", Status: "Kentsel Alan"},
		{Region: "Adana", Subregion: "Ceyhan", Locality: "Büyükmangıt Mahallesi", Status: "Kırsal Alan"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeJSON() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSON_Wrapper(t *testing.T) {
	input := `{"records": [{"İl": "İzmir", "İlçe": "Konak", "Mahalle": "Alsancak Mahallesi", "Durum": "Kentsel Alan"}]}`

	got, err := DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	want := []core.Record{{Region: "İzmir", Subregion: "Konak", Locality: "Alsancak Mahallesi", Status: "Kentsel Alan"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeJSON() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSON_SanitizesValues(t *testing.T) {
	input := `[
		{"region": null, "subregion": 42, "authority": true, "locality": "  Merkez  ", "extra": "ignored"},
		"not an object",
		17,
		null,
		{}
	]`

	got, err := DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	want := []core.Record{
		{Locality: "Merkez"},
		{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeJSON() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSON_CanonicalKeyWins(t *testing.T) {
	input := `[
		{"il": "Ankara", "region": "İstanbul"},
		{"region": "", "province": "Bursa"}
	]`

	got, err := DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("DecodeJSON() returned %d records, want 2", len(got))
	}
	if got[0].Region != "İstanbul" {
		t.Errorf("record 0 Region = %q, want canonical value %q", got[0].Region, "İstanbul")
	}
	if got[1].Region != "Bursa" {
		t.Errorf("record 1 Region = %q, want alias value when canonical is empty", got[1].Region)
	}
}

func TestDecodeJSON_AliasPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  core.Record
	}{
		{"province before il", `[{"il": "Ankara", "province": "Adana"}]`, core.Record{Region: "Adana"}},
		{"key order ignored", `[{"province": "Adana", "il": "Ankara"}]`, core.Record{Region: "Adana"}},
		{"district before ilce", `[{"ilce": "Çankaya", "district": "Keçiören"}]`, core.Record{Subregion: "Keçiören"}},
		{"neighborhood before mahalle", `[{"mahalle": "Kızılay", "neighbourhood": "Bahçelievler", "neighborhood": "Emek"}]`, core.Record{Locality: "Emek"}},
		{"empty alias skipped", `[{"province": " ", "il": "Ankara"}]`, core.Record{Region: "Ankara"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Map iteration order varies between runs; repeat to catch it.
			for i := 0; i < 50; i++ {
				got, err := DecodeJSON(strings.NewReader(tt.input))
				if err != nil {
					t.Fatalf("DecodeJSON() error = %v", err)
				}
				if diff := cmp.Diff([]core.Record{tt.want}, got); diff != "" {
					t.Fatalf("DecodeJSON() mismatch on run %d (-want +got):\n%s", i, diff)
				}
			}
		})
	}
}

func TestDecodeJSON_Empty(t *testing.T) {
	for _, input := range []string{"", "   \n", "[]", `{"records": []}`} {
		got, err := DecodeJSON(strings.NewReader(input))
		if err != nil {
			t.Errorf("DecodeJSON(%q) error = %v", input, err)
		}
		if len(got) != 0 {
			t.Errorf("DecodeJSON(%q) returned %d records, want 0", input, len(got))
		}
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	for _, input := range []string{`[{"region": "A"`, `"just a string"`, `{"records": 5}`} {
		if _, err := DecodeJSON(strings.NewReader(input)); err == nil {
			t.Errorf("DecodeJSON(%q) expected error", input)
		}
	}
}

func TestDecodeCSV(t *testing.T) {
	input := "İl,İlçe,Belediye,Mahalle,Durum,Nüfus\n" +
		"Adana,Ceyhan,Ceyhan Belediyesi,Adnan Menderes Mahallesi,Kentsel Alan,1200\n" +
		"\n" +
		",,,,,\n" +
		"Adana,Ceyhan\n" +
		`Ankara,Çankaya,"Çankaya Belediyesi","Kızılay Mahallesi",Kentsel Alan,` + "\n"

	got, err := DecodeCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}

	want := []core.Record{
		{Region: "Adana", Subregion: "Ceyhan", Authority: "Ceyhan Belediyesi", Locality: "Adnan Menderes Mahallesi", Status: "Kentsel Alan"},
		{Region: "Adana", Subregion: "Ceyhan"},
		{Region: "Ankara", Subregion: "Çankaya", Authority: "Çankaya Belediyesi", Locality: "Kızılay Mahallesi", Status: "Kentsel Alan"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCSV_UnknownHeader(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("name,population\nfoo,1\n"))
	if err == nil {
		t.Fatal("DecodeCSV() expected error for header without known columns")
	}
	if !strings.Contains(err.Error(), "no known columns") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecodeCSV_AliasPrecedence(t *testing.T) {
	input := "il,province,ilce,status\nAnkara,Adana,Çankaya,Aktif\nİzmir,,Konak,\n"

	for i := 0; i < 50; i++ {
		got, err := DecodeCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("DecodeCSV() error = %v", err)
		}
		want := []core.Record{
			{Region: "Adana", Subregion: "Çankaya", Status: "Aktif"},
			{Region: "İzmir", Subregion: "Konak"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("DecodeCSV() mismatch on run %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestDecodeCSV_Empty(t *testing.T) {
	got, err := DecodeCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("DecodeCSV(\"\") returned %d records", len(got))
	}
}

func TestDecode_StripsBOM(t *testing.T) {
	bom := "\xef\xbb\xbf"

	got, err := Decode(strings.NewReader(bom+"region,status\nAdana,Kentsel Alan\n"), FormatCSV)
	if err != nil {
		t.Fatalf("Decode(csv) error = %v", err)
	}
	if len(got) != 1 || got[0].Region != "Adana" {
		t.Errorf("Decode(csv) with BOM = %+v", got)
	}

	got, err = Decode(strings.NewReader(bom+`[{"region": "Adana"}]`), FormatJSON)
	if err != nil {
		t.Fatalf("Decode(json) error = %v", err)
	}
	if len(got) != 1 || got[0].Region != "Adana" {
		t.Errorf("Decode(json) with BOM = %+v", got)
	}
}

func TestDecode_InvalidUTF8(t *testing.T) {
	got, err := Decode(strings.NewReader("region\nAda\xffna\n"), FormatCSV)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Decode() returned %d records, want 1", len(got))
	}
	if got[0].Region != "Ada\uFFFDna" {
		t.Errorf("Region = %q, want replacement character", got[0].Region)
	}
}
