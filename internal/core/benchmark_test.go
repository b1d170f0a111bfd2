package core

import (
	"fmt"
	"testing"
)

// benchRecords approximates the production dataset size.
func benchRecords() []Record {
	regions := []string{"İstanbul", "İzmir", "Ankara", "Muğla", "Çanakkale", "Şanlıurfa", "Iğdır"}
	out := make([]Record, 40000)
	for i := range out {
		status := "Kentsel Alan"
		if i%3 == 0 {
			status = "Kırsal Alan"
		}
		out[i] = Record{
			Region:    regions[i%len(regions)],
			Subregion: fmt.Sprintf("İlçe %d", i%400),
			Authority: fmt.Sprintf("Belediye %d", i%900),
			Locality:  fmt.Sprintf("Mahalle %d", i),
			Status:    status,
		}
	}
	return out
}

func BenchmarkNormalize(b *testing.B) {
	inputs := []string{"İstanbul", "Çeşme Belediyesi", "Kırsal Alan", "ISTANBUL", ""}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Normalize(inputs[i%len(inputs)])
	}
}

func BenchmarkNormalizeParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			Normalize("Şanlıurfa Merkez Mahallesi")
		}
	})
}

func BenchmarkSearch(b *testing.B) {
	records := benchRecords()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Search(records, "cesme")
	}
}

func BenchmarkApplyFilters(b *testing.B) {
	records := benchRecords()
	filters := FilterState{Region: "İzmir", Locality: "mahalle 1"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ApplyFilters(records, filters)
	}
}

func BenchmarkFacets(b *testing.B) {
	records := benchRecords()
	filters := FilterState{Status: "Kırsal Alan"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Facets(records, filters)
	}
}

func BenchmarkRun(b *testing.B) {
	records := benchRecords()
	q := Query{Search: "mahalle", Filters: FilterState{Region: "Ankara"}, Page: 2, PageSize: DefaultPageSize}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Run(records, q)
	}
}

func BenchmarkBrowser_PageFlip(b *testing.B) {
	br := NewBrowser(benchRecords(), DefaultPageSize)
	br.SetSearch("mahalle")
	br.View()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		br.Next()
		br.View()
	}
}
