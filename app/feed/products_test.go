package feed

import (
	"testing"
)

func TestExtractProducts(t *testing.T) {
	products := ExtractProducts("Autoscaling GKE workloads that write to BigQuery")

	want := map[string]bool{"Kubernetes Engine": false, "BigQuery": false}
	for _, p := range products {
		if _, ok := want[p]; ok {
			want[p] = true
		}
	}
	for product, found := range want {
		if !found {
			t.Errorf("Expected '%s' in %v", product, products)
		}
	}
}

func TestExtractProductsNoDuplicates(t *testing.T) {
	products := ExtractProducts("Cloud Run and Cloud Run again, plus cloud run lowercased")

	count := 0
	for _, p := range products {
		if p == "Cloud Run" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected 'Cloud Run' once, got %d occurrences", count)
	}
}

func TestExtractProductsWordBoundaries(t *testing.T) {
	products := ExtractProducts("the gceasy tool is unrelated")

	for _, p := range products {
		if p == "Compute Engine" {
			t.Error("Alias 'gce' must not match inside 'gceasy'")
		}
	}
}

func TestExtractProductsEmptyText(t *testing.T) {
	if products := ExtractProducts(""); len(products) != 0 {
		t.Errorf("Expected no products for empty text, got %v", products)
	}
}
