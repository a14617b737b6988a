package gtf

import "testing"

const multiFeatureGTF = `chr2	HAVANA	gene	100	200	.	+	.	gene_id "G1"; gene_type "protein_coding";
chr10	HAVANA	gene	50	150	.	+	.	gene_id "G2"; gene_type "lncRNA";
chr2	HAVANA	exon	110	120	.	+	.	gene_id "G1"; gene_type "protein_coding";
chr1	HAVANA	gene	1	1000	.	-	.	gene_id "G3"; gene_type "protein_coding";
`

func mustCollectGTF(t *testing.T, input string) *Parser {
	t.Helper()
	return ParseString(input, Options{Normalize: true})
}

func TestQueryChromosomeFilter(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	features, err := NewQuery(p).Chromosome("chr2").Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("expected 2 features on chr2, got %d", len(features))
	}
	for _, f := range features {
		if f.Seqname != "chr2" {
			t.Errorf("got seqname %q", f.Seqname)
		}
	}
}

func TestQueryFeatureTypeFilter(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	features, err := NewQuery(p).FeatureType("gene").Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(features) != 3 {
		t.Fatalf("expected 3 gene features, got %d", len(features))
	}
}

func TestQueryGeneTypeFilter(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	features, err := NewQuery(p).GeneType("lncRNA").Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(features) != 1 || features[0].Attributes["gene_id"].String() != "G2" {
		t.Fatalf("got %+v", features)
	}
}

func TestQueryNaturalOrderBySeqname(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	features, err := NewQuery(p).Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(features) != 4 {
		t.Fatalf("expected 4 features, got %d", len(features))
	}
	// natural order puts chr1 < chr2 < chr10, unlike lexical sort which
	// would put chr10 before chr2.
	var seqOrder []string
	for _, f := range features {
		seqOrder = append(seqOrder, f.Seqname)
	}
	want := []string{"chr1", "chr2", "chr2", "chr10"}
	for i := range want {
		if seqOrder[i] != want[i] {
			t.Fatalf("position %d: want %s, got %v", i, want[i], seqOrder)
		}
	}
}

func TestQueryRegionOverlap(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	features, err := NewQuery(p).Region("chr2:105-115").Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("expected gene and exon both overlapping 105-115, got %d (%+v)", len(features), features)
	}
}

func TestQueryRegionNoOverlap(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	features, err := NewQuery(p).Region("chr2:1000-2000").Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(features) != 0 {
		t.Fatalf("expected no overlap, got %d", len(features))
	}
}

func TestQueryInvalidRegionPropagatesError(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	_, err := NewQuery(p).Region("not-a-region").Collect()
	if err == nil {
		t.Fatal("expected an error for a malformed region expression")
	}
}

func TestQueryCount(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	n, err := NewQuery(p).FeatureType("gene").Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected count 3, got %d", n)
	}
}

func TestQueryFirst(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	f, err := NewQuery(p).Chromosome("chr1").First()
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if f == nil || f.Attributes["gene_id"].String() != "G3" {
		t.Fatalf("got %+v", f)
	}
}

func TestQueryFirstNoMatchReturnsNil(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	f, err := NewQuery(p).Chromosome("chrNonexistent").First()
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if f != nil {
		t.Fatalf("expected nil, got %+v", f)
	}
}

func TestQueryFromSlice(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	all, err := NewQuery(p).Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	features, err := NewQueryFromSlice(all).FeatureType("exon").Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("expected 1 exon, got %d", len(features))
	}
}

func TestQueryChainedFilters(t *testing.T) {
	p := mustCollectGTF(t, multiFeatureGTF)
	features, err := NewQuery(p).FeatureType("gene").GeneType("protein_coding").Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("expected 2 protein_coding genes, got %d", len(features))
	}
}
