package gtf

// Normalize detects which annotation database produced f (by attribute-key
// signature) and projects the database-specific fields that carry
// equivalent meaning into a single Normalized structure.
func Normalize(f *Feature) *Normalized {
	db := detectSourceDatabase(f.Attributes)
	n := &Normalized{SourceDatabase: db}

	switch db {
	case SourceGENCODE:
		n.GeneType = attrString(f.Attributes, "gene_type")
		n.TranscriptType = attrString(f.Attributes, "transcript_type")
		n.Version = attrString(f.Attributes, "level")
		n.Tags = attrValues(f.Attributes, "tag")
	case SourceEnsembl:
		n.GeneType = attrString(f.Attributes, "gene_biotype")
		n.TranscriptType = attrString(f.Attributes, "transcript_biotype")
		n.Version = attrString(f.Attributes, "gene_version")
		n.Tags = attrValues(f.Attributes, "tag")
	case SourceRefSeq:
		n.GeneType = attrString(f.Attributes, "gene_biotype")
		n.TranscriptType = attrString(f.Attributes, "product")
		n.Version = attrString(f.Attributes, "locus_tag")
		n.Tags = attrValues(f.Attributes, "Dbxref")
	}
	return n
}

// detectSourceDatabase matches attribute-key signatures per database:
// GENCODE carries gene_type/level/havana_gene, Ensembl carries
// gene_biotype/gene_version/gene_source, RefSeq carries
// locus_tag/product/Dbxref.
func detectSourceDatabase(attrs map[string]AttributeValue) SourceDatabase {
	has := func(key string) bool { _, ok := attrs[key]; return ok }

	switch {
	case has("gene_type") || has("level") || has("havana_gene"):
		return SourceGENCODE
	case has("gene_biotype") || has("gene_version") || has("gene_source"):
		return SourceEnsembl
	case has("locus_tag") || has("product") || has("Dbxref"):
		return SourceRefSeq
	default:
		return SourceUnknown
	}
}

func attrString(attrs map[string]AttributeValue, key string) string {
	v, ok := attrs[key]
	if !ok {
		return ""
	}
	return v.String()
}

func attrValues(attrs map[string]AttributeValue, key string) []string {
	v, ok := attrs[key]
	if !ok {
		return nil
	}
	return v.Values()
}
