package mapper

// findMatchingPairs pairs each destination field, in declaration order, with a
// source field. A valid tag match takes precedence over a name match.
func findMatchingPairs(src, dst *structMetadata) []FieldPair {
	pairs := make([]FieldPair, 0, len(dst.fields))
	for i := range dst.fields {
		df := &dst.fields[i]
		// skip ignored and shadowed promoted fields
		if df.ignore || dst.fieldsByName[df.name] != df {
			continue
		}
		if sf, ok := matchByTag(src, df); ok {
			pairs = append(pairs, FieldPair{From: sf.name, To: df.name, Origin: OriginTag, src: sf, dst: df})
			continue
		}
		if sf, ok := matchByName(src, df); ok {
			pairs = append(pairs, FieldPair{From: sf.name, To: df.name, Origin: OriginName, src: sf, dst: df})
		}
	}
	return pairs
}

func matchByName(src *structMetadata, df *fieldInfo) (*fieldInfo, bool) {
	sf, ok := src.field(df.name)
	if !ok || sf.typ != df.typ {
		return nil, false
	}
	return sf, true
}

func matchByTag(src *structMetadata, df *fieldInfo) (*fieldInfo, bool) {
	if df.mapsFrom == "" {
		return nil, false
	}
	sf, ok := src.field(df.mapsFrom)
	if !ok || sf.typ != df.typ {
		return nil, false
	}
	return sf, true
}
