package umbral

// validateThreshold rejects malformed m-of-n parameters before any
// cryptographic work.
func validateThreshold(threshold, shares uint) error {
	if threshold == 0 || threshold > shares {
		return ErrInvalidThreshold.WithDetails("m=%d, n=%d", threshold, shares)
	}
	return nil
}

// dedupeFragments drops fragments whose id was already seen, preserving
// first-seen order. Duplicate ids must count once toward the threshold.
func dedupeFragments(cfrags []*CapsuleFrag) []*CapsuleFrag {
	seen := make(map[string]bool, len(cfrags))
	unique := make([]*CapsuleFrag, 0, len(cfrags))
	for _, cfrag := range cfrags {
		if cfrag == nil {
			continue
		}
		key := string(cfrag.id.Bytes())
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, cfrag)
	}
	return unique
}
