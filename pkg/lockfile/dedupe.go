package lockfile

// Dedupe merges packages with the same identity across lockfiles.
//
// Identity is the composite key computed per variant: VCS packages dedupe
// by (vcs type, repo URL, commit), released packages by (name, version,
// ecosystem), and everything else by a catch-all key that avoids collapsing
// dissimilar unidentified entries. On collision, source paths are unioned
// and missing scope/direct fields are backfilled from the incoming record.
//
// Output preserves first-encountered insertion order, so deduplication is
// deterministic and idempotent: Dedupe(Dedupe(x)) == Dedupe(x).
func Dedupe(pkgs []Package) []Package {
	seen := make(map[identity]Package, len(pkgs))
	var out []Package

	for _, p := range pkgs {
		k := p.key()
		if existing, ok := seen[k]; ok {
			existing.absorb(p)
			continue
		}
		seen[k] = p
		out = append(out, p)
	}
	return out
}

// CountLocal returns how many deduplicated entries are local path
// dependencies with no registry identity. These are skipped by the
// vulnerability lookup stage.
func CountLocal(pkgs []Package) int {
	n := 0
	for _, p := range pkgs {
		if p.Kind() == KindLocal {
			n++
		}
	}
	return n
}
