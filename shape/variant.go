package shape

import "slices"

// Variant is one arrangement of a Shape in which no two keys of the same
// ConflictGroup are allowed. Keys may be present, Excluded keys must be absent.
type Variant struct {
	Keys     []string
	Excluded []string
}

// Allows reports whether key may be present in the variant.
func (v Variant) Allows(key string) bool {
	return slices.Contains(v.Keys, key)
}

// Variants returns the mutually exclusive arrangements of the shape, built
// on first use. A shape without conflict groups has exactly one variant
// holding every key. The count grows with the product of group sizes, so
// callers that only validate values should use Check instead.
func (s *Shape) Variants() []Variant {
	if s.variants == nil {
		s.variants = s.buildVariants()
	}
	return s.variants
}

// conflicting maps every grouped key to the keys it shares a group with.
func (s *Shape) conflicting() map[string]map[string]bool {
	if s.adjacency != nil {
		return s.adjacency
	}

	adj := map[string]map[string]bool{}
	for _, g := range s.Groups {
		for _, a := range g.Keys {
			if adj[a] == nil {
				adj[a] = map[string]bool{}
			}
			for _, b := range g.Keys {
				if a != b {
					adj[a][b] = true
				}
			}
		}
	}
	s.adjacency = adj

	return adj
}

// variantOf returns the variant holding present: the present keys plus
// every other key, in shape order, that conflicts with none already chosen.
// present must not hold two keys of one group.
func (s *Shape) variantOf(present map[string]any) Variant {
	adj := s.conflicting()
	chosen := make(map[string]bool, len(s.Options))
	for k := range present {
		chosen[k] = true
	}

	var v Variant
	for _, k := range s.Keys() {
		if !chosen[k] && clashes(adj[k], chosen) {
			v.Excluded = append(v.Excluded, k)
			continue
		}
		chosen[k] = true
		v.Keys = append(v.Keys, k)
	}

	return v
}

func clashes(neighbors, chosen map[string]bool) bool {
	for n := range neighbors {
		if chosen[n] {
			return true
		}
	}
	return false
}

// buildVariants enumerates the maximal sets of grouped keys with no two
// keys sharing a group (Bron–Kerbosch with pivoting on the compatibility
// graph). Ungrouped keys belong to every variant.
func (s *Shape) buildVariants() []Variant {
	keys := s.Keys()
	if len(s.Groups) == 0 {
		return []Variant{{Keys: keys}}
	}

	adj := s.conflicting()

	var grouped []string
	for _, k := range keys {
		if len(adj[k]) > 0 {
			grouped = append(grouped, k)
		}
	}

	compatible := func(a, b string) bool {
		return a != b && !adj[a][b]
	}

	var sets []map[string]bool
	var expand func(r, p, x []string)
	expand = func(r, p, x []string) {
		if len(p) == 0 && len(x) == 0 {
			set := make(map[string]bool, len(r))
			for _, k := range r {
				set[k] = true
			}
			sets = append(sets, set)
			return
		}

		pivot, best := "", -1
		for _, u := range slices.Concat(p, x) {
			n := 0
			for _, k := range p {
				if compatible(u, k) {
					n++
				}
			}
			if n > best {
				pivot, best = u, n
			}
		}

		candidates := make([]string, 0, len(p))
		for _, k := range p {
			if !compatible(pivot, k) {
				candidates = append(candidates, k)
			}
		}

		for _, v := range candidates {
			var np, nx []string
			for _, k := range p {
				if compatible(v, k) {
					np = append(np, k)
				}
			}
			for _, k := range x {
				if compatible(v, k) {
					nx = append(nx, k)
				}
			}
			expand(append(slices.Clip(r), v), np, nx)

			p = slices.DeleteFunc(slices.Clone(p), func(k string) bool { return k == v })
			x = append(slices.Clip(x), v)
		}
	}
	expand(nil, grouped, nil)

	variants := make([]Variant, 0, len(sets))
	for _, set := range sets {
		var v Variant
		for _, k := range keys {
			if len(adj[k]) == 0 || set[k] {
				v.Keys = append(v.Keys, k)
			} else {
				v.Excluded = append(v.Excluded, k)
			}
		}
		variants = append(variants, v)
	}

	return variants
}
