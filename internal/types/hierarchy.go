// Package types implements the T-Ruby type system: the subtype hierarchy,
// lexical type scopes, flow-sensitive narrowing and the checker itself.
package types

// TopType is the universal supertype. Every type is a subtype of Object.
const TopType = "Object"

// Hierarchy is the directed is-subtype-of relation. It is seeded with the
// built-in primitive and collection relationships and open to registration
// of new edges at runtime (class declarations with superclasses).
type Hierarchy struct {
	parents map[string][]string
}

func NewHierarchy() *Hierarchy {
	h := &Hierarchy{parents: make(map[string][]string)}
	for sub, super := range map[string]string{
		"Integer":    "Numeric",
		"Float":      "Numeric",
		"Numeric":    "Comparable",
		"Comparable": TopType,
		"String":     "Comparable",
		"Symbol":     TopType,
		"Boolean":    TopType,
		"NilClass":   TopType,
		"nil":        "NilClass",
		"Regexp":     TopType,
		"Array":      "Enumerable",
		"Hash":       "Enumerable",
		"Range":      "Enumerable",
		"Enumerable": TopType,
		"Proc":       TopType,
	} {
		h.Register(sub, super)
	}
	return h
}

// Register adds one is-subtype-of edge.
func (h *Hierarchy) Register(sub, super string) {
	for _, p := range h.parents[sub] {
		if p == super {
			return
		}
	}
	h.parents[sub] = append(h.parents[sub], super)
}

// SubtypeOf reports whether sub is a subtype of super. The relation is
// reflexive, treats Object as a supertype of everything, and otherwise
// walks the transitive closure of registered edges.
func (h *Hierarchy) SubtypeOf(sub, super string) bool {
	if sub == super || super == TopType {
		return true
	}
	seen := map[string]bool{sub: true}
	queue := append([]string(nil), h.parents[sub]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == super {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		queue = append(queue, h.parents[cur]...)
	}
	return false
}

// Compatible is symmetric subtyping: either direction suffices.
func (h *Hierarchy) Compatible(a, b string) bool {
	return h.SubtypeOf(a, b) || h.SubtypeOf(b, a)
}

// CommonSupertype returns the nearest ancestor shared by both types,
// defaulting to Object.
func (h *Hierarchy) CommonSupertype(a, b string) string {
	if a == b {
		return a
	}
	// Ancestors of a in breadth-first (nearest-first) order.
	order := []string{a}
	seen := map[string]bool{a: true}
	for i := 0; i < len(order); i++ {
		for _, p := range h.parents[order[i]] {
			if !seen[p] {
				seen[p] = true
				order = append(order, p)
			}
		}
	}
	for _, anc := range order {
		if h.SubtypeOf(b, anc) {
			return anc
		}
	}
	return TopType
}

// Known reports whether the hierarchy has any edge involving name. The
// checker uses it to distinguish unknown type names from registered ones.
func (h *Hierarchy) Known(name string) bool {
	if name == TopType {
		return true
	}
	if _, ok := h.parents[name]; ok {
		return true
	}
	for _, supers := range h.parents {
		for _, s := range supers {
			if s == name {
				return true
			}
		}
	}
	return false
}
