// Package typeorder puts a pair of elemental types into canonical order.
package typeorder

// Canonicalizer orders type pairs by their position in a fixed list.
type Canonicalizer struct {
	index map[string]int
}

// New creates a Canonicalizer from an ordered list of type names.
func New(types []string) *Canonicalizer {
	res := &Canonicalizer{index: make(map[string]int, len(types))}
	for i, v := range types {
		if _, ok := res.index[v]; !ok {
			res.index[v] = i
		}
	}
	return res
}

// Canonicalize returns the pair with the lower-ranked type first.
// Pairs with an empty, repeated or unknown type are returned unchanged.
func (c *Canonicalizer) Canonicalize(t1, t2 string) (string, string) {
	if t1 == "" || t2 == "" || t1 == t2 {
		return t1, t2
	}
	i1, ok1 := c.index[t1]
	i2, ok2 := c.index[t2]
	if !ok1 || !ok2 {
		return t1, t2
	}
	if i2 < i1 {
		return t2, t1
	}
	return t1, t2
}

// Known reports if a type is in the list.
func (c *Canonicalizer) Known(t string) bool {
	_, ok := c.index[t]
	return ok
}
