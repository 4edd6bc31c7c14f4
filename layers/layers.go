// Package layers is a generic multi-layer spatial index: each layer key owns a
// set of points, and the index answers which layers contain a given point.
//
// Layer counts are small (one per agent plus a couple of static layers), so
// occurrence queries scan every layer. Layers are visited in the order they
// were first set, which keeps query results stable across runs.
package layers

// Reader is the read side of an Index. Collision code only ever asks what
// occupies a cell; renderers walk every (key, point) pair.
type Reader[K, P comparable] interface {
	Occurrences(p P) []K
	Each(fn func(key K, p P))
}

// Index maps layer keys to point sets.
type Index[K, P comparable] struct {
	layers map[K]map[P]struct{}
	order  []K
}

// New returns an empty index.
func New[K, P comparable]() *Index[K, P] {
	return &Index[K, P]{layers: make(map[K]map[P]struct{})}
}

// Set replaces the layer's point set wholesale.
func (x *Index[K, P]) Set(key K, points []P) {
	set := make(map[P]struct{}, len(points))
	for _, p := range points {
		set[p] = struct{}{}
	}
	if _, ok := x.layers[key]; !ok {
		x.order = append(x.order, key)
	}
	x.layers[key] = set
}

// Remove deletes the layer. Removing an absent layer is a no-op.
func (x *Index[K, P]) Remove(key K) {
	if _, ok := x.layers[key]; !ok {
		return
	}
	delete(x.layers, key)
	for i, k := range x.order {
		if k == key {
			x.order = append(x.order[:i], x.order[i+1:]...)
			break
		}
	}
}

// Clear drops every layer.
func (x *Index[K, P]) Clear() {
	x.layers = make(map[K]map[P]struct{})
	x.order = x.order[:0]
}

// Occurrences returns every layer key whose set contains p.
func (x *Index[K, P]) Occurrences(p P) []K {
	var out []K
	for _, k := range x.order {
		if _, ok := x.layers[k][p]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Occupied reports whether any layer contains p.
func (x *Index[K, P]) Occupied(p P) bool {
	for _, k := range x.order {
		if _, ok := x.layers[k][p]; ok {
			return true
		}
	}
	return false
}

// Has reports whether the layer exists.
func (x *Index[K, P]) Has(key K) bool {
	_, ok := x.layers[key]
	return ok
}

// Len is the number of layers.
func (x *Index[K, P]) Len() int {
	return len(x.order)
}

// Keys returns the layer keys in first-set order.
func (x *Index[K, P]) Keys() []K {
	return append([]K(nil), x.order...)
}

// Each calls fn for every (key, point) pair. Layers are visited in first-set
// order; points within a layer in unspecified order.
func (x *Index[K, P]) Each(fn func(key K, p P)) {
	for _, k := range x.order {
		for p := range x.layers[k] {
			fn(k, p)
		}
	}
}

// Project flattens a reader into a point->value map for rendering or export.
// When several layers share a point, the layer visited last wins. It is not
// meant for simulation logic.
func Project[K, P comparable, PR comparable, V any](r Reader[K, P], pointFn func(P) PR, keyFn func(K) V) map[PR]V {
	out := make(map[PR]V)
	r.Each(func(k K, p P) {
		out[pointFn(p)] = keyFn(k)
	})
	return out
}
