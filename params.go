package adsbridge

import "sort"

// Params is an insertion-ordered string map used for query and body parameters.
type Params struct {
	keys   []string
	values map[string]string
}

func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// Set stores value under key, keeping the key's original position if it exists.
func (p *Params) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

func (p *Params) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

func (p *Params) Len() int {
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Enhance adds every entry of m whose key is not already present. Keys of m
// are visited in sorted order so the resulting order is deterministic.
func (p *Params) Enhance(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !p.Has(k) {
			p.Set(k, m[k])
		}
	}
}

// Pairs returns the entries in insertion order.
func (p *Params) Pairs() []Pair {
	out := make([]Pair, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, Pair{Key: k, Value: p.values[k]})
	}
	return out
}

// Map returns a copy of the entries as a plain map.
func (p *Params) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
