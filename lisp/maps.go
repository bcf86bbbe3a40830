// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// MapData is the insertion-ordered storage behind LMap values.
type MapData struct {
	keys  []*LVal
	vals  []*LVal
	index map[interface{}]int
}

type mapSymbol string
type mapRational string
type mapNil struct{}

// mapComposite keys collections by their canonical form, which is identical
// for equal collections.
type mapComposite struct {
	typ LType
	str string
}

func newMapData(n int) *MapData {
	return &MapData{
		keys:  make([]*LVal, 0, n),
		vals:  make([]*LVal, 0, n),
		index: make(map[interface{}]int, n),
	}
}

func toMapKey(k *LVal) interface{} {
	switch k.Type {
	case LInt:
		return k.Int
	case LRational:
		return mapRational(k.Rat().RatString())
	case LString:
		return k.Str
	case LSymbol:
		return mapSymbol(k.Str)
	case LBool:
		return k.Bool
	case LNil:
		return mapNil{}
	case LFun:
		return k.FunData()
	default:
		var buf bytes.Buffer
		writeCanonical(&buf, k)
		return mapComposite{k.Type, buf.String()}
	}
}

// writeCanonical writes the printed form of v with map entries sorted, so
// maps holding the same entries in different insertion order are written
// identically.  Functions are written by identity.
func writeCanonical(buf *bytes.Buffer, v *LVal) {
	switch v.Type {
	case LList, LVector:
		left, right := "(", ")"
		if v.Type == LVector {
			left, right = "[", "]"
		}
		buf.WriteString(left)
		for i, c := range v.Cells {
			if i > 0 {
				buf.WriteString(" ")
			}
			writeCanonical(buf, c)
		}
		buf.WriteString(right)
	case LMap:
		m := v.Map()
		entries := make([]string, len(m.keys))
		for i := range m.keys {
			var e bytes.Buffer
			writeCanonical(&e, m.keys[i])
			e.WriteString(" ")
			writeCanonical(&e, m.vals[i])
			entries[i] = e.String()
		}
		sort.Strings(entries)
		buf.WriteString("{")
		buf.WriteString(strings.Join(entries, ", "))
		buf.WriteString("}")
	case LFun:
		fmt.Fprintf(buf, "#<fn %p>", v.FunData())
	default:
		buf.WriteString(v.String())
	}
}

// Len returns the number of entries in m.
func (m *MapData) Len() int {
	return len(m.keys)
}

// Get returns the value associated with k.
func (m *MapData) Get(k *LVal) (*LVal, bool) {
	i, ok := m.index[toMapKey(k)]
	if !ok {
		return nil, false
	}
	return m.vals[i], true
}

// Set associates v with k.  Setting an existing key keeps its original
// position in the map.
func (m *MapData) Set(k, v *LVal) {
	key := toMapKey(k)
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

// Keys returns the keys of m in insertion order.
func (m *MapData) Keys() []*LVal {
	keys := make([]*LVal, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Values returns the values of m in key insertion order.
func (m *MapData) Values() []*LVal {
	vals := make([]*LVal, len(m.vals))
	copy(vals, m.vals)
	return vals
}

// Equal returns true if m and other contain equal values for the same keys.
// Insertion order is not significant.
func (m *MapData) Equal(other *MapData) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.keys {
		v, ok := other.Get(k)
		if !ok || !Equal(m.vals[i], v) {
			return false
		}
	}
	return true
}

// Copy returns a shallow copy of m.
func (m *MapData) Copy() *MapData {
	cp := newMapData(m.Len())
	for i := range m.keys {
		cp.Set(m.keys[i], m.vals[i])
	}
	return cp
}

func (m *MapData) String() string {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i := range m.keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(m.keys[i].String())
		buf.WriteString(" ")
		buf.WriteString(m.vals[i].String())
	}
	buf.WriteString("}")
	return buf.String()
}
