package toml

import "strings"

// =========================
// Safe Access Helpers
// =========================

// Get walks already-split path components through nested tables. Empty
// components are skipped. Inline and header tables both descend.
func Get(root *Table, path ...string) (Node, bool) {
	var cur Node = root
	for _, p := range path {
		if len(p) == 0 {
			continue
		}
		t, ok := cur.(*Table)
		if !ok {
			return nil, false
		}
		cur, ok = t.Items[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetUntyped resolves a path and projects the node to plain Go values.
func GetUntyped(root *Table, path ...string) (any, bool) {
	n, ok := Get(root, path...)
	if !ok {
		return nil, false
	}
	return ToUntyped(n), true
}

// ToUntyped converts a node to map[string]any / []any / scalar values.
// Date/time kinds keep their carrier types.
func ToUntyped(n Node) any {
	switch v := n.(type) {
	case *Value:
		return v.V
	case *Array:
		out := make([]any, len(v.Elems))
		for i := range v.Elems {
			out[i] = ToUntyped(v.Elems[i])
		}
		return out
	case *Table:
		m := make(map[string]any, len(v.Items))
		for k, child := range v.Items {
			m[k] = ToUntyped(child)
		}
		return m
	default:
		return nil
	}
}

func MustString(n Node) string {
	v := n.(*Value)
	return v.V.(string)
}

func MustInt(n Node) int64 {
	v := n.(*Value)
	return v.V.(int64)
}

// =========================
// Dotted-Path Facade
// =========================

// The facade splits on '.' before lookup, so a key that itself contains
// a dot (possible when quoted at definition time) is not addressable
// through it. Use Get with pre-split components for those. Typed
// getters never fail; a missing key or a type mismatch is absence.

// GetValue resolves a dotted path to a node.
func GetValue(root *Table, path string) (Node, bool) {
	return Get(root, strings.Split(path, ".")...)
}

func GetString(root *Table, path string) (string, bool) {
	v, ok := scalarAt(root, path, ValueString)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func GetInt(root *Table, path string) (int64, bool) {
	v, ok := scalarAt(root, path, ValueInt)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

func GetFloat(root *Table, path string) (float64, bool) {
	v, ok := scalarAt(root, path, ValueFloat)
	if !ok {
		return 0, false
	}
	return v.(float64), true
}

func GetBool(root *Table, path string) (bool, bool) {
	v, ok := scalarAt(root, path, ValueBool)
	if !ok {
		return false, false
	}
	return v.(bool), true
}

// GetStringArray resolves a dotted path to an array whose elements are
// all strings; any other element type is absence.
func GetStringArray(root *Table, path string) ([]string, bool) {
	n, ok := GetValue(root, path)
	if !ok {
		return nil, false
	}
	arr, isArr := n.(*Array)
	if !isArr {
		return nil, false
	}
	out := make([]string, 0, len(arr.Elems))
	for _, e := range arr.Elems {
		v, isVal := e.(*Value)
		if !isVal || v.Type != ValueString {
			return nil, false
		}
		out = append(out, v.V.(string))
	}
	return out, true
}

// GetTable resolves a dotted path to a header-defined (or implicit)
// table. Inline tables are a distinct kind; see GetInlineTable.
func GetTable(root *Table, path string) (*Table, bool) {
	n, ok := GetValue(root, path)
	if !ok {
		return nil, false
	}
	t, isTable := n.(*Table)
	if !isTable || t.inline {
		return nil, false
	}
	return t, true
}

// KV is one inline-table entry in insertion order.
type KV struct {
	Key   string
	Value Node
}

// GetInlineTable resolves a dotted path to an inline table and returns
// its entries in insertion order.
func GetInlineTable(root *Table, path string) ([]KV, bool) {
	n, ok := GetValue(root, path)
	if !ok {
		return nil, false
	}
	t, isTable := n.(*Table)
	if !isTable || !t.inline {
		return nil, false
	}
	out := make([]KV, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, KV{Key: k, Value: t.Items[k]})
	}
	return out, true
}

// Keys returns the document's root-level keys in insertion order.
func Keys(root *Table) []string {
	return root.Keys()
}

func scalarAt(root *Table, path string, kind ValueKind) (any, bool) {
	n, ok := GetValue(root, path)
	if !ok {
		return nil, false
	}
	v, isVal := n.(*Value)
	if !isVal || v.Type != kind {
		return nil, false
	}
	return v.V, true
}
