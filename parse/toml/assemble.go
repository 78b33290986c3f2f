package toml

// =========================
// Document Assembly
// =========================

// assemble folds the section stream into the root table, enforcing
// duplicate-key, inline-table freeze, table re-open and array-of-tables
// rules. The first violation aborts assembly; a partial document is
// never returned.
func assemble(stream *sectionStream) (*Table, error) {
	root := NewTable()
	if err := applyPairs(root, stream.rootPairs); err != nil {
		return nil, err
	}
	for i := range stream.sections {
		s := &stream.sections[i]
		var err error
		switch s.kind {
		case sectionTable:
			err = applyTableSection(root, s)
		default:
			err = applyArrayTablesSection(root, s)
		}
		if err != nil {
			return nil, err
		}
	}
	return root, nil
}

// applyPairs binds a section's key-value pairs into base, in source
// order. A dotted path may only traverse sub-tables created by dotted
// assignments of the same section; anything else it meets is a
// conflict. Tables arriving as values (inline tables) are already
// frozen by the parser.
func applyPairs(base *Table, pairs []docPair) error {
	created := make(map[*Table]bool)
	for i := range pairs {
		pair := &pairs[i]
		t := base
		for _, k := range pair.path[:len(pair.path)-1] {
			n, ok := t.Items[k]
			if !ok {
				sub := NewTable()
				sub.dotted = true
				t.set(k, sub)
				created[sub] = true
				t = sub
				continue
			}
			sub, isTable := n.(*Table)
			if !isTable || !created[sub] {
				return errAt(pair.offset, "key %q already defined and cannot be extended", k)
			}
			t = sub
		}
		last := pair.path[len(pair.path)-1]
		if _, exists := t.Items[last]; exists {
			return errAt(pair.offset, "duplicate key %q", last)
		}
		t.set(last, pair.val)
	}
	return nil
}

// ensurePath walks a header path prefix, creating missing intermediate
// tables and descending into the last element of any array of tables it
// meets. Passing through a dotted-key table is allowed; reopening one
// as a header target is not (checked by the callers on the final key).
func ensurePath(root *Table, path []string, offset int) (*Table, error) {
	t := root
	for _, k := range path {
		n, ok := t.Items[k]
		if !ok {
			sub := NewTable()
			t.set(k, sub)
			t = sub
			continue
		}
		switch v := n.(type) {
		case *Table:
			if v.inline {
				return nil, errAt(offset, "cannot extend inline table %q", k)
			}
			t = v
		case *Array:
			if !v.tableArray || len(v.Elems) == 0 {
				return nil, errAt(offset, "cannot traverse array %q", k)
			}
			t = v.Elems[len(v.Elems)-1].(*Table)
		default:
			return nil, errAt(offset, "key %q already defined and is not a table", k)
		}
	}
	return t, nil
}

// applyTableSection opens (or creates) the table named by a [header]
// and binds the section's pairs into it. A table may be opened by a
// header at most once; implicitly created intermediates may be claimed
// by a later header exactly once.
func applyTableSection(root *Table, s *docSection) error {
	t, err := ensurePath(root, s.path[:len(s.path)-1], s.offset)
	if err != nil {
		return err
	}

	last := s.path[len(s.path)-1]
	n, ok := t.Items[last]
	if !ok {
		sub := NewTable()
		sub.explicit = true
		t.set(last, sub)
		return applyPairs(sub, s.pairs)
	}

	sub, isTable := n.(*Table)
	if !isTable {
		return errAt(s.offset, "key %q already defined and is not a table", last)
	}
	switch {
	case sub.inline:
		return errAt(s.offset, "cannot extend inline table %q", last)
	case sub.dotted:
		return errAt(s.offset, "cannot reopen table %q defined by dotted keys", last)
	case sub.explicit:
		return errAt(s.offset, "table %q already defined", last)
	}
	sub.explicit = true
	return applyPairs(sub, s.pairs)
}

// applyArrayTablesSection appends a fresh table to the array named by a
// [[header]], creating the array on first sight. A static array or any
// non-array value under the same key is a conflict.
func applyArrayTablesSection(root *Table, s *docSection) error {
	t, err := ensurePath(root, s.path[:len(s.path)-1], s.offset)
	if err != nil {
		return err
	}

	last := s.path[len(s.path)-1]
	var arr *Array
	if n, ok := t.Items[last]; ok {
		existing, isArray := n.(*Array)
		if !isArray {
			return errAt(s.offset, "key %q already defined and is not an array of tables", last)
		}
		if !existing.tableArray {
			return errAt(s.offset, "cannot extend static array %q", last)
		}
		arr = existing
	} else {
		arr = &Array{tableArray: true}
		t.set(last, arr)
	}

	tbl := NewTable()
	tbl.explicit = true
	arr.Elems = append(arr.Elems, tbl)
	return applyPairs(tbl, s.pairs)
}
