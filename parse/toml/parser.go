package toml

// =========================
// Section Stream
// =========================

// The structural pass decouples syntax from TOML's semantic rules: it
// yields the pairs appearing before the first header plus a flat list
// of sections in source order, and the assembler folds that stream into
// a single tree.

type sectionKind uint8

const (
	sectionTable sectionKind = iota
	sectionArrayTables
)

type docPair struct {
	path   []string
	val    Node
	offset int
}

type docSection struct {
	kind   sectionKind
	path   []string
	offset int
	pairs  []docPair
}

type sectionStream struct {
	rootPairs []docPair
	sections  []docSection
}

type parser struct {
	data []byte
	pos  int
}

// parseDocument runs the structural pass over the whole input.
func (p *parser) parseDocument() (*sectionStream, error) {
	stream := &sectionStream{}
	for {
		if err := p.skipBlank(); err != nil {
			return nil, err
		}
		if p.done() {
			return stream, nil
		}

		if p.peek() == '[' {
			sec, err := p.parseHeader()
			if err != nil {
				return nil, err
			}
			stream.sections = append(stream.sections, *sec)
			continue
		}

		pair, err := p.parsePair()
		if err != nil {
			return nil, err
		}
		if n := len(stream.sections); n > 0 {
			stream.sections[n-1].pairs = append(stream.sections[n-1].pairs, *pair)
		} else {
			stream.rootPairs = append(stream.rootPairs, *pair)
		}
	}
}

// =========================
// Line Discipline
// =========================

func (p *parser) skipWs() {
	for {
		c := p.peek()
		if c != ' ' && c != '\t' {
			return
		}
		p.advance(1)
	}
}

// skipComment consumes a comment up to (not including) the line
// terminator.
func (p *parser) skipComment() {
	for !p.done() {
		c := p.peek()
		if c == '\n' || (c == '\r' && p.at(p.pos+1) == '\n') {
			return
		}
		p.advance(1)
	}
}

// skipBlank consumes whitespace, comment lines and newlines between
// top-level elements.
func (p *parser) skipBlank() error {
	for {
		p.skipWs()
		switch c := p.peek(); {
		case c == '#':
			p.skipComment()
		case c == '\n':
			p.advance(1)
		case c == '\r':
			if p.at(p.pos+1) != '\n' {
				return p.errf("bare carriage return")
			}
			p.advance(2)
		default:
			return nil
		}
	}
}

// expectLineEnd consumes trailing whitespace and an optional comment,
// then requires a line terminator or end of input.
func (p *parser) expectLineEnd() error {
	p.skipWs()
	if p.peek() == '#' {
		p.skipComment()
	}
	if p.done() {
		return nil
	}
	switch c := p.peek(); {
	case c == '\n':
		p.advance(1)
		return nil
	case c == '\r' && p.at(p.pos+1) == '\n':
		p.advance(2)
		return nil
	}
	return p.errf("expected end of line")
}

// =========================
// Keys and Pairs
// =========================

func (p *parser) parseSimpleKey() (string, error) {
	switch c := p.peek(); {
	case c == '"':
		return p.parseBasicString()
	case c == '\'':
		return p.parseLiteralString()
	case isBareKeyChar(c):
		start := p.pos
		for isBareKeyChar(p.peek()) {
			p.advance(1)
		}
		return string(p.data[start:p.pos]), nil
	}
	return "", p.errf("expected a key")
}

// parseDottedKey parses one or more simple keys separated by dots, with
// optional whitespace around each dot.
func (p *parser) parseDottedKey() ([]string, error) {
	var path []string
	for {
		p.skipWs()
		key, err := p.parseSimpleKey()
		if err != nil {
			return nil, err
		}
		path = append(path, key)
		p.skipWs()
		if p.peek() != '.' {
			return path, nil
		}
		p.advance(1)
	}
}

func (p *parser) parsePair() (*docPair, error) {
	offset := p.pos
	path, err := p.parseDottedKey()
	if err != nil {
		return nil, err
	}
	if p.peek() != '=' {
		return nil, p.errf("expected '=' after key")
	}
	p.advance(1)
	p.skipWs()
	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if err := p.expectLineEnd(); err != nil {
		return nil, err
	}
	return &docPair{path: path, val: val, offset: offset}, nil
}

// =========================
// Headers
// =========================

func (p *parser) parseHeader() (*docSection, error) {
	offset := p.pos
	kind := sectionTable
	if p.peekString("[[") {
		kind = sectionArrayTables
		p.advance(2)
	} else {
		p.advance(1)
	}

	path, err := p.parseDottedKey()
	if err != nil {
		return nil, err
	}

	if kind == sectionArrayTables {
		if !p.peekString("]]") {
			return nil, p.errf("expected ']]' to close array-of-tables header")
		}
		p.advance(2)
	} else {
		if p.peek() != ']' {
			return nil, p.errf("expected ']' to close table header")
		}
		p.advance(1)
	}

	if err := p.expectLineEnd(); err != nil {
		return nil, err
	}
	return &docSection{kind: kind, path: path, offset: offset}, nil
}

// =========================
// Arrays and Inline Tables
// =========================

// parseArray parses [ v, v, ... ]. Whitespace, newlines and comments
// may appear anywhere between tokens, a trailing comma is permitted,
// and element types may be mixed.
func (p *parser) parseArray() (Node, error) {
	start := p.pos
	p.advance(1)

	arr := &Array{}
	for {
		if err := p.skipBlank(); err != nil {
			return nil, err
		}
		if p.done() {
			return nil, errAt(start, "unterminated array")
		}
		if p.peek() == ']' {
			p.advance(1)
			return arr, nil
		}

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, v)

		if err := p.skipBlank(); err != nil {
			return nil, err
		}
		switch {
		case p.peek() == ',':
			p.advance(1)
		case p.peek() == ']':
			// Closed on the next pass.
		case p.done():
			return nil, errAt(start, "unterminated array")
		default:
			return nil, p.errf("expected ',' or ']' in array")
		}
	}
}

// parseInlineTable parses { k = v, ... } on a single line. Trailing
// commas and newlines between the braces are rejected; the resulting
// table and everything inside it is frozen against later extension.
func (p *parser) parseInlineTable() (Node, error) {
	p.advance(1)
	t := NewTable()
	t.inline = true

	p.skipWs()
	if p.peek() == '}' {
		p.advance(1)
		return t, nil
	}
	for {
		path, err := p.parseDottedKey()
		if err != nil {
			return nil, err
		}
		if p.peek() != '=' {
			return nil, p.errf("expected '=' after key in inline table")
		}
		p.advance(1)
		p.skipWs()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if err := p.inlineAssign(t, path, val); err != nil {
			return nil, err
		}

		p.skipWs()
		switch p.peek() {
		case ',':
			p.advance(1)
			p.skipWs()
			if p.peek() == '}' {
				return nil, p.errf("trailing comma in inline table")
			}
		case '}':
			p.advance(1)
			return t, nil
		case '\n', '\r':
			return nil, p.errf("newline in inline table")
		default:
			return nil, p.errf("expected ',' or '}' in inline table")
		}
	}
}

// inlineAssign binds path to val inside an inline table, creating
// nested sub-tables for dotted keys. Sub-tables inherit the freeze.
func (p *parser) inlineAssign(t *Table, path []string, val Node) error {
	for _, k := range path[:len(path)-1] {
		n, ok := t.Items[k]
		if !ok {
			sub := NewTable()
			sub.inline = true
			sub.dotted = true
			t.set(k, sub)
			t = sub
			continue
		}
		sub, isTable := n.(*Table)
		if !isTable || !sub.dotted {
			return p.errf("key %q already defined and cannot be extended", k)
		}
		t = sub
	}
	last := path[len(path)-1]
	if _, exists := t.Items[last]; exists {
		return p.errf("duplicate key %q in inline table", last)
	}
	t.set(last, val)
	return nil
}
