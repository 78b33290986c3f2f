package toml

// Package toml implements a production-grade TOML v1.0.0 parser with a
// strong internal AST, deterministic semantics, and safe post-parse
// operations.
//
// Scope:
// - TOML v1.0.0 core features
// - Explicit AST (Table / Array / Value)
// - Safe dotted-key handling
// - Table extension semantics
// - Deterministic errors with byte offsets
//
// Non-goals (by design):
// - Comment preservation
// - Formatting round-trip
// - Streaming mutation
//
// This implementation is suitable for production use as a configuration
// ingestion layer. Parsing runs in three stages: scalar recognizers over
// a byte cursor, a structural pass that emits a flat section stream, and
// an assembler that folds the stream into the root table while enforcing
// the structural rules (duplicate keys, inline-table freeze, table
// re-open, arrays of tables).

import (
	"fmt"
	"io"
	"time"
)

// =========================
// AST Definitions
// =========================

type Kind uint8

const (
	KindTable Kind = iota
	KindArray
	KindValue
)

type Node interface {
	Kind() Kind
}

// -------- Table --------

type Table struct {
	Items map[string]Node

	keys []string // insertion order

	// Provenance flags consumed by the assembler. The inline flag is
	// permanent: an inline table may never be extended after it closes.
	inline   bool
	explicit bool // declared by a [header]; unset tables are implicit
	dotted   bool // created by a dotted-key assignment
}

func NewTable() *Table {
	return &Table{Items: make(map[string]Node)}
}

func (*Table) Kind() Kind { return KindTable }

// Inline reports whether the table was written with {...} syntax.
func (t *Table) Inline() bool { return t.inline }

// Keys returns the table's keys in insertion order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *Table) Len() int { return len(t.Items) }

// set binds key to n, recording insertion order. The caller has already
// checked that key is unused.
func (t *Table) set(key string, n Node) {
	t.Items[key] = n
	t.keys = append(t.keys, key)
}

// -------- Array --------

type Array struct {
	Elems []Node

	tableArray bool // built by [[header]] sections
}

func (*Array) Kind() Kind { return KindArray }

// -------- Value --------

type ValueKind uint8

const (
	ValueString ValueKind = iota
	ValueInt
	ValueFloat
	ValueBool
	ValueDatetime      // offset date-time
	ValueLocalDatetime // date-time without offset
	ValueLocalDate
	ValueLocalTime
)

type Value struct {
	Type ValueKind
	V    any
}

func (*Value) Kind() Kind { return KindValue }

// =========================
// Date/Time Carriers
// =========================

// LocalDate is a calendar date with no time or offset attached.
type LocalDate struct {
	Year  int
	Month int // 1-12
	Day   int
}

func (d LocalDate) AsTime(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d LocalDate) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// LocalTime is a wall-clock time with no date or offset attached.
type LocalTime struct {
	Hour       int
	Minute     int
	Second     int // 0-60, leap second permitted
	Nanosecond int // 0-999_999_999
}

func (t LocalTime) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond != 0 {
		s += fmt.Sprintf(".%09d", t.Nanosecond)
	}
	return s
}

func (t LocalTime) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// LocalDateTime is a naive date-time: no offset, no zone.
type LocalDateTime struct {
	Date LocalDate
	Time LocalTime
}

func (dt LocalDateTime) AsTime(loc *time.Location) time.Time {
	return time.Date(dt.Date.Year, time.Month(dt.Date.Month), dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, dt.Time.Second, dt.Time.Nanosecond, loc)
}

func (dt LocalDateTime) String() string {
	return dt.Date.String() + "T" + dt.Time.String()
}

func (dt LocalDateTime) MarshalText() ([]byte, error) { return []byte(dt.String()), nil }

// OffsetDateTime is a date-time carrying a UTC offset in minutes.
type OffsetDateTime struct {
	LocalDateTime
	Offset int // minutes east of UTC; Z is 0
}

func (dt OffsetDateTime) AsTime() time.Time {
	return dt.LocalDateTime.AsTime(time.FixedZone("", dt.Offset*60))
}

func (dt OffsetDateTime) String() string {
	if dt.Offset == 0 {
		return dt.LocalDateTime.String() + "Z"
	}
	off := dt.Offset
	sign := "+"
	if off < 0 {
		sign = "-"
		off = -off
	}
	return dt.LocalDateTime.String() + fmt.Sprintf("%s%02d:%02d", sign, off/60, off%60)
}

func (dt OffsetDateTime) MarshalText() ([]byte, error) { return []byte(dt.String()), nil }

// =========================
// Errors
// =========================

// ParseError describes a failure to parse or assemble TOML input. Offset
// is the zero-based byte offset into the input that triggered the error.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Offset < 0 {
		return "toml: " + e.Msg
	}
	return fmt.Sprintf("toml: offset %d: %s", e.Offset, e.Msg)
}

func errAt(off int, format string, args ...any) *ParseError {
	return &ParseError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}

// =========================
// Public API
// =========================

// Parse parses TOML input from r and returns the root Table.
func Parse(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

// ParseBytes parses TOML input and returns the root Table. The returned
// document holds no references into data.
func ParseBytes(data []byte) (*Table, error) {
	// Tolerate a UTF-8 BOM.
	if len(data) >= 3 && data[0] == 0xef && data[1] == 0xbb && data[2] == 0xbf {
		data = data[3:]
	}

	p := &parser{data: data}
	stream, err := p.parseDocument()
	if err != nil {
		return nil, err
	}

	return assemble(stream)
}

// ParseString parses TOML input from a string.
func ParseString(s string) (*Table, error) {
	return ParseBytes([]byte(s))
}

// MustParse parses TOML input and panics on error. Intended for tests
// and static configuration baked into a binary.
func MustParse(s string) *Table {
	t, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return t
}
