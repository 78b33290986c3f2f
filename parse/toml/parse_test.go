package toml

import (
	"math"
	"reflect"
	"testing"
)

func TestParsing(t *testing.T) {
	f := func(name, input string, errorExpected bool) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			t.Helper()
			_, err := ParseString(input)
			if errorExpected && err == nil {
				t.Errorf("expected error but got none")
			}
			if !errorExpected && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	f("empty_input", "", false)
	f("whitespace_only", "   \n  \t\n  ", false)
	f("comments_only", "# comment\n# another comment", false)
	f("bom_prefix", "\xef\xbb\xbfkey = 1", false)
	f("crlf_lines", "a = 1\r\nb = 2\r\n", false)
	f("bare_carriage_return", "a = 1\rb = 2", true)

	// Keys.
	f("bare_key", "key = 1", false)
	f("bare_key_digits", "1234 = 1", false)
	f("bare_key_dashes", "key-with_chars = 1", false)
	f("dotted_key", "a.b.c = 1", false)
	f("dotted_key_spaced", "a . b . c = 1", false)
	f("quoted_key_basic", `"a key" = 1`, false)
	f("quoted_key_literal", `'a key' = 1`, false)
	f("quoted_key_escape", `"tab\tkey" = 1`, false)
	f("missing_key", "= 1", true)
	f("missing_equals", "key 1", true)
	f("missing_value", "key =", true)
	f("trailing_content", "key = 1 trailing", true)
	f("double_dot_key", "a..b = 1", true)

	// Strings.
	f("basic_string", `s = "hello world"`, false)
	f("basic_string_escapes", `s = "a\tb\nc\"d\\e\bf\fg\rh"`, false)
	f("unicode_escape_small", `s = "\u0048i"`, false)
	f("unicode_escape_large", `s = "\U0001F600"`, false)
	f("unicode_escape_surrogate", `s = "\uD800"`, true)
	f("unicode_escape_out_of_range", `s = "\U00110000"`, true)
	f("unicode_escape_short", `s = "\u12"`, true)
	f("unknown_escape", `s = "\x41"`, true)
	f("unterminated_string", `s = "unclosed`, true)
	f("newline_in_basic_string", "s = \"line\nbreak\"", true)
	f("control_char_in_string", "s = \"a\x01b\"", true)
	f("tab_in_string", "s = \"a\tb\"", false)
	f("multibyte_utf8", `s = "héllo wörld ✓"`, false)
	f("literal_string", `s = 'C:\Users\nodejs'`, false)
	f("literal_string_no_escapes_needed", `s = 'quote " inside'`, false)
	f("unterminated_literal", `s = 'unclosed`, true)
	f("multiline_basic", "s = \"\"\"\nline1\nline2\"\"\"", false)
	f("multiline_basic_escape", "s = \"\"\"a\\tb\"\"\"", false)
	f("multiline_unterminated", "s = \"\"\"\nnever closed", true)
	f("multiline_literal", "s = '''\nraw \\ text\n'''", false)
	f("multiline_literal_unterminated", "s = '''\nnever closed", true)

	// Integers.
	f("int_zero", "n = 0", false)
	f("int_plus", "n = +99", false)
	f("int_minus", "n = -17", false)
	f("int_underscores", "n = 5_349_221", false)
	f("int_leading_zero", "n = 0755", true)
	f("int_leading_zero_negative", "n = -012", true)
	f("int_underscore_leading", "n = _1", true)
	f("int_underscore_trailing", "n = 1_", true)
	f("int_underscore_double", "n = 1__2", true)
	f("int_max", "n = 9223372036854775807", false)
	f("int_min", "n = -9223372036854775808", false)
	f("int_overflow", "n = 9223372036854775808", true)
	f("int_underflow", "n = -9223372036854775809", true)
	f("hex", "n = 0xdead_beef", false)
	f("hex_mixed_case", "n = 0xDeadBeef", false)
	f("hex_no_digits", "n = 0x", true)
	f("hex_bad_digit", "n = 0xGHI", true)
	f("hex_overflow", "n = 0xFFFFFFFFFFFFFFFF", true)
	f("octal", "n = 0o755", false)
	f("octal_bad_digit", "n = 0o789", true)
	f("binary", "n = 0b11010110", false)
	f("binary_bad_digit", "n = 0b12", true)
	f("signed_radix_prefix", "n = +0x1", true)
	f("negative_radix_prefix", "n = -0b1", true)

	// Floats.
	f("float_simple", "x = 3.1415", false)
	f("float_exponent", "x = 5e+22", false)
	f("float_exponent_lower", "x = 1e06", false)
	f("float_both", "x = 6.626e-34", false)
	f("float_underscores", "x = 224_617.445_991_228", false)
	f("float_no_fraction_digits", "x = 3.", true)
	f("float_no_leading_digits", "x = .7", true)
	f("float_no_exponent_digits", "x = 1e", true)
	f("float_leading_zero", "x = 03.14", true)
	f("float_inf", "x = inf", false)
	f("float_inf_signed", "x = -inf", false)
	f("float_nan", "x = nan", false)
	f("float_nan_signed", "x = +nan", false)

	// Booleans.
	f("bool_true", "b = true", false)
	f("bool_false", "b = false", false)
	f("bool_capitalized", "b = True", true)

	// Date/times.
	f("offset_datetime_z", "d = 1979-05-27T07:32:00Z", false)
	f("offset_datetime_lower", "d = 1979-05-27t07:32:00z", false)
	f("offset_datetime_offset", "d = 1979-05-27T00:32:00-07:00", false)
	f("offset_datetime_fraction", "d = 1979-05-27T00:32:00.999999-07:00", false)
	f("local_datetime", "d = 1979-05-27T07:32:00", false)
	f("local_datetime_space", "d = 1979-05-27 07:32:00", false)
	f("local_date", "d = 1979-05-27", false)
	f("local_time", "d = 07:32:00", false)
	f("local_time_fraction", "d = 00:32:00.999999", false)
	f("leap_day_valid", "d = 2000-02-29", false)
	f("leap_day_invalid", "d = 2001-02-29", true)
	f("month_out_of_range", "d = 1979-13-01", true)
	f("day_out_of_range", "d = 1979-04-31", true)
	f("hour_out_of_range", "d = 24:00:00", true)
	f("leap_second", "d = 23:59:60", false)
	f("second_out_of_range", "d = 23:59:61", true)
	f("offset_out_of_range", "d = 1979-05-27T00:32:00+24:00", true)
	f("fraction_no_digits", "d = 07:32:00.", true)
	f("date_then_comment", "d = 1979-05-27 # not a datetime", false)

	// Arrays.
	f("empty_array", "a = []", false)
	f("array_trailing_comma", "a = [1, 2,]", false)
	f("array_multiline", "a = [\n  1,\n  # comment\n  2,\n]", false)
	f("array_nested", `a = [[1, 2], ["x"]]`, false)
	f("array_missing_comma", "a = [1 2]", true)
	f("array_unterminated", "a = [1, 2", true)
	f("array_mixed_types", `a = [1, "two", 3.0]`, false)

	// Inline tables.
	f("empty_inline_table", "t = {}", false)
	f("inline_table", `t = { a = 1, b = "x" }`, false)
	f("inline_table_dotted", "t = { a.b = 1, a.c = 2 }", false)
	f("inline_table_nested", "t = { a = { b = 1 } }", false)
	f("inline_table_trailing_comma", "t = { a = 1, }", true)
	f("inline_table_newline", "t = { a = 1,\nb = 2 }", true)
	f("inline_table_duplicate", "t = { a = 1, a = 2 }", true)
	f("inline_table_unterminated", "t = { a = 1", true)

	// Headers and structure.
	f("table_header", "[table]\nkey = 1", false)
	f("dotted_header", "[a.b.c]\nkey = 1", false)
	f("header_spaced", "[ a . b ]\nkey = 1", false)
	f("header_comment", "[table] # comment\nkey = 1", false)
	f("header_unclosed", "[table\nkey = 1", true)
	f("header_empty", "[]", true)
	f("header_trailing_content", "[table] junk", true)
	f("aot_header", "[[fruit]]\nname = \"apple\"", false)
	f("aot_unclosed", "[[fruit]\nname = \"apple\"", true)
	f("duplicate_root_key", "a = 1\na = 2", true)
	f("duplicate_table", "[a]\n[a]", true)
	f("supertable_after", "[a.b]\n[a]", false)
	f("table_over_scalar", "a = 1\n[a]", true)
	f("table_over_dotted", "[fruit]\napple.color = \"red\"\n[fruit.apple]", true)
	f("subtable_under_dotted", "[fruit]\napple.color = \"red\"\n[fruit.apple.texture]\nsmooth = true", false)
	f("dotted_into_header_table", "[a.b]\nx = 1\n[a]\nb.y = 2", true)
	f("aot_over_table", "[a]\n[[a]]", true)
	f("table_over_aot", "[[a]]\n[a]", true)
	f("header_into_inline", "t = { a = 1 }\n[t.b]", true)
	f("dotted_same_section", "[a]\nb.c = 1\nb.d = 2", false)
	f("dotted_reopen_across_sections", "[a]\nb.c = 1\n[b]\nx = 1\n[a.b]", true)
}

func TestUntypedValues(t *testing.T) {
	f := func(name, input string, expected any) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			t.Helper()
			root, err := ParseString(input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := ToUntyped(root)
			if !reflect.DeepEqual(got, expected) {
				t.Errorf("expected %+v, got %+v", expected, got)
			}
		})
	}

	f("empty_document", "", map[string]any{})
	f("scalars", "s = \"x\"\ni = 42\nf = 1.5\nb = true",
		map[string]any{"s": "x", "i": int64(42), "f": 1.5, "b": true})
	f("escape_decoding", `s = "tab:\there"`, map[string]any{"s": "tab:\there"})
	f("unicode_escape", `s = "\u0048i"`, map[string]any{"s": "Hi"})
	f("multiline_first_newline_elided", "s = \"\"\"\nhello\nworld\"\"\"",
		map[string]any{"s": "hello\nworld"})
	f("crlf_normalized", "s = \"\"\"a\r\nb\"\"\"", map[string]any{"s": "a\nb"})
	f("nested_tables", "[a.b]\nc = 1", map[string]any{
		"a": map[string]any{"b": map[string]any{"c": int64(1)}},
	})
	f("array_of_tables", "[[p]]\nn = 1\n[[p]]\nn = 2", map[string]any{
		"p": []any{
			map[string]any{"n": int64(1)},
			map[string]any{"n": int64(2)},
		},
	})
	f("local_date_value", "d = 1979-05-27", map[string]any{
		"d": LocalDate{Year: 1979, Month: 5, Day: 27},
	})
	f("local_time_truncates_fraction", "t = 07:32:00.1234567891", map[string]any{
		"t": LocalTime{Hour: 7, Minute: 32, Second: 0, Nanosecond: 123456789},
	})

	t.Run("special_floats", func(t *testing.T) {
		root, err := ParseString("nan_val = nan\ninf_val = inf\nneginf_val = -inf")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		m := ToUntyped(root).(map[string]any)
		if !math.IsNaN(m["nan_val"].(float64)) {
			t.Error("expected NaN")
		}
		if !math.IsInf(m["inf_val"].(float64), 1) {
			t.Error("expected +Inf")
		}
		if !math.IsInf(m["neginf_val"].(float64), -1) {
			t.Error("expected -Inf")
		}
	})

	t.Run("offset_datetime_fields", func(t *testing.T) {
		root, err := ParseString("d = 1979-05-27T07:32:00.5+01:30")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		m := ToUntyped(root).(map[string]any)
		dt := m["d"].(OffsetDateTime)
		want := OffsetDateTime{
			LocalDateTime: LocalDateTime{
				Date: LocalDate{Year: 1979, Month: 5, Day: 27},
				Time: LocalTime{Hour: 7, Minute: 32, Second: 0, Nanosecond: 500000000},
			},
			Offset: 90,
		}
		if dt != want {
			t.Errorf("expected %v, got %v", want, dt)
		}
	})
}

func TestParseErrorOffsets(t *testing.T) {
	f := func(name, input string, wantOffset int) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			t.Helper()
			_, err := ParseString(input)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Offset != wantOffset {
				t.Errorf("expected offset %d, got %d (%s)", wantOffset, pe.Offset, pe.Msg)
			}
		})
	}

	f("stray_character", "key = @", 6)
	f("unterminated_string_points_at_open_quote", `key = "abc`, 6)
	f("missing_equals", "key value", 4)
	f("overflow_points_at_number", "n = 9223372036854775808", 4)
	f("duplicate_key_points_at_pair", "a = 1\na = 2", 6)
}

func TestMustParse(t *testing.T) {
	root := MustParse(`key = "value"`)
	if s, ok := GetString(root, "key"); !ok || s != "value" {
		t.Errorf("unexpected document: %v", ToUntyped(root))
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic on invalid input")
		}
	}()
	MustParse("key =")
}
