package sqlkit

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// ValueKind identifies which variant of a Value is active.
type ValueKind uint8

// Value kinds.
const (
	KindNull ValueKind = iota
	KindInteger
	KindFloat
	KindText
	KindBoolean
	KindBinary
	KindTimestamp
)

// Value is a typed SQL scalar. Exactly one variant is active, chosen by the
// constructor used. Values are small and copied by value; the byte buffers
// held by Text and Binary values are shared, not copied.
type Value struct {
	kind ValueKind
	i    int64 // Integer and Timestamp (Unix seconds)
	f    float64
	s    string
	b    []byte
	t    bool
}

// Null returns the SQL NULL value.
func Null() Value {
	return Value{kind: KindNull}
}

// Int returns a 64-bit signed integer value.
func Int(v int64) Value {
	return Value{kind: KindInteger, i: v}
}

// Float returns a 64-bit floating point value.
func Float(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// Text returns a text value. The string is rendered single-quoted with
// embedded quotes doubled.
func Text(v string) Value {
	return Value{kind: KindText, s: v}
}

// Bool returns a boolean value.
func Bool(v bool) Value {
	return Value{kind: KindBoolean, t: v}
}

// Binary returns a binary value, rendered as a hex literal.
func Binary(v []byte) Value {
	return Value{kind: KindBinary, b: v}
}

// Timestamp returns a timestamp value from Unix seconds.
func Timestamp(unix int64) Value {
	return Value{kind: KindTimestamp, i: unix}
}

// Time returns a timestamp value from a time.Time, truncated to seconds.
func Time(t time.Time) Value {
	return Value{kind: KindTimestamp, i: t.Unix()}
}

// Kind reports the active variant.
func (v Value) Kind() ValueKind {
	return v.kind
}

// SQL renders the value as a SQL literal. Rendering is total: every variant
// has a defined literal form. This is the only place quote escaping happens;
// callers interpolating the result rely entirely on it.
func (v Value) SQL() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return "'" + escapeText(v.s) + "'"
	case KindBoolean:
		if v.t {
			return "TRUE"
		}
		return "FALSE"
	case KindBinary:
		return "x'" + hex.EncodeToString(v.b) + "'"
	case KindTimestamp:
		return "'" + time.Unix(v.i, 0).UTC().Format("2006-01-02 15:04:05") + "'"
	default:
		return "NULL"
	}
}

// escapeText doubles every single quote. No other characters are altered.
func escapeText(s string) string {
	if !strings.Contains(s, "'") {
		return s
	}
	return strings.ReplaceAll(s, "'", "''")
}
