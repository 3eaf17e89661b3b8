package sqlkit

import "strings"

// Where is a single predicate. The operator is interpolated verbatim into
// the rendered statement; it is not checked against an allow-list, so it
// must come from trusted code, never from user input.
type Where struct {
	Column   string
	Operator string
	Value    Value
}

// JoinKind selects the JOIN keyword.
type JoinKind uint8

// Join kinds.
const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	FullOuterJoin
)

func (k JoinKind) keyword() string {
	switch k {
	case LeftJoin:
		return "LEFT JOIN"
	case RightJoin:
		return "RIGHT JOIN"
	case FullOuterJoin:
		return "FULL OUTER JOIN"
	default:
		return "INNER JOIN"
	}
}

// Join describes one join clause, rendered as
// "<KIND> JOIN <table> ON <left> = <right>".
type Join struct {
	Kind  JoinKind
	Table string
	Left  string
	Right string
}

// OrderBy describes the single ORDER BY clause a select may carry.
type OrderBy struct {
	Column    string
	Direction string // "ASC" or "DESC"
}

// column/value pair used by insert and update builders; insertion order is
// preserved and determines rendering order.
type assignment struct {
	column string
	value  Value
}

// writeWhere appends " WHERE p1 AND p2 ..." to sb, or nothing when the
// predicate list is empty.
func writeWhere(sb *strings.Builder, wheres []Where) {
	for i, w := range wheres {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(w.Column)
		sb.WriteByte(' ')
		sb.WriteString(w.Operator)
		sb.WriteByte(' ')
		sb.WriteString(w.Value.SQL())
	}
}
