package controlbreak

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Operator tokens accepted by ParseComparator.
const (
	TokenNumeric = "=="
	TokenString  = "eq"
)

type comparatorKind int

const (
	kindString comparatorKind = iota
	kindNumeric
	kindCustom
)

// Comparator decides whether two successive values of a level are equal.
// The zero value is string equality.
type Comparator struct {
	kind comparatorKind
	pred func(a, b any) bool
}

// StringEquality compares the fmt.Sprint renderings of both values.
func StringEquality() Comparator {
	return Comparator{kind: kindString}
}

// NumericEquality compares values as numbers: exactly when both are
// integers, as float64 otherwise. Values that are not numeric fall back to
// string equality.
func NumericEquality() Comparator {
	return Comparator{kind: kindNumeric}
}

// Custom wraps a caller-supplied equality predicate.
func Custom(pred func(a, b any) bool) Comparator {
	return Comparator{kind: kindCustom, pred: pred}
}

// ParseComparator maps an operator token to a built-in comparator.
func ParseComparator(token string) (Comparator, error) {
	switch token {
	case TokenNumeric:
		return NumericEquality(), nil
	case TokenString:
		return StringEquality(), nil
	default:
		return Comparator{}, fmt.Errorf("%w: %q", ErrInvalidOperator, token)
	}
}

// Equal reports whether a and b belong to the same group.
func (c Comparator) Equal(a, b any) bool {
	switch c.kind {
	case kindNumeric:
		return numericEqual(a, b)
	case kindCustom:
		return c.pred(a, b)
	default:
		return stringOf(a) == stringOf(b)
	}
}

func (c Comparator) String() string {
	switch c.kind {
	case kindNumeric:
		return TokenNumeric
	case kindCustom:
		return "custom"
	default:
		return TokenString
	}
}

func (c Comparator) validate() error {
	if c.kind == kindCustom && c.pred == nil {
		return fmt.Errorf("%w: nil custom predicate", ErrInvalidOperator)
	}
	return nil
}

func stringOf(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func numericEqual(a, b any) bool {
	x, okA := toInt(a)
	y, okB := toInt(b)
	if okA && okB {
		return x.Cmp(y) == 0
	}

	fx, okA := toFloat(a)
	fy, okB := toFloat(b)
	if okA && okB {
		return fx == fy
	}
	return stringOf(a) == stringOf(b)
}

// toInt converts integer kinds and base-10 integer strings without loss.
func toInt(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case int:
		return big.NewInt(int64(n)), true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	case uint:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	case string:
		return new(big.Int).SetString(strings.TrimSpace(n), 10)
	default:
		return nil, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
