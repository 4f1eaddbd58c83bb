package model

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Legacy documents carry loosely typed scalars: months stored as ints or
// letter-prefixed strings, budgets as numbers or 万-suffixed strings. Each
// shape is normalized exactly once at BSON decode time; nothing downstream
// re-interprets raw values.

var (
	monthPattern  = regexp.MustCompile(`^[A-Za-z]?([0-9]{1,2})$`)
	amountPattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)(万)?$`)
)

// FlexMonth is a financial month that may arrive as a BSON number or a
// letter-prefixed string such as "M3". Unparseable input decodes to 0.
type FlexMonth int

// ParseMonth normalizes a legacy month string.
func ParseMonth(s string) FlexMonth {
	m := monthPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return FlexMonth(n)
}

// Int returns the normalized month.
func (m FlexMonth) Int() int { return int(m) }

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (m *FlexMonth) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeInt32:
		*m = FlexMonth(rv.Int32())
	case bson.TypeInt64:
		*m = FlexMonth(rv.Int64())
	case bson.TypeDouble:
		*m = FlexMonth(int(rv.Double()))
	case bson.TypeString:
		*m = ParseMonth(rv.StringValue())
	default:
		*m = 0
	}
	return nil
}

// Minor-unit scale factors. Plain amounts are yuan and scale by 100;
// 万-suffixed budget strings land on a 100_000 scale, matching what the
// legacy exporter wrote for 万-denominated budgets.
const (
	minorPerMajor = 100
	minorPerWan   = 100_000
)

// FlexAmount is a money amount whose legacy representation may be a bare
// number or a string with an optional 万 suffix. Unparseable input decodes
// to a zero amount, never an error.
type FlexAmount struct {
	value float64
	wan   bool
}

// FlexAmountFromFloat wraps a plain major-unit number.
func FlexAmountFromFloat(v float64) FlexAmount {
	return FlexAmount{value: v}
}

// ParseAmount normalizes a legacy amount string.
func ParseAmount(s string) FlexAmount {
	m := amountPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return FlexAmount{}
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return FlexAmount{}
	}
	return FlexAmount{value: v, wan: m[2] != ""}
}

// MinorUnits returns the amount as integer minor currency units.
func (a FlexAmount) MinorUnits() int64 {
	scale := float64(minorPerMajor)
	if a.wan {
		scale = minorPerWan
	}
	return int64(math.Round(a.value * scale))
}

// IsZero reports whether the amount parsed to nothing.
func (a FlexAmount) IsZero() bool { return a.value == 0 }

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (a *FlexAmount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeInt32:
		*a = FlexAmountFromFloat(float64(rv.Int32()))
	case bson.TypeInt64:
		*a = FlexAmountFromFloat(float64(rv.Int64()))
	case bson.TypeDouble:
		*a = FlexAmountFromFloat(rv.Double())
	case bson.TypeString:
		*a = ParseAmount(rv.StringValue())
	default:
		*a = FlexAmount{}
	}
	return nil
}

// FlexFloat is a float that may arrive as a BSON number or numeric string
// (the legacy discount field). Unparseable input decodes to 0.
type FlexFloat float64

// ParseFlexFloat normalizes a legacy numeric string.
func ParseFlexFloat(s string) FlexFloat {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return FlexFloat(v)
}

// Float returns the normalized value.
func (f FlexFloat) Float() float64 { return float64(f) }

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (f *FlexFloat) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeInt32:
		*f = FlexFloat(rv.Int32())
	case bson.TypeInt64:
		*f = FlexFloat(rv.Int64())
	case bson.TypeDouble:
		*f = FlexFloat(rv.Double())
	case bson.TypeString:
		*f = ParseFlexFloat(rv.StringValue())
	default:
		*f = 0
	}
	return nil
}

// ToMinorUnits converts a plain major-unit amount to minor units.
func ToMinorUnits(major float64) int64 {
	return int64(math.Round(major * minorPerMajor))
}
