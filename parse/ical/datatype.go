package ical

import "strings"

// DataType is the value type of a property, as named by the VALUE parameter.
type DataType string

const (
	DataTypeNone       DataType = ""
	DataTypeText       DataType = "text"
	DataTypeFloat      DataType = "float"
	DataTypeInteger    DataType = "integer"
	DataTypeBoolean    DataType = "boolean"
	DataTypeDate       DataType = "date"
	DataTypeDateTime   DataType = "date-time"
	DataTypeDuration   DataType = "duration"
	DataTypeUTCOffset  DataType = "utc-offset"
	DataTypeCalAddress DataType = "cal-address"
	DataTypeURI        DataType = "uri"
	DataTypeRecur      DataType = "recur"
	DataTypeUnknown    DataType = "unknown"
)

// ParseDataType normalizes a VALUE parameter value.
func ParseDataType(s string) DataType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DataTypeNone
	}
	return DataType(s)
}

// Token returns the upper-case form used in the text format.
func (d DataType) Token() string {
	return strings.ToUpper(string(d))
}
