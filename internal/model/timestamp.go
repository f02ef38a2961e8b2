package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// naiveLayouts are the zone-less ISO forms older writers stored (UTC implied).
// Fractional seconds are accepted by time.Parse without being in the layout.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp is a time.Time that is written to MongoDB as a BSON datetime but
// also reads documents where the field holds an ISO-8601 string.
// JSON encoding is that of time.Time.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// MarshalBSONValue always writes a BSON datetime.
func (t Timestamp) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(t.Time)
}

// UnmarshalBSONValue accepts a datetime, an RFC 3339 string or a naive ISO string.
func (t *Timestamp) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: typ, Value: data}
	switch typ {
	case bsontype.DateTime:
		t.Time = raw.Time().UTC()
		return nil
	case bsontype.Null, bsontype.Undefined:
		t.Time = time.Time{}
		return nil
	case bsontype.String:
		parsed, err := ParseTimestamp(raw.StringValue())
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	default:
		return fmt.Errorf("cannot decode %s into a timestamp", typ)
	}
}

// ParseTimestamp parses RFC 3339 or a zone-less ISO-8601 value, the latter as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
