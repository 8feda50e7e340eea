package source

import (
	"time"

	"perimeleon/pmexport/pkg/model"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// normalize converts driver-specific values into the plain maps, slices and
// scalars the decoder accepts. BSON types from the Mongo driver and MongoDB
// extended JSON wrappers from mongoexport dumps are both unwrapped.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		return normalizeMap(t)
	case map[string]any:
		if s, ok := extendedJSON(t); ok {
			return s
		}
		return normalizeMap(t)
	case model.RawRecord:
		return normalizeMap(t)
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.A:
		return normalizeSlice(t)
	case []any:
		return normalizeSlice(t)
	case bson.ObjectID:
		return t.Hex()
	case bson.DateTime:
		return t.Time().UTC()
	case bson.Decimal128:
		return t.String()
	case bson.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case bson.Null, bson.Undefined:
		return nil
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = normalize(v)
	}
	return out
}

// normalizeRecord normalizes a whole document.
func normalizeRecord(m map[string]any) model.RawRecord {
	return model.RawRecord(normalizeMap(m))
}

// extendedJSON unwraps single-key MongoDB extended JSON values such as
// {"$oid": "..."} and {"$date": {"$numberLong": "..."}}.
func extendedJSON(m map[string]any) (any, bool) {
	if len(m) != 1 {
		return nil, false
	}
	for k, v := range m {
		switch k {
		case "$oid", "$numberDecimal":
			return cast.ToString(v), true
		case "$numberInt", "$numberLong", "$numberDouble":
			f, err := cast.ToFloat64E(v)
			if err != nil {
				return cast.ToString(v), true
			}
			return f, true
		case "$date":
			switch d := v.(type) {
			case string:
				if t, err := time.Parse(time.RFC3339Nano, d); err == nil {
					return t.UTC(), true
				}
				return d, true
			case map[string]any:
				if ms, ok := d["$numberLong"]; ok {
					return time.UnixMilli(cast.ToInt64(ms)).UTC(), true
				}
			default:
				return time.UnixMilli(cast.ToInt64(d)).UTC(), true
			}
		}
	}
	return nil, false
}
