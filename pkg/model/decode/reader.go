package decode

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"perimeleon/pmexport/pkg/model"
)

// reader reads declared fields of one entity out of a raw map. The first
// failure is kept in err and every later read becomes a no-op, so decode
// functions read all fields in sequence and check err once.
type reader struct {
	schema *model.EntitySchema
	raw    map[string]any
	path   string
	err    error
}

func newReader(t model.EntityType, raw map[string]any, path string) *reader {
	return &reader{schema: model.Schema(t), raw: raw, path: path}
}

func (r *reader) fieldPath(name string) string {
	if r.path == "" {
		return name
	}
	return r.path + "." + name
}

func (r *reader) fail(name string, value any, cause error) {
	if r.err == nil {
		r.err = model.NewDecodeError(r.schema.Type, r.fieldPath(name), value, cause)
	}
}

// lookup returns the raw value of a declared field. Null values count as absent.
func (r *reader) lookup(name string) (any, bool) {
	f, ok := r.schema.Field(name)
	if !ok {
		panic(fmt.Sprintf("decode: %s has no field %q", r.schema.Type, name))
	}
	v, ok := r.raw[f.Key]
	if !ok || v == nil {
		v, ok = r.raw[f.Name]
	}
	if !ok || v == nil {
		if f.Required {
			r.fail(name, nil, model.ErrMissingField)
		}
		return nil, false
	}
	return v, true
}

func (r *reader) str(name string) string {
	if r.err != nil {
		return ""
	}
	v, ok := r.lookup(name)
	if !ok {
		return ""
	}
	switch v.(type) {
	case map[string]any, model.RawRecord, []any:
		r.fail(name, v, model.ErrTypeMismatch)
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		r.fail(name, v, fmt.Errorf("%w: %v", model.ErrTypeMismatch, err))
		return ""
	}
	return s
}

func (r *reader) boolean(name string) (bool, bool) {
	if r.err != nil {
		return false, false
	}
	v, ok := r.lookup(name)
	if !ok {
		return false, false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		r.fail(name, v, fmt.Errorf("%w: %v", model.ErrTypeMismatch, err))
		return false, false
	}
	return b, true
}

func (r *reader) number(name string) *float64 {
	if r.err != nil {
		return nil
	}
	v, ok := r.lookup(name)
	if !ok {
		return nil
	}
	if _, isBool := v.(bool); isBool {
		r.fail(name, v, model.ErrTypeMismatch)
		return nil
	}
	n, err := cast.ToFloat64E(v)
	if err != nil {
		r.fail(name, v, fmt.Errorf("%w: %v", model.ErrTypeMismatch, err))
		return nil
	}
	return &n
}

func (r *reader) date(name string) *model.Date {
	if r.err != nil {
		return nil
	}
	v, ok := r.lookup(name)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case time.Time:
		d := model.DateOf(t)
		return &d
	case model.Date:
		return &t
	case string:
		if t == "" {
			return nil
		}
		if d, err := model.ParseDate(t); err == nil {
			return &d
		}
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		r.fail(name, v, fmt.Errorf("%w: %v", model.ErrTypeMismatch, err))
		return nil
	}
	d := model.DateOf(t)
	return &d
}

// enum reads a string field and checks it against the field's enum domain.
func (r *reader) enum(name string) string {
	s := r.str(name)
	if r.err != nil {
		return ""
	}
	f, _ := r.schema.Field(name)
	if s == "" && !f.Required {
		return ""
	}
	if s == "" {
		r.fail(name, nil, model.ErrMissingField)
		return ""
	}
	if err := model.ValidateEnum(r.schema.Type, r.fieldPath(name), s, f.Enum); err != nil {
		if r.err == nil {
			r.err = err
		}
		return ""
	}
	return s
}

// record reads a nested entity field. ok is false when the field is absent.
func (r *reader) record(name string) (map[string]any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.lookup(name)
	if !ok {
		return nil, false
	}
	m, ok := asMap(v)
	if !ok {
		r.fail(name, v, model.ErrTypeMismatch)
		return nil, false
	}
	return m, true
}

// list reads a sequence of nested entities. Absent fields yield an empty list.
func (r *reader) list(name string) []map[string]any {
	if r.err != nil {
		return nil
	}
	v, ok := r.lookup(name)
	if !ok {
		return nil
	}
	var items []any
	switch s := v.(type) {
	case []any:
		items = s
	case []map[string]any:
		items = make([]any, len(s))
		for i := range s {
			items[i] = s[i]
		}
	case []model.RawRecord:
		items = make([]any, len(s))
		for i := range s {
			items[i] = s[i]
		}
	default:
		r.fail(name, v, model.ErrTypeMismatch)
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, ok := asMap(item)
		if !ok {
			r.fail(fmt.Sprintf("%s[%d]", name, i), item, model.ErrTypeMismatch)
			return nil
		}
		out = append(out, m)
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case model.RawRecord:
		return m, true
	default:
		return nil, false
	}
}

func joinName(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
