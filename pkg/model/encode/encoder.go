// Package encode converts entity model values into the clean representation:
// JSON-ready trees of map[string]any, []any and scalars keyed by clean field
// names, with enums reduced to their scalar values.
//
// Every declared field of an entity is present in its encoded form. Absent
// optional nested entities and dates encode as nil, which serializes as JSON
// null.
//
// Encoding is idempotent: the output of Encode is itself a valid input and
// passes through unchanged. Maps carrying storage-only keys ("_id",
// "_Household__head", ...) are raw records and are rejected with a
// *model.EncodeError; decode them first.
package encode

import (
	"encoding/json"
	"fmt"

	"perimeleon/pmexport/pkg/model"
)

// Encoder produces clean trees from entity model values.
type Encoder struct{}

// New creates an Encoder.
func New() *Encoder {
	return &Encoder{}
}

// Encode returns the clean representation of v.
func (e *Encoder) Encode(v any) (any, error) {
	return e.encode(v, "$")
}

// Household encodes a household.
func (e *Encoder) Household(h *model.Household) (map[string]any, error) {
	if h == nil {
		return nil, model.NewEncodeError("$", h, "nil household")
	}
	return e.household(h, "$")
}

// Member encodes a member.
func (e *Encoder) Member(m *model.Member) (map[string]any, error) {
	if m == nil {
		return nil, model.NewEncodeError("$", m, "nil member")
	}
	return e.member(m), nil
}

func (e *Encoder) encode(v any, path string) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil

	// Entities
	case *model.Household:
		if x == nil {
			return nil, nil
		}
		return e.household(x, path)
	case model.Household:
		return e.household(&x, path)
	case *model.Member:
		if x == nil {
			return nil, nil
		}
		return e.member(x), nil
	case model.Member:
		return e.member(&x), nil
	case *model.Address:
		if x == nil {
			return nil, nil
		}
		return address(x), nil
	case model.Address:
		return address(&x), nil
	case *model.Transaction:
		if x == nil {
			return nil, nil
		}
		return transaction(x), nil
	case model.Transaction:
		return transaction(&x), nil
	case *model.Service:
		if x == nil {
			return nil, nil
		}
		return service(x), nil
	case model.Service:
		return service(&x), nil

	// Entity sequences
	case []*model.Household:
		out := make([]any, 0, len(x))
		for i, h := range x {
			enc, err := e.encode(h, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, enc)
		}
		return out, nil
	case []*model.Member:
		return members(e, x), nil
	case []*model.Transaction:
		return transactions(x), nil
	case []*model.Service:
		return services(x), nil

	// Enums and dates
	case model.Sex:
		return string(x), nil
	case model.MaritalStatus:
		return string(x), nil
	case model.MemberStatus:
		return string(x), nil
	case model.TransactionType:
		return string(x), nil
	case model.ServiceType:
		return string(x), nil
	case model.Date:
		return x.String(), nil
	case *model.Date:
		return date(x), nil

	// Scalars
	case string, bool, float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return x, nil

	// Clean trees
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			enc, err := e.encode(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(x))
		for i, item := range x {
			enc, err := e.encodeMap(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case map[string]any:
		return e.encodeMap(x, path)
	case model.RawRecord:
		return e.encodeMap(x, path)

	default:
		return nil, model.NewEncodeError(path, v, "")
	}
}

func (e *Encoder) encodeMap(m map[string]any, path string) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if model.IsInternalKey(k) {
			return nil, model.NewEncodeError(path+"."+k, m, "storage key in clean tree; decode the record first")
		}
		enc, err := e.encode(v, path+"."+k)
		if err != nil {
			return nil, err
		}
		out[k] = enc
	}
	return out, nil
}

func (e *Encoder) household(h *model.Household, path string) (map[string]any, error) {
	if h.Head == nil {
		return nil, model.NewEncodeError(path+".head", h, "household without head")
	}
	var spouse any
	if h.Spouse != nil {
		spouse = e.member(h.Spouse)
	}
	var addr any
	if h.Address != nil {
		addr = address(h.Address)
	}
	return map[string]any{
		"id":      h.ID,
		"head":    e.member(h.Head),
		"spouse":  spouse,
		"others":  members(e, h.Others),
		"address": addr,
	}, nil
}

func (e *Encoder) member(m *model.Member) map[string]any {
	var tempAddr any
	if m.TempAddress != nil {
		tempAddr = address(m.TempAddress)
	}
	return map[string]any{
		"id":                   m.ID,
		"household":            m.Household,
		"family_name":          m.FamilyName,
		"given_name":           m.GivenName,
		"middle_name":          m.MiddleName,
		"previous_family_name": m.PreviousFamilyName,
		"nickname":             m.Nickname,
		"full_name":            m.FullName,
		"sex":                  string(m.Sex),
		"date_of_birth":        date(m.DateOfBirth),
		"place_of_birth":       m.PlaceOfBirth,
		"status":               string(m.Status),
		"is_active":            m.IsActive,
		"resident":             m.Resident,
		"ex_directory":         m.ExDirectory,
		"marital_status":       string(m.MaritalStatus),
		"email":                m.Email,
		"mobile_phone":         m.MobilePhone,
		"work_email":           m.WorkEmail,
		"work_phone":           m.WorkPhone,
		"temp_address":         tempAddr,
		"transactions":         transactions(m.Transactions),
		"services":             services(m.Services),
	}
}

func members(e *Encoder, ms []*model.Member) []any {
	out := make([]any, 0, len(ms))
	for _, m := range ms {
		if m != nil {
			out = append(out, e.member(m))
		}
	}
	return out
}

func address(a *model.Address) map[string]any {
	return map[string]any{
		"address":     a.Address,
		"address2":    a.Address2,
		"city":        a.City,
		"state":       a.State,
		"postal_code": a.PostalCode,
		"country":     a.Country,
		"home_phone":  a.HomePhone,
		"email":       a.Email,
	}
}

func transaction(t *model.Transaction) map[string]any {
	var amount any
	if t.Amount != nil {
		amount = *t.Amount
	}
	return map[string]any{
		"type":      string(t.Type),
		"date":      date(t.Date),
		"amount":    amount,
		"authority": t.Authority,
		"church":    t.Church,
		"comment":   t.Comment,
	}
}

func transactions(ts []*model.Transaction) []any {
	out := make([]any, 0, len(ts))
	for _, t := range ts {
		if t != nil {
			out = append(out, transaction(t))
		}
	}
	return out
}

func service(s *model.Service) map[string]any {
	return map[string]any{
		"type":    string(s.Type),
		"date":    date(s.Date),
		"place":   s.Place,
		"comment": s.Comment,
	}
}

func services(ss []*model.Service) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		if s != nil {
			out = append(out, service(s))
		}
	}
	return out
}

// date returns nil for an absent date so it serializes as null.
func date(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
