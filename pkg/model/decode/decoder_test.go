package decode

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"perimeleon/pmexport/pkg/model"
)

func rawMember(given, sex string) map[string]any {
	return map[string]any{
		"family_name":    "Smith",
		"given_name":     given,
		"sex":            sex,
		"status":         "COMMUNING",
		"marital_status": "married",
	}
}

func rawHousehold() model.RawRecord {
	return model.RawRecord{
		"_id":                "64b7f0c2a1b2c3d4e5f60718",
		"_Household__head":   rawMember("A", "M"),
		"_Household__others": []any{rawMember("C", "F")},
	}
}

func TestDecoder_Household(t *testing.T) {
	d := New()

	h, err := d.Household(rawHousehold())
	if err != nil {
		t.Fatalf("Household() error = %v", err)
	}

	if h.Head == nil || h.Head.GivenName != "A" || h.Head.Sex != model.SexMale {
		t.Errorf("Head = %+v", h.Head)
	}
	if h.Spouse != nil {
		t.Errorf("Spouse = %+v, want nil", h.Spouse)
	}
	if len(h.Others) != 1 || h.Others[0].GivenName != "C" {
		t.Fatalf("Others = %+v", h.Others)
	}
	if h.Head.FullName != "A Smith" {
		t.Errorf("FullName = %q, want derived %q", h.Head.FullName, "A Smith")
	}
	if !h.Head.IsActive {
		t.Error("IsActive should be derived from COMMUNING status")
	}
	if h.Head.Household != h.ID || h.Others[0].Household != h.ID {
		t.Error("members should reference their household id")
	}
	if h.Head.ID == "" || h.Head.ID == h.Others[0].ID {
		t.Errorf("member ids = %q, %q, want distinct derived ids", h.Head.ID, h.Others[0].ID)
	}
	if _, err := uuid.Parse(h.ID); err != nil {
		t.Errorf("household id %q is not a UUID: %v", h.ID, err)
	}
}

func TestDecoder_DeterministicID(t *testing.T) {
	d := New()

	h1, err := d.Household(rawHousehold())
	if err != nil {
		t.Fatalf("Household() error = %v", err)
	}
	h2, err := New().Household(rawHousehold())
	if err != nil {
		t.Fatalf("Household() error = %v", err)
	}
	if h1.ID != h2.ID {
		t.Errorf("ids differ across decodes: %s vs %s", h1.ID, h2.ID)
	}
	if h1.Head.ID != h2.Head.ID {
		t.Errorf("member ids differ across decodes: %s vs %s", h1.Head.ID, h2.Head.ID)
	}

	other := New(WithNamespace(uuid.NameSpaceOID))
	h3, _ := other.Household(rawHousehold())
	if h3.ID == h1.ID {
		t.Error("namespace should change derived ids")
	}

	raw := rawHousehold()
	raw["_id"] = "another"
	h4, _ := d.Household(raw)
	if h4.ID == h1.ID {
		t.Error("different native ids produced the same external id")
	}
}

func TestDecoder_CleanKeyFallback(t *testing.T) {
	raw := model.RawRecord{
		"_id":    "1",
		"head":   rawMember("A", "M"),
		"spouse": rawMember("B", "F"),
	}

	h, err := New().Household(raw)
	if err != nil {
		t.Fatalf("Household() error = %v", err)
	}
	if h.Spouse == nil || h.Spouse.GivenName != "B" {
		t.Errorf("Spouse = %+v", h.Spouse)
	}
	if len(h.Others) != 0 || h.Others == nil {
		t.Errorf("Others = %#v, want empty non-nil slice", h.Others)
	}
}

func TestDecoder_MangledKeyWins(t *testing.T) {
	raw := rawHousehold()
	raw["head"] = rawMember("Z", "F")

	h, err := New().Household(raw)
	if err != nil {
		t.Fatalf("Household() error = %v", err)
	}
	if h.Head.GivenName != "A" {
		t.Errorf("Head.GivenName = %q, want mangled key value %q", h.Head.GivenName, "A")
	}
}

func TestDecoder_NullSpouse(t *testing.T) {
	raw := rawHousehold()
	raw["_Household__spouse"] = nil
	raw["_Household__others"] = nil

	h, err := New().Household(raw)
	if err != nil {
		t.Fatalf("Household() error = %v", err)
	}
	if h.Spouse != nil {
		t.Error("null spouse should decode as absent")
	}
	if len(h.Others) != 0 {
		t.Errorf("null others should decode empty, got %d", len(h.Others))
	}
}

func TestDecoder_Errors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(model.RawRecord)
		wantField string
		wantCause error
	}{
		{
			name:      "missing head",
			mutate:    func(r model.RawRecord) { delete(r, "_Household__head") },
			wantField: "head",
			wantCause: model.ErrMissingField,
		},
		{
			name:      "missing id",
			mutate:    func(r model.RawRecord) { delete(r, "_id") },
			wantField: "id",
			wantCause: model.ErrMissingField,
		},
		{
			name: "invalid sex",
			mutate: func(r model.RawRecord) {
				r["_Household__head"] = rawMember("A", "X")
			},
			wantField: "head.sex",
			wantCause: model.ErrInvalidEnum,
		},
		{
			name: "invalid status in others",
			mutate: func(r model.RawRecord) {
				m := rawMember("C", "F")
				m["status"] = "ACTIVE"
				r["_Household__others"] = []any{rawMember("B", "M"), m}
			},
			wantField: "others[1].status",
			wantCause: model.ErrInvalidEnum,
		},
		{
			name: "head is not a record",
			mutate: func(r model.RawRecord) {
				r["_Household__head"] = "A"
			},
			wantField: "head",
			wantCause: model.ErrTypeMismatch,
		},
		{
			name: "others is not a list",
			mutate: func(r model.RawRecord) {
				r["_Household__others"] = rawMember("C", "F")
			},
			wantField: "others",
			wantCause: model.ErrTypeMismatch,
		},
		{
			name: "missing marital status",
			mutate: func(r model.RawRecord) {
				m := rawMember("A", "M")
				delete(m, "marital_status")
				r["_Household__head"] = m
			},
			wantField: "head.marital_status",
			wantCause: model.ErrMissingField,
		},
		{
			name: "bad transaction type",
			mutate: func(r model.RawRecord) {
				m := rawMember("A", "M")
				m["transactions"] = []any{map[string]any{"type": "BAPTISM"}}
				r["_Household__head"] = m
			},
			wantField: "head.transactions[0].type",
			wantCause: model.ErrInvalidEnum,
		},
		{
			name: "given name is a map",
			mutate: func(r model.RawRecord) {
				m := rawMember("A", "M")
				m["given_name"] = map[string]any{"first": "A"}
				r["_Household__head"] = m
			},
			wantField: "head.given_name",
			wantCause: model.ErrTypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawHousehold()
			tt.mutate(raw)

			h, err := New().Household(raw)
			if err == nil {
				t.Fatalf("Household() expected error, got %+v", h)
			}
			if h != nil {
				t.Error("Household() returned a partial entity with an error")
			}

			var decErr *model.DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("error type = %T, want *model.DecodeError", err)
			}
			if decErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", decErr.Field, tt.wantField)
			}
			if !errors.Is(err, tt.wantCause) {
				t.Errorf("error = %v, want cause %v", err, tt.wantCause)
			}
		})
	}
}

func TestDecoder_InvalidEnumReportsValue(t *testing.T) {
	raw := rawHousehold()
	raw["_Household__head"] = rawMember("A", "X")

	_, err := New().Household(raw)

	var decErr *model.DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error type = %T, want *model.DecodeError", err)
	}
	if decErr.Value != "X" {
		t.Errorf("Value = %v, want X", decErr.Value)
	}
	if decErr.Entity != model.EntityMember {
		t.Errorf("Entity = %s, want Member", decErr.Entity)
	}
}

func TestDecoder_MemberScalars(t *testing.T) {
	raw := model.RawRecord{
		"_Member__given_name":     "Ann",
		"_Member__sex":            "F",
		"_Member__status":         "DEAD",
		"_Member__marital_status": "widowed",
		"_Member__date_of_birth":  time.Date(1931, time.May, 4, 23, 0, 0, 0, time.UTC),
		"_Member__resident":       "true",
		"_Member__ex_directory":   1,
		"temp_address":            map[string]any{"city": "Bangor", "postal_code": 4401},
		"transactions": []any{
			map[string]any{"type": "RECEIVED", "date": "1960-09-11", "amount": "12.5", "church": "First"},
			map[string]any{"type": "DIED", "date": "2001-01-02"},
		},
		"services": []map[string]any{{"type": "ORDAINED_DE", "place": "Bangor"}},
	}

	m, err := New().Member(raw)
	if err != nil {
		t.Fatalf("Member() error = %v", err)
	}

	if m.IsActive {
		t.Error("DEAD member should not be active")
	}
	if !m.Resident || !m.ExDirectory {
		t.Errorf("Resident=%v ExDirectory=%v, want coerced true", m.Resident, m.ExDirectory)
	}
	if m.DateOfBirth == nil || m.DateOfBirth.String() != "1931-05-04" {
		t.Errorf("DateOfBirth = %v", m.DateOfBirth)
	}
	if m.TempAddress == nil || m.TempAddress.PostalCode != "4401" {
		t.Errorf("TempAddress = %+v", m.TempAddress)
	}
	if len(m.Transactions) != 2 || m.Transactions[1].Type != model.TransactionDied {
		t.Fatalf("Transactions = %+v", m.Transactions)
	}
	if m.Transactions[0].Amount == nil || *m.Transactions[0].Amount != 12.5 {
		t.Errorf("Amount = %v, want 12.5", m.Transactions[0].Amount)
	}
	if m.Transactions[1].Amount != nil {
		t.Errorf("absent amount = %v, want nil", *m.Transactions[1].Amount)
	}
	if len(m.Services) != 1 || m.Services[0].Type != model.ServiceOrdainedDE {
		t.Errorf("Services = %+v", m.Services)
	}
	if m.ID != "" || m.Household != "" {
		t.Errorf("standalone member should not get derived ids, got %q/%q", m.ID, m.Household)
	}
}

func TestDecoder_ExplicitIsActive(t *testing.T) {
	raw := model.RawRecord(rawMember("A", "M"))
	raw["is_active"] = false

	m, err := New().Member(raw)
	if err != nil {
		t.Fatalf("Member() error = %v", err)
	}
	if m.IsActive {
		t.Error("stored is_active=false should win over status")
	}
}

func TestDecoder_Members(t *testing.T) {
	raw := rawHousehold()
	raw["_Household__spouse"] = rawMember("B", "F")

	members, err := New().Members(raw)
	if err != nil {
		t.Fatalf("Members() error = %v", err)
	}

	var names []string
	for _, m := range members {
		names = append(names, m.GivenName)
	}
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "C" {
		t.Errorf("Members() order = %v, want [A B C]", names)
	}
}

func TestDecoder_SingleEntities(t *testing.T) {
	d := New()

	if _, err := d.Service(model.RawRecord{"place": "x"}); !errors.Is(err, model.ErrMissingField) {
		t.Errorf("Service() without type error = %v, want ErrMissingField", err)
	}
	if _, err := d.Transaction(model.RawRecord{"type": "BIRTH", "amount": true}); !errors.Is(err, model.ErrTypeMismatch) {
		t.Errorf("Transaction() with bool amount error = %v, want ErrTypeMismatch", err)
	}
	if _, err := d.Transaction(model.RawRecord{"type": "BIRTH", "date": "not a date"}); !errors.Is(err, model.ErrTypeMismatch) {
		t.Errorf("Transaction() with bad date error = %v, want ErrTypeMismatch", err)
	}
	a, err := d.Address(model.RawRecord{"_Address__city": "Orono", "unknown": 1})
	if err != nil || a.City != "Orono" {
		t.Errorf("Address() = (%+v, %v)", a, err)
	}
}

func TestNativeID(t *testing.T) {
	if id, ok := NativeID(model.RawRecord{"_id": 42}); !ok || id != "42" {
		t.Errorf("NativeID(42) = (%q, %v)", id, ok)
	}
	if _, ok := NativeID(model.RawRecord{"_id": nil}); ok {
		t.Error("NativeID(nil) should be absent")
	}
	if _, ok := NativeID(model.RawRecord{}); ok {
		t.Error("NativeID() without _id should be absent")
	}
}
