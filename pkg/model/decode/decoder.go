package decode

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"perimeleon/pmexport/pkg/model"
)

// DefaultNamespace is the UUID namespace household ids are derived in.
var DefaultNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:perimeleon:households"))

// Decoder builds entity model values from raw records.
// A Decoder is immutable and safe for concurrent use.
type Decoder struct {
	namespace uuid.UUID
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithNamespace sets the namespace used to derive external ids.
// Changing it changes every exported id.
func WithNamespace(ns uuid.UUID) Option {
	return func(d *Decoder) {
		d.namespace = ns
	}
}

// New creates a Decoder.
func New(opts ...Option) *Decoder {
	d := &Decoder{namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ExternalID derives the external id of a store record from its native id.
func (d *Decoder) ExternalID(nativeID string) string {
	return uuid.NewSHA1(d.namespace, []byte(nativeID)).String()
}

// Household decodes a full household record.
func (d *Decoder) Household(raw model.RawRecord) (*model.Household, error) {
	if raw == nil {
		return nil, model.NewDecodeError(model.EntityHousehold, "", nil, model.ErrMissingField)
	}
	return d.household(raw)
}

// Members decodes the members of a household record, in export order: head,
// spouse when present, then others. It accepts the member projection of a
// record as well as the full record.
func (d *Decoder) Members(raw model.RawRecord) ([]*model.Member, error) {
	h, err := d.Household(raw)
	if err != nil {
		return nil, err
	}
	return h.Members(), nil
}

// NativeID returns the store's own identifier of raw as a string.
func NativeID(raw model.RawRecord) (string, bool) {
	v, ok := raw[model.NativeIDKey]
	if !ok || v == nil {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

func (d *Decoder) household(raw map[string]any) (*model.Household, error) {
	r := newReader(model.EntityHousehold, raw, "")

	var id, seed string
	if native, ok := NativeID(raw); ok {
		id = d.ExternalID(native)
		seed = native
	} else {
		// Records without a native id must carry an external id already.
		id = r.str("id")
		if r.err == nil && id == "" {
			r.fail("id", nil, model.ErrMissingField)
		}
		seed = id
	}
	if r.err != nil {
		return nil, r.err
	}

	headRaw, _ := r.record("head")
	spouseRaw, hasSpouse := r.record("spouse")
	othersRaw := r.list("others")
	addrRaw, hasAddr := r.record("address")
	if r.err != nil {
		return nil, r.err
	}

	h := &model.Household{ID: id}

	var err error
	if h.Head, err = d.member(headRaw, "head", id, seed+"/head"); err != nil {
		return nil, err
	}
	if hasSpouse {
		if h.Spouse, err = d.member(spouseRaw, "spouse", id, seed+"/spouse"); err != nil {
			return nil, err
		}
	}
	h.Others = make([]*model.Member, 0, len(othersRaw))
	for i, o := range othersRaw {
		path := fmt.Sprintf("others[%d]", i)
		m, err := d.member(o, path, id, seed+"/"+path)
		if err != nil {
			return nil, err
		}
		h.Others = append(h.Others, m)
	}
	if hasAddr {
		if h.Address, err = d.address(addrRaw, "address"); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Member decodes a single member record.
func (d *Decoder) Member(raw model.RawRecord) (*model.Member, error) {
	return d.member(raw, "", "", "")
}

// member decodes a member at path. householdID and seed, when set, fill the
// household back-reference and derive the member id if the record has none.
func (d *Decoder) member(raw map[string]any, path, householdID, seed string) (*model.Member, error) {
	r := newReader(model.EntityMember, raw, path)

	m := &model.Member{
		ID:                 r.str("id"),
		Household:          r.str("household"),
		FamilyName:         r.str("family_name"),
		GivenName:          r.str("given_name"),
		MiddleName:         r.str("middle_name"),
		PreviousFamilyName: r.str("previous_family_name"),
		Nickname:           r.str("nickname"),
		FullName:           r.str("full_name"),
		Sex:                model.Sex(r.enum("sex")),
		DateOfBirth:        r.date("date_of_birth"),
		PlaceOfBirth:       r.str("place_of_birth"),
		Status:             model.MemberStatus(r.enum("status")),
		MaritalStatus:      model.MaritalStatus(r.enum("marital_status")),
		Email:              r.str("email"),
		MobilePhone:        r.str("mobile_phone"),
		WorkEmail:          r.str("work_email"),
		WorkPhone:          r.str("work_phone"),
	}
	active, hasActive := r.boolean("is_active")
	m.Resident, _ = r.boolean("resident")
	m.ExDirectory, _ = r.boolean("ex_directory")
	addrRaw, hasAddr := r.record("temp_address")
	txRaw := r.list("transactions")
	svcRaw := r.list("services")
	if r.err != nil {
		return nil, r.err
	}

	if hasActive {
		m.IsActive = active
	} else {
		m.IsActive = m.Status.Active()
	}
	if m.FullName == "" {
		m.FullName = joinName(m.GivenName, m.MiddleName, m.FamilyName)
	}
	if householdID != "" {
		m.Household = householdID
	}
	if m.ID == "" && seed != "" {
		m.ID = d.ExternalID(seed)
	}

	var err error
	if hasAddr {
		if m.TempAddress, err = d.address(addrRaw, r.fieldPath("temp_address")); err != nil {
			return nil, err
		}
	}
	m.Transactions = make([]*model.Transaction, 0, len(txRaw))
	for i, t := range txRaw {
		tx, err := d.transaction(t, r.fieldPath(fmt.Sprintf("transactions[%d]", i)))
		if err != nil {
			return nil, err
		}
		m.Transactions = append(m.Transactions, tx)
	}
	m.Services = make([]*model.Service, 0, len(svcRaw))
	for i, s := range svcRaw {
		svc, err := d.service(s, r.fieldPath(fmt.Sprintf("services[%d]", i)))
		if err != nil {
			return nil, err
		}
		m.Services = append(m.Services, svc)
	}
	return m, nil
}

// Address decodes a single address record.
func (d *Decoder) Address(raw model.RawRecord) (*model.Address, error) {
	return d.address(raw, "")
}

func (d *Decoder) address(raw map[string]any, path string) (*model.Address, error) {
	r := newReader(model.EntityAddress, raw, path)
	a := &model.Address{
		Address:    r.str("address"),
		Address2:   r.str("address2"),
		City:       r.str("city"),
		State:      r.str("state"),
		PostalCode: r.str("postal_code"),
		Country:    r.str("country"),
		HomePhone:  r.str("home_phone"),
		Email:      r.str("email"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return a, nil
}

// Transaction decodes a single transaction record.
func (d *Decoder) Transaction(raw model.RawRecord) (*model.Transaction, error) {
	return d.transaction(raw, "")
}

func (d *Decoder) transaction(raw map[string]any, path string) (*model.Transaction, error) {
	r := newReader(model.EntityTransaction, raw, path)
	t := &model.Transaction{
		Type:      model.TransactionType(r.enum("type")),
		Date:      r.date("date"),
		Amount:    r.number("amount"),
		Authority: r.str("authority"),
		Church:    r.str("church"),
		Comment:   r.str("comment"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return t, nil
}

// Service decodes a single service record.
func (d *Decoder) Service(raw model.RawRecord) (*model.Service, error) {
	return d.service(raw, "")
}

func (d *Decoder) service(raw map[string]any, path string) (*model.Service, error) {
	r := newReader(model.EntityService, raw, path)
	s := &model.Service{
		Type:    model.ServiceType(r.enum("type")),
		Date:    r.date("date"),
		Place:   r.str("place"),
		Comment: r.str("comment"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return s, nil
}
