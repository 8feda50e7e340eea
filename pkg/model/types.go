package model

// RawRecord is a document as returned by the store: string keys mapped to
// scalars, nested RawRecords ([]any / map[string]any) and arrays.
type RawRecord map[string]any

// NativeIDKey is the key under which the store keeps its own record identifier.
const NativeIDKey = "_id"

// Address is a postal address with the household contact details attached to it.
type Address struct {
	Address    string
	Address2   string
	City       string
	State      string
	PostalCode string
	Country    string
	HomePhone  string
	Email      string
}

// Service records an office held by a member (ordination, installation, ...).
type Service struct {
	Type    ServiceType
	Date    *Date
	Place   string
	Comment string
}

// Transaction records a change in a member's standing.
type Transaction struct {
	Type      TransactionType
	Date      *Date
	Amount    *float64
	Authority string
	Church    string
	Comment   string
}

// Member is a single person belonging to a household.
type Member struct {
	ID                 string
	Household          string // external id of the owning household
	FamilyName         string
	GivenName          string
	MiddleName         string
	PreviousFamilyName string
	Nickname           string
	FullName           string
	Sex                Sex
	DateOfBirth        *Date
	PlaceOfBirth       string
	Status             MemberStatus
	IsActive           bool
	Resident           bool
	ExDirectory        bool
	MaritalStatus      MaritalStatus
	Email              string
	MobilePhone        string
	WorkEmail          string
	WorkPhone          string
	TempAddress        *Address
	Transactions       []*Transaction
	Services           []*Service
}

// Household is the root record: exactly one head, an optional spouse and any
// number of other members.
type Household struct {
	ID      string // external identifier, derived from the store id
	Head    *Member
	Spouse  *Member
	Others  []*Member
	Address *Address
}

// Members returns the household's members in export order: head, spouse (if
// present), then others.
func (h *Household) Members() []*Member {
	members := make([]*Member, 0, 2+len(h.Others))
	if h.Head != nil {
		members = append(members, h.Head)
	}
	if h.Spouse != nil {
		members = append(members, h.Spouse)
	}
	return append(members, h.Others...)
}
