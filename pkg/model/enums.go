package model

import (
	"fmt"
	"slices"
)

// EnumType identifies one of the closed enum domains of the model.
type EnumType string

const (
	EnumSex             EnumType = "Sex"
	EnumMaritalStatus   EnumType = "MaritalStatus"
	EnumMemberStatus    EnumType = "MemberStatus"
	EnumTransactionType EnumType = "TransactionType"
	EnumServiceType     EnumType = "ServiceType"
)

// Sex is a member's sex.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// MaritalStatus is a member's marital status.
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

// MemberStatus is a member's standing in the church roll.
type MemberStatus string

const (
	StatusCommuning        MemberStatus = "COMMUNING"
	StatusNonCommuning     MemberStatus = "NONCOMMUNING"
	StatusAssociate        MemberStatus = "ASSOCIATE"
	StatusPastor           MemberStatus = "PASTOR"
	StatusSuspended        MemberStatus = "SUSPENDED"
	StatusExcommunicated   MemberStatus = "EXCOMMUNICATED"
	StatusDismissalPending MemberStatus = "DISMISSAL_PENDING"
	StatusDismissed        MemberStatus = "DISMISSED"
	StatusRemoved          MemberStatus = "REMOVED"
	StatusDead             MemberStatus = "DEAD"
)

// TransactionType classifies a membership transaction.
type TransactionType string

const (
	TransactionBirth            TransactionType = "BIRTH"
	TransactionProfession       TransactionType = "PROFESSION"
	TransactionReceived         TransactionType = "RECEIVED"
	TransactionSuspended        TransactionType = "SUSPENDED"
	TransactionSuspensionLifted TransactionType = "SUSPENSION_LIFTED"
	TransactionExcommunicated   TransactionType = "EXCOMMUNICATED"
	TransactionRestored         TransactionType = "RESTORED"
	TransactionDismissalPending TransactionType = "DISMISSAL_PENDING"
	TransactionDismissed        TransactionType = "DISMISSED"
	TransactionRemovedAdmin     TransactionType = "REMOVED_ADMIN"
	TransactionDied             TransactionType = "DIED"
)

// ServiceType classifies an office held by a member.
type ServiceType string

const (
	ServiceOrdainedTE  ServiceType = "ORDAINED_TE"
	ServiceOrdainedRE  ServiceType = "ORDAINED_RE"
	ServiceOrdainedDE  ServiceType = "ORDAINED_DE"
	ServiceInstalledTE ServiceType = "INSTALLED_TE"
	ServiceInstalledRE ServiceType = "INSTALLED_RE"
	ServiceInstalledDE ServiceType = "INSTALLED_DE"
	ServiceRemoved     ServiceType = "REMOVED"
	ServiceEmeritus    ServiceType = "EMERITUS"
	ServiceHonRetired  ServiceType = "HON_RETIRED"
	ServiceDeposed     ServiceType = "DEPOSED"
)

type enumValue struct {
	value string
	label string
}

// enumDomains lists every enum domain in declaration order.
var enumDomains = map[EnumType][]enumValue{
	EnumSex: {
		{string(SexMale), "Male"},
		{string(SexFemale), "Female"},
	},
	EnumMaritalStatus: {
		{string(MaritalSingle), "Single"},
		{string(MaritalMarried), "Married"},
		{string(MaritalDivorced), "Divorced"},
		{string(MaritalWidowed), "Widowed"},
	},
	EnumMemberStatus: {
		{string(StatusCommuning), "Communing"},
		{string(StatusNonCommuning), "Non-communing"},
		{string(StatusAssociate), "Associate"},
		{string(StatusPastor), "Pastor"},
		{string(StatusSuspended), "Suspended"},
		{string(StatusExcommunicated), "Excommunicated"},
		{string(StatusDismissalPending), "Dismissal Pending"},
		{string(StatusDismissed), "Dismissed"},
		{string(StatusRemoved), "Removed"},
		{string(StatusDead), "Deceased"},
	},
	EnumTransactionType: {
		{string(TransactionBirth), "Birth"},
		{string(TransactionProfession), "Profession"},
		{string(TransactionReceived), "Received"},
		{string(TransactionSuspended), "Suspended"},
		{string(TransactionSuspensionLifted), "Suspension Lifted"},
		{string(TransactionExcommunicated), "Excommunicated"},
		{string(TransactionRestored), "Restored"},
		{string(TransactionDismissalPending), "Dismissal Pending"},
		{string(TransactionDismissed), "Dismissed"},
		{string(TransactionRemovedAdmin), "Administratively Removed"},
		{string(TransactionDied), "Deceased"},
	},
	EnumServiceType: {
		{string(ServiceOrdainedTE), "Ordained Teaching Elder"},
		{string(ServiceOrdainedRE), "Ordained Ruling Elder"},
		{string(ServiceOrdainedDE), "Ordained Deacon"},
		{string(ServiceInstalledTE), "Installed Teaching Elder"},
		{string(ServiceInstalledRE), "Installed Ruling Elder"},
		{string(ServiceInstalledDE), "Installed Deacon"},
		{string(ServiceRemoved), "Removed"},
		{string(ServiceEmeritus), "Emeritus"},
		{string(ServiceHonRetired), "Retired"},
		{string(ServiceDeposed), "Deposed"},
	},
}

// EnumValues returns the closed set of scalar values of an enum domain, in
// declaration order. It returns nil for an unknown domain.
func EnumValues(enum EnumType) []string {
	domain := enumDomains[enum]
	if domain == nil {
		return nil
	}
	values := make([]string, len(domain))
	for i, v := range domain {
		values[i] = v.value
	}
	return values
}

// EnumLabel returns the human readable label for a value, or the value itself
// if it is not part of the domain.
func EnumLabel(enum EnumType, value string) string {
	for _, v := range enumDomains[enum] {
		if v.value == value {
			return v.label
		}
	}
	return value
}

// ValidEnum reports whether value belongs to the enum domain.
func ValidEnum(enum EnumType, value string) bool {
	return slices.Contains(EnumValues(enum), value)
}

// ValidateEnum checks value against the enum domain and returns a
// *DecodeError naming entity and field when it is not a member.
func ValidateEnum(entity EntityType, field, value string, enum EnumType) error {
	if ValidEnum(enum, value) {
		return nil
	}
	return NewDecodeError(entity, field, value, ErrInvalidEnum)
}

// Valid reports whether s is a declared Sex value.
func (s Sex) Valid() bool { return ValidEnum(EnumSex, string(s)) }

// Label returns the display label.
func (s Sex) Label() string { return EnumLabel(EnumSex, string(s)) }

// Valid reports whether s is a declared MaritalStatus value.
func (s MaritalStatus) Valid() bool { return ValidEnum(EnumMaritalStatus, string(s)) }

// Label returns the display label.
func (s MaritalStatus) Label() string { return EnumLabel(EnumMaritalStatus, string(s)) }

// Valid reports whether s is a declared MemberStatus value.
func (s MemberStatus) Valid() bool { return ValidEnum(EnumMemberStatus, string(s)) }

// Label returns the display label.
func (s MemberStatus) Label() string { return EnumLabel(EnumMemberStatus, string(s)) }

// Active reports whether members with this status are on the active roll.
func (s MemberStatus) Active() bool {
	switch s {
	case StatusCommuning, StatusNonCommuning, StatusAssociate, StatusPastor,
		StatusSuspended, StatusDismissalPending:
		return true
	default:
		return false
	}
}

// Valid reports whether t is a declared TransactionType value.
func (t TransactionType) Valid() bool { return ValidEnum(EnumTransactionType, string(t)) }

// Label returns the display label.
func (t TransactionType) Label() string { return EnumLabel(EnumTransactionType, string(t)) }

// Valid reports whether t is a declared ServiceType value.
func (t ServiceType) Valid() bool { return ValidEnum(EnumServiceType, string(t)) }

// Label returns the display label.
func (t ServiceType) Label() string { return EnumLabel(EnumServiceType, string(t)) }

func parseEnum(enum EnumType, s string) (string, error) {
	if !ValidEnum(enum, s) {
		return "", fmt.Errorf("%w: %q is not a %s", ErrInvalidEnum, s, enum)
	}
	return s, nil
}

// ParseSex parses a stored Sex value.
func ParseSex(s string) (Sex, error) {
	v, err := parseEnum(EnumSex, s)
	return Sex(v), err
}

// ParseMaritalStatus parses a stored MaritalStatus value.
func ParseMaritalStatus(s string) (MaritalStatus, error) {
	v, err := parseEnum(EnumMaritalStatus, s)
	return MaritalStatus(v), err
}

// ParseMemberStatus parses a stored MemberStatus value.
func ParseMemberStatus(s string) (MemberStatus, error) {
	v, err := parseEnum(EnumMemberStatus, s)
	return MemberStatus(v), err
}

// ParseTransactionType parses a stored TransactionType value.
func ParseTransactionType(s string) (TransactionType, error) {
	v, err := parseEnum(EnumTransactionType, s)
	return TransactionType(v), err
}

// ParseServiceType parses a stored ServiceType value.
func ParseServiceType(s string) (ServiceType, error) {
	v, err := parseEnum(EnumServiceType, s)
	return ServiceType(v), err
}
