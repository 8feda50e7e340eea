package model

import (
	"fmt"
	"strings"
)

// EntityType identifies one of the entity types of the model.
type EntityType string

const (
	EntityAddress     EntityType = "Address"
	EntityService     EntityType = "Service"
	EntityTransaction EntityType = "Transaction"
	EntityMember      EntityType = "Member"
	EntityHousehold   EntityType = "Household"
)

// EntityTypes lists all entity types, leaves first.
var EntityTypes = []EntityType{
	EntityAddress,
	EntityService,
	EntityTransaction,
	EntityMember,
	EntityHousehold,
}

// FieldKind is the declared type of a field.
type FieldKind int

const (
	KindString FieldKind = iota
	KindBool
	KindNumber
	KindDate
	KindEnum
	KindEntity
	KindEntityList
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindEnum:
		return "enum"
	case KindEntity:
		return "entity"
	case KindEntityList:
		return "entity_list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field declares one field of an entity.
type Field struct {
	// Name is the clean, external field name.
	Name string

	// Key is the storage key: the clean name mangled with the owning
	// type's private-attribute marker, e.g. "_Household__head".
	Key string

	Kind FieldKind

	// Enum is set for KindEnum fields.
	Enum EnumType

	// Entity is set for KindEntity and KindEntityList fields.
	Entity EntityType

	// Required fields must be present and non-null in raw records.
	Required bool
}

// EntitySchema is the ordered field table of one entity type.
type EntitySchema struct {
	Type   EntityType
	Fields []Field

	byName map[string]int
}

// Field returns the declaration of the named clean field.
func (s *EntitySchema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Names returns the clean field names in declaration order.
func (s *EntitySchema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// MangledKey returns the storage key of a clean field name of entity t.
func MangledKey(t EntityType, name string) string {
	return "_" + string(t) + "__" + name
}

type fieldOpt func(*Field)

func required(f *Field) { f.Required = true }

func str(name string, opts ...fieldOpt) fieldDecl {
	return fieldDecl{Field{Name: name, Kind: KindString}, opts}
}

func boolean(name string, opts ...fieldOpt) fieldDecl {
	return fieldDecl{Field{Name: name, Kind: KindBool}, opts}
}

func number(name string, opts ...fieldOpt) fieldDecl {
	return fieldDecl{Field{Name: name, Kind: KindNumber}, opts}
}

func date(name string, opts ...fieldOpt) fieldDecl {
	return fieldDecl{Field{Name: name, Kind: KindDate}, opts}
}

func enum(name string, e EnumType, opts ...fieldOpt) fieldDecl {
	return fieldDecl{Field{Name: name, Kind: KindEnum, Enum: e}, opts}
}

func entity(name string, e EntityType, opts ...fieldOpt) fieldDecl {
	return fieldDecl{Field{Name: name, Kind: KindEntity, Entity: e}, opts}
}

func entityList(name string, e EntityType) fieldDecl {
	return fieldDecl{Field{Name: name, Kind: KindEntityList, Entity: e}, nil}
}

type fieldDecl struct {
	field Field
	opts  []fieldOpt
}

func newSchema(t EntityType, decls ...fieldDecl) *EntitySchema {
	s := &EntitySchema{
		Type:   t,
		Fields: make([]Field, len(decls)),
		byName: make(map[string]int, len(decls)),
	}
	for i, d := range decls {
		f := d.field
		for _, opt := range d.opts {
			opt(&f)
		}
		f.Key = MangledKey(t, f.Name)
		s.Fields[i] = f
		s.byName[f.Name] = i
	}
	return s
}

var schemas = map[EntityType]*EntitySchema{
	EntityAddress: newSchema(EntityAddress,
		str("address"),
		str("address2"),
		str("city"),
		str("state"),
		str("postal_code"),
		str("country"),
		str("home_phone"),
		str("email"),
	),
	EntityService: newSchema(EntityService,
		enum("type", EnumServiceType, required),
		date("date"),
		str("place"),
		str("comment"),
	),
	EntityTransaction: newSchema(EntityTransaction,
		enum("type", EnumTransactionType, required),
		date("date"),
		number("amount"),
		str("authority"),
		str("church"),
		str("comment"),
	),
	EntityMember: newSchema(EntityMember,
		str("id"),
		str("household"),
		str("family_name"),
		str("given_name"),
		str("middle_name"),
		str("previous_family_name"),
		str("nickname"),
		str("full_name"),
		enum("sex", EnumSex, required),
		date("date_of_birth"),
		str("place_of_birth"),
		enum("status", EnumMemberStatus, required),
		boolean("is_active"),
		boolean("resident"),
		boolean("ex_directory"),
		enum("marital_status", EnumMaritalStatus, required),
		str("email"),
		str("mobile_phone"),
		str("work_email"),
		str("work_phone"),
		entity("temp_address", EntityAddress),
		entityList("transactions", EntityTransaction),
		entityList("services", EntityService),
	),
	EntityHousehold: newSchema(EntityHousehold,
		str("id"),
		entity("head", EntityMember, required),
		entity("spouse", EntityMember),
		entityList("others", EntityMember),
		entity("address", EntityAddress),
	),
}

// Schema returns the field table of an entity type. It panics on an unknown
// type, which can only come from a programming error.
func Schema(t EntityType) *EntitySchema {
	s, ok := schemas[t]
	if !ok {
		panic(fmt.Sprintf("model: unknown entity type %q", t))
	}
	return s
}

// internalToClean maps every mangled storage key of every entity to its clean name.
var internalToClean = func() map[string]string {
	m := make(map[string]string)
	for _, t := range EntityTypes {
		for _, f := range schemas[t].Fields {
			m[f.Key] = f.Name
		}
	}
	return m
}()

// CleanName maps a storage key to its clean field name. Keys that are not
// mangled storage keys of any entity are returned unchanged with ok=false.
func CleanName(key string) (name string, ok bool) {
	name, ok = internalToClean[key]
	if !ok {
		return key, false
	}
	return name, true
}

// IsInternalKey reports whether key uses a storage-only naming form: the
// native id key, a known mangled key, or any key with a leading underscore.
func IsInternalKey(key string) bool {
	if key == NativeIDKey {
		return true
	}
	if _, ok := internalToClean[key]; ok {
		return true
	}
	return strings.HasPrefix(key, "_")
}
