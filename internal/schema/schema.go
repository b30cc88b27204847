// Package schema holds the static declarations of the persisted objects:
// the User entity and its owned Name, Location and Picture values.
//
// Each Object lists its fields in declaration order together with a kind
// (string, int or nested object). The registry is what the query layer walks
// to validate filters and to map query paths such as "location.zip" onto
// SQL columns; nothing here uses reflection.
package schema

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/usersapi/internal/common"
)

// Kind is the primitive type of a field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field is one property of an Object. Object is set only for KindObject.
type Field struct {
	Name   string
	Kind   Kind
	Object *Object
}

// Object describes a stored object type.
type Object struct {
	Name       string
	Table      string
	PrimaryKey string
	Fields     []Field
}

// OwnerColumn links nested object rows to the owning user.
const OwnerColumn = "owner"

// RootAlias is the table alias of the root object in SELECTs. Nested
// objects are joined under an alias equal to their field name.
const RootAlias = "u"

// Field looks up a field by its exact name.
func (o *Object) Field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Scalars returns the non-object fields in declaration order.
func (o *Object) Scalars() []Field {
	out := make([]Field, 0, len(o.Fields))
	for _, f := range o.Fields {
		if f.Kind != KindObject {
			out = append(out, f)
		}
	}
	return out
}

// Nested returns the object-valued fields in declaration order.
func (o *Object) Nested() []Field {
	var out []Field
	for _, f := range o.Fields {
		if f.Kind == KindObject {
			out = append(out, f)
		}
	}
	return out
}

// Column quotes name and qualifies it with alias.
func Column(alias, name string) string {
	return fmt.Sprintf(`%s."%s"`, alias, name)
}

// Resolve maps a query path ("gender", "location.zip") to its scalar field
// and the qualified column to filter on. Only one level of nesting exists.
func (o *Object) Resolve(path string) (Field, string, error) {
	head, rest, nested := strings.Cut(path, ".")

	f, ok := o.Field(head)
	if !ok {
		return Field{}, "", fmt.Errorf("%w: unknown field %q", common.ErrorValidation, head)
	}

	if !nested {
		if f.Kind == KindObject {
			return Field{}, "", fmt.Errorf("%w: %q is an object, use %s.<field>", common.ErrorValidation, head, head)
		}
		return f, Column(RootAlias, f.Name), nil
	}

	if f.Kind != KindObject {
		return Field{}, "", fmt.Errorf("%w: %q has no sub-fields", common.ErrorValidation, head)
	}
	sub, ok := f.Object.Field(rest)
	if !ok || sub.Kind == KindObject {
		return Field{}, "", fmt.Errorf("%w: unknown field %q", common.ErrorValidation, path)
	}
	return sub, Column(f.Name, sub.Name), nil
}

var Name = &Object{
	Name:  "Name",
	Table: "names",
	Fields: []Field{
		{Name: "title", Kind: KindString},
		{Name: "first", Kind: KindString},
		{Name: "last", Kind: KindString},
	},
}

var Location = &Object{
	Name:  "Location",
	Table: "locations",
	Fields: []Field{
		{Name: "street", Kind: KindString},
		{Name: "city", Kind: KindString},
		{Name: "state", Kind: KindString},
		{Name: "zip", Kind: KindInt},
	},
}

var Picture = &Object{
	Name:  "Picture",
	Table: "pictures",
	Fields: []Field{
		{Name: "large", Kind: KindString},
		{Name: "medium", Kind: KindString},
		{Name: "thumbnail", Kind: KindString},
	},
}

var User = &Object{
	Name:       "User",
	Table:      "users",
	PrimaryKey: "username",
	Fields: []Field{
		{Name: "gender", Kind: KindString},
		{Name: "name", Kind: KindObject, Object: Name},
		{Name: "location", Kind: KindObject, Object: Location},
		{Name: "email", Kind: KindString},
		{Name: "username", Kind: KindString},
		{Name: "password", Kind: KindString},
		{Name: "salt", Kind: KindString},
		{Name: "md5", Kind: KindString},
		{Name: "sha1", Kind: KindString},
		{Name: "sha256", Kind: KindString},
		{Name: "registered", Kind: KindInt},
		{Name: "dob", Kind: KindInt},
		{Name: "phone", Kind: KindString},
		{Name: "cell", Kind: KindString},
		{Name: "PPS", Kind: KindString},
		{Name: "picture", Kind: KindObject, Object: Picture},
	},
}

// RangeKeys are the synthetic filter keys accepted on top of User's fields.
// The suffix decides the comparison; the remainder names an int field.
var RangeKeys = []string{"registeredMax", "registeredMin", "dobMax", "dobMin"}

// IsRangeKey reports whether key is one of RangeKeys.
func IsRangeKey(key string) bool {
	for _, k := range RangeKeys {
		if k == key {
			return true
		}
	}
	return false
}
