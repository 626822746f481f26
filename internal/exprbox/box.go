package exprbox

// Box is a uniform, polymorphic value that threads through the whole
// expression pipeline: literals, results, function arguments and host
// data all travel as a Box. A Box is either null (TypeID == NullType,
// payload zero) or carries a registered type; for array boxes the element
// TypeID is non-null and Length is >= 0.
type Box struct {
	data       any
	typeID     TypeID
	elemTypeID TypeID
	length     int64
}

// Null is the zero-valued, untyped Box.
var Null = Box{}

// New returns a scalar Box of the given registered type carrying value.
func New(id TypeID, value any) Box {
	return Box{typeID: id, data: value}
}

// NewArray returns an array Box whose elements have type elem. values must
// be a slice; length is recorded separately so callers may describe an
// array without necessarily materializing every element (e.g. slices of a
// host-owned buffer).
func NewArray(elem TypeID, values any, length int64) Box {
	return Box{elemTypeID: elem, data: values, length: length}
}

// TypeID reports the scalar type identity of b; an array Box reports
// NullType (its element type is in ElemTypeID).
func (b Box) TypeID() TypeID { return b.typeID }

// ElemTypeID reports the element type of an array Box, or NullType for a
// scalar Box.
func (b Box) ElemTypeID() TypeID { return b.elemTypeID }

// IsNullBox reports whether b carries no type identity at all (the
// uninitialized/Null sentinel), independent of any per-type IsNull op.
func (b Box) IsNullBox() bool { return b.typeID == NullType && b.elemTypeID == NullType }

// IsArray reports whether b holds an array value.
func (b Box) IsArray() bool { return b.elemTypeID != NullType }

// IsType reports whether b holds a scalar value of exactly type id. Per
// §9's recommended resolution of the array/scalar Unbox ambiguity, an
// array Box is never "of" its element's scalar type.
func (b Box) IsType(id TypeID) bool { return !b.IsArray() && b.typeID == id }

// IsArrayOf reports whether b is an array Box whose element type is elem.
func (b Box) IsArrayOf(elem TypeID) bool { return b.IsArray() && b.elemTypeID == elem }

// Length returns the array length, or 0 for a scalar Box that did not opt
// into carrying a secondary integer.
func (b Box) Length() int64 { return b.length }

// SameType reports whether a and b carry the same type identity: both
// scalar with equal TypeID, or both arrays with equal element TypeID.
func SameType(a, b Box) bool {
	if a.IsArray() != b.IsArray() {
		return false
	}
	if a.IsArray() {
		return a.elemTypeID == b.elemTypeID
	}
	return a.typeID == b.typeID
}

// Unbox extracts the payload of a scalar Box as T. It is undefined
// behaviour (panics here, since this is the debug-assertion realization of
// the contract in spec.md §4.1) to call Unbox[T] on a Box that does not
// satisfy IsType for T's registered TypeID.
func Unbox[T any](b Box) T {
	v, ok := b.data.(T)
	if !ok {
		panic("exprbox: Unbox called on a Box of a different or array type")
	}
	return v
}

// UnboxElement extracts element i of an array Box whose element payload
// slice is []T. Panics (debug assertion) on a non-array Box, a type
// mismatch, or an out-of-range index.
func UnboxElement[T any](b Box, i int64) T {
	if !b.IsArray() {
		panic("exprbox: UnboxElement called on a non-array Box")
	}
	elems, ok := b.data.([]T)
	if !ok {
		panic("exprbox: UnboxElement element type mismatch")
	}
	if i < 0 || i >= int64(len(elems)) {
		panic("exprbox: UnboxElement index out of range")
	}
	return elems[i]
}

// Equals reports value equality of a and b under reg's dispatch tables.
// Equality is nested: type identity first, payload second; cross-type
// boxes are never equal.
func Equals(reg *Registry, a, b Box) bool {
	if !SameType(a, b) {
		return false
	}
	return reg.ops(a.typeID).Equals(a, b)
}

// Less implements the strict total order required by spec.md §8: for any
// two boxes, exactly one of Less(x,y), Less(y,x), Equals(x,y) holds. When
// a and b differ in type, ordering falls back to comparing type identity
// so heterogeneous collections of boxes remain sortable.
func Less(reg *Registry, a, b Box) bool {
	if !SameType(a, b) {
		return lessTypeIdentity(a, b)
	}
	return reg.ops(a.typeID).Less(a, b)
}

func lessTypeIdentity(a, b Box) bool {
	if a.IsArray() != b.IsArray() {
		return !a.IsArray()
	}
	if a.IsArray() {
		return a.elemTypeID < b.elemTypeID
	}
	return a.typeID < b.typeID
}

// IsNull reports the per-type "is-null" predicate for b.
func IsNull(reg *Registry, b Box) bool {
	if b.IsNullBox() {
		return true
	}
	return reg.ops(b.typeID).IsNull(b)
}

// IsEmpty reports the per-type "is-empty" predicate for b.
func IsEmpty(reg *Registry, b Box) bool {
	if b.IsArray() {
		return b.length == 0
	}
	return reg.ops(b.typeID).IsEmpty(b)
}

// IsTrue reports the per-type truthiness of b; used by the VM's
// JUMP_IF_FALSE instruction.
func IsTrue(reg *Registry, b Box) bool {
	if b.IsNullBox() {
		return false
	}
	return reg.ops(b.typeID).IsTrue(b)
}

// Hash returns the per-type hash of b.
func Hash(reg *Registry, b Box) uint64 {
	return reg.ops(b.typeID).Hash(b)
}

// AppendString returns the textual rendering of b, used by both
// normalization (literal assembly) and string-concatenation built-ins.
func AppendString(reg *Registry, b Box) string {
	if b.IsNullBox() {
		return "null"
	}
	return reg.ops(b.typeID).AppendString(b)
}
