// Package traceir implements the trace intermediate representation of spec
// section 3: the schema layer (trace/stream/event/field/clock classes) and
// the instance layer (traces, streams, packets, events, fields) that flow
// as message payloads.
package traceir

import (
	"fmt"

	"github.com/tracekit/tracekit/internal/object"
)

// FieldClassKind discriminates the field-class recursive sum type of spec
// section 3: Bool | Integer | Real | String | Structure | StaticArray |
// DynamicArray | Option | Variant.
type FieldClassKind int

const (
	KindBool FieldClassKind = iota
	KindInteger
	KindReal
	KindString
	KindStructure
	KindStaticArray
	KindDynamicArray
	KindOption
	KindVariant
)

// IntegerBase is the preferred display base for an integer field class.
type IntegerBase int

const (
	BaseBinary IntegerBase = iota
	BaseOctal
	BaseDecimal
	BaseHexadecimal
)

// Range is an inclusive [Low, High] integer range, used by enumeration
// mapping labels; ranges for a single label may overlap, per spec.
type Range struct {
	Low, High int64
}

// StructureMember is one (name, FieldClass) pair of a Structure field
// class, built bottom-up and kept in declaration order.
type StructureMember struct {
	Name  string
	Class *FieldClass
}

// VariantOption is one (name, FieldClass, selector_range) triple of a
// Variant field class.
type VariantOption struct {
	Name          string
	Class         *FieldClass
	SelectorRange Range
}

// FieldClass is the recursive schema node for a field. Only the members
// relevant to Kind are populated; the zero value of an unused field is
// ignored the same way internal/value treats kind-irrelevant payload
// fields as don't-care.
type FieldClass struct {
	object.Ref

	kind FieldClassKind

	// Integer
	width      uint
	signedInt  bool
	base       IntegerBase
	mapping    map[string][]Range

	// Real
	singlePrecision bool

	// Structure
	members []StructureMember

	// StaticArray / DynamicArray
	element    *FieldClass
	length     uint64    // StaticArray only
	lengthPath FieldPath // DynamicArray only
	hasLength  bool

	// Option
	content      *FieldClass
	selectorPath FieldPath
	hasSelector  bool

	// Variant
	options []VariantOption

	frozen bool
}

// NewBoolFieldClass returns a root Bool field class (refcount 0, no
// parent — it becomes owned once attached to a structure member or scope).
func NewBoolFieldClass() *FieldClass {
	fc := &FieldClass{kind: KindBool}
	fc.Init(nil, nil)
	return fc
}

// NewIntegerFieldClass returns an Integer field class.
func NewIntegerFieldClass(width uint, signedInt bool, base IntegerBase) *FieldClass {
	fc := &FieldClass{kind: KindInteger, width: width, signedInt: signedInt, base: base}
	fc.Init(nil, nil)
	return fc
}

// SetMappingLabel records an enumeration label's ranges on an Integer field
// class. Ranges for the same label may overlap; this is a builder-time
// mutator and is rejected once the owning schema is frozen.
func (fc *FieldClass) SetMappingLabel(label string, ranges ...Range) error {
	if fc.kind != KindInteger {
		return fmt.Errorf("traceir: mapping labels require an integer field class")
	}
	if fc.frozen {
		return errFrozenFieldClass("SetMappingLabel")
	}
	if fc.mapping == nil {
		fc.mapping = make(map[string][]Range)
	}
	fc.mapping[label] = append(fc.mapping[label], ranges...)
	return nil
}

// MappingLabels returns the enumeration label-to-ranges map. Callers must
// not mutate the returned slices.
func (fc *FieldClass) MappingLabels() map[string][]Range {
	return fc.mapping
}

// NewRealFieldClass returns a Real field class with the given precision.
func NewRealFieldClass(singlePrecision bool) *FieldClass {
	fc := &FieldClass{kind: KindReal, singlePrecision: singlePrecision}
	fc.Init(nil, nil)
	return fc
}

// NewStringFieldClass returns a String field class.
func NewStringFieldClass() *FieldClass {
	fc := &FieldClass{kind: KindString}
	fc.Init(nil, nil)
	return fc
}

// NewStructureFieldClass returns an empty Structure field class; members
// are added with AppendMember, built bottom-up per spec 4.3.
func NewStructureFieldClass() *FieldClass {
	fc := &FieldClass{kind: KindStructure}
	fc.Init(nil, nil)
	return fc
}

// AppendMember adds a (name, FieldClass) member to a Structure field class
// in declaration order. member becomes a child of fc in the ownership
// forest (spec 4.1): fc is its Parent.
func (fc *FieldClass) AppendMember(name string, member *FieldClass) error {
	if fc.kind != KindStructure {
		return fmt.Errorf("traceir: AppendMember requires a structure field class")
	}
	if fc.frozen {
		return errFrozenFieldClass("AppendMember")
	}
	for _, m := range fc.members {
		if m.Name == name {
			return fmt.Errorf("traceir: duplicate structure member %q", name)
		}
	}
	member.Ref.Init(fc, nil)
	fc.members = append(fc.members, StructureMember{Name: name, Class: member})
	return nil
}

// Members returns the structure's members in declaration order.
func (fc *FieldClass) Members() []StructureMember {
	return fc.members
}

// NewStaticArrayFieldClass returns a StaticArray field class of fixed
// length over element.
func NewStaticArrayFieldClass(element *FieldClass, length uint64) *FieldClass {
	fc := &FieldClass{kind: KindStaticArray, element: element, length: length}
	element.Ref.Init(fc, nil)
	fc.Init(nil, nil)
	return fc
}

// NewDynamicArrayFieldClass returns a DynamicArray field class whose
// runtime length is read from lengthPath, an integer field that must
// resolve to a preceding sibling (checked at freeze time).
func NewDynamicArrayFieldClass(element *FieldClass, lengthPath FieldPath) *FieldClass {
	fc := &FieldClass{kind: KindDynamicArray, element: element, lengthPath: lengthPath, hasLength: true}
	element.Ref.Init(fc, nil)
	fc.Init(nil, nil)
	return fc
}

// Element returns the element field class of a StaticArray or
// DynamicArray.
func (fc *FieldClass) Element() *FieldClass { return fc.element }

// Length returns a StaticArray's fixed length.
func (fc *FieldClass) Length() uint64 { return fc.length }

// LengthPath returns a DynamicArray's length field path.
func (fc *FieldClass) LengthPath() FieldPath { return fc.lengthPath }

// NewOptionFieldClass returns an Option field class wrapping content,
// present only when selectorPath's boolean/enum field selects it.
func NewOptionFieldClass(content *FieldClass, selectorPath FieldPath) *FieldClass {
	fc := &FieldClass{kind: KindOption, content: content, selectorPath: selectorPath, hasSelector: true}
	content.Ref.Init(fc, nil)
	fc.Init(nil, nil)
	return fc
}

// Content returns an Option's wrapped field class.
func (fc *FieldClass) Content() *FieldClass { return fc.content }

// SelectorPath returns an Option's or Variant's selector field path.
func (fc *FieldClass) SelectorPath() FieldPath { return fc.selectorPath }

// NewVariantFieldClass returns an empty Variant field class; options are
// added with AppendOption.
func NewVariantFieldClass(selectorPath FieldPath) *FieldClass {
	fc := &FieldClass{kind: KindVariant, selectorPath: selectorPath, hasSelector: true}
	fc.Init(nil, nil)
	return fc
}

// AppendOption adds a (name, FieldClass, selector_range) option to a
// Variant field class.
func (fc *FieldClass) AppendOption(name string, option *FieldClass, selRange Range) error {
	if fc.kind != KindVariant {
		return fmt.Errorf("traceir: AppendOption requires a variant field class")
	}
	if fc.frozen {
		return errFrozenFieldClass("AppendOption")
	}
	for _, o := range fc.options {
		if o.Name == name {
			return fmt.Errorf("traceir: duplicate variant option %q", name)
		}
	}
	option.Ref.Init(fc, nil)
	fc.options = append(fc.options, VariantOption{Name: name, Class: option, SelectorRange: selRange})
	return nil
}

// Options returns a Variant's options in declaration order.
func (fc *FieldClass) Options() []VariantOption { return fc.options }

// Kind reports fc's discriminant.
func (fc *FieldClass) Kind() FieldClassKind { return fc.kind }

// Width reports an Integer field class's bit width.
func (fc *FieldClass) Width() uint { return fc.width }

// IsSigned reports an Integer field class's signedness.
func (fc *FieldClass) IsSigned() bool { return fc.signedInt }

// Base reports an Integer field class's preferred display base.
func (fc *FieldClass) Base() IntegerBase { return fc.base }

// SinglePrecision reports whether a Real field class is single (vs double)
// precision.
func (fc *FieldClass) SinglePrecision() bool { return fc.singlePrecision }

// Frozen reports whether fc has been frozen.
func (fc *FieldClass) Frozen() bool { return fc.frozen }

// freeze recursively marks fc and its descendants frozen. Called only from
// TraceClass validation, after cycle/visibility checks pass.
func (fc *FieldClass) freeze() {
	if fc.frozen {
		return
	}
	fc.frozen = true
	switch fc.kind {
	case KindStructure:
		for _, m := range fc.members {
			m.Class.freeze()
		}
	case KindStaticArray, KindDynamicArray:
		fc.element.freeze()
	case KindOption:
		fc.content.freeze()
	case KindVariant:
		for _, o := range fc.options {
			o.Class.freeze()
		}
	}
}

func errFrozenFieldClass(op string) error {
	return fmt.Errorf("traceir: %s on frozen field class", op)
}
