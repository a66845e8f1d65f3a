package traceir

import "fmt"

// Field is a concrete value instance matching a FieldClass's shape, per
// spec section 3. CreateField zero-initializes a Field whose structural
// shape mirrors its class; set_* mutators only work while the field is
// mutable (owned by an event/packet under construction).
type Field struct {
	class *FieldClass

	b   bool
	i   int64
	u   uint64
	r   float64
	s   string

	elements []*Field // Structure members / StaticArray,DynamicArray elements
	optSet   bool      // Option: whether content is present
	variant  int       // Variant: index of the active option, -1 if unset

	mutable bool
}

// CreateField returns a zero-initialized, mutable field whose structural
// shape matches fc.
func CreateField(fc *FieldClass) *Field {
	f := &Field{class: fc, mutable: true, variant: -1}
	switch fc.kind {
	case KindStructure:
		f.elements = make([]*Field, len(fc.members))
		for i, m := range fc.members {
			f.elements[i] = CreateField(m.Class)
		}
	case KindStaticArray:
		f.elements = make([]*Field, fc.length)
		for i := range f.elements {
			f.elements[i] = CreateField(fc.element)
		}
	case KindDynamicArray:
		f.elements = nil // length determined at runtime via SetDynamicArrayLength
	case KindOption:
		f.elements = []*Field{CreateField(fc.content)}
		f.optSet = false
	case KindVariant:
		f.elements = make([]*Field, len(fc.options))
		for i, o := range fc.options {
			f.elements[i] = CreateField(o.Class)
		}
	}
	return f
}

// Class returns the field's field class.
func (f *Field) Class() *FieldClass { return f.class }

// Mutable reports whether the field accepts set_* mutators.
func (f *Field) Mutable() bool { return f.mutable }

// Freeze marks f (and transitively its elements) read-only; called when
// the owning event/packet is emitted in a message.
func (f *Field) Freeze() {
	f.mutable = false
	for _, e := range f.elements {
		if e != nil {
			e.Freeze()
		}
	}
}

// Reset restores f to its zero-initialized shape and makes it mutable
// again, for event-pool recycling (spec section 4.3): fields are reset,
// not deallocated.
func (f *Field) Reset() {
	f.mutable = true
	f.b, f.i, f.u, f.r, f.s = false, 0, 0, 0, ""
	f.optSet = false
	f.variant = -1
	switch f.class.kind {
	case KindDynamicArray:
		f.elements = nil
	default:
		for _, e := range f.elements {
			if e != nil {
				e.Reset()
			}
		}
	}
}

func (f *Field) requireMutable(op string) error {
	if !f.mutable {
		return fmt.Errorf("traceir: %s on frozen field", op)
	}
	return nil
}

// SetBool sets a Bool field's value.
func (f *Field) SetBool(v bool) error {
	if f.class.kind != KindBool {
		return fmt.Errorf("traceir: SetBool on non-bool field")
	}
	if err := f.requireMutable("SetBool"); err != nil {
		return err
	}
	f.b = v
	return nil
}

// Bool returns a Bool field's value.
func (f *Field) Bool() bool { return f.b }

// SetSignedInteger sets an Integer field's value as signed.
func (f *Field) SetSignedInteger(v int64) error {
	if f.class.kind != KindInteger || !f.class.signedInt {
		return fmt.Errorf("traceir: SetSignedInteger on non-signed-integer field")
	}
	if err := f.requireMutable("SetSignedInteger"); err != nil {
		return err
	}
	f.i = v
	return nil
}

// SignedInteger returns an Integer field's signed value.
func (f *Field) SignedInteger() int64 { return f.i }

// SetUnsignedInteger sets an Integer field's value as unsigned.
func (f *Field) SetUnsignedInteger(v uint64) error {
	if f.class.kind != KindInteger || f.class.signedInt {
		return fmt.Errorf("traceir: SetUnsignedInteger on non-unsigned-integer field")
	}
	if err := f.requireMutable("SetUnsignedInteger"); err != nil {
		return err
	}
	f.u = v
	return nil
}

// UnsignedInteger returns an Integer field's unsigned value.
func (f *Field) UnsignedInteger() uint64 { return f.u }

// SetReal sets a Real field's value.
func (f *Field) SetReal(v float64) error {
	if f.class.kind != KindReal {
		return fmt.Errorf("traceir: SetReal on non-real field")
	}
	if err := f.requireMutable("SetReal"); err != nil {
		return err
	}
	f.r = v
	return nil
}

// Real returns a Real field's value.
func (f *Field) Real() float64 { return f.r }

// SetString sets a String field's value.
func (f *Field) SetString(v string) error {
	if f.class.kind != KindString {
		return fmt.Errorf("traceir: SetString on non-string field")
	}
	if err := f.requireMutable("SetString"); err != nil {
		return err
	}
	f.s = v
	return nil
}

// String returns a String field's value.
func (f *Field) String() string { return f.s }

// MemberByIndex returns a Structure field's i'th member field.
func (f *Field) MemberByIndex(i int) *Field {
	if f.class.kind != KindStructure {
		panic("traceir: MemberByIndex on non-structure field")
	}
	return f.elements[i]
}

// MemberByName returns a Structure field's member field by name, and
// whether it exists.
func (f *Field) MemberByName(name string) (*Field, bool) {
	if f.class.kind != KindStructure {
		return nil, false
	}
	for i, m := range f.class.members {
		if m.Name == name {
			return f.elements[i], true
		}
	}
	return nil, false
}

// SetDynamicArrayLength allocates a DynamicArray field's elements; must be
// called before indexing into it.
func (f *Field) SetDynamicArrayLength(length uint64) error {
	if f.class.kind != KindDynamicArray {
		return fmt.Errorf("traceir: SetDynamicArrayLength on non-dynamic-array field")
	}
	if err := f.requireMutable("SetDynamicArrayLength"); err != nil {
		return err
	}
	elements := make([]*Field, length)
	for i := range elements {
		elements[i] = CreateField(f.class.element)
	}
	f.elements = elements
	return nil
}

// ArrayElement returns the i'th element of a StaticArray or DynamicArray
// field.
func (f *Field) ArrayElement(i int) *Field {
	if f.class.kind != KindStaticArray && f.class.kind != KindDynamicArray {
		panic("traceir: ArrayElement on non-array field")
	}
	return f.elements[i]
}

// ArrayLength returns the current number of elements of a StaticArray or
// DynamicArray field.
func (f *Field) ArrayLength() int { return len(f.elements) }

// SetOptionHasValue toggles whether an Option field's content is present.
func (f *Field) SetOptionHasValue(present bool) error {
	if f.class.kind != KindOption {
		return fmt.Errorf("traceir: SetOptionHasValue on non-option field")
	}
	if err := f.requireMutable("SetOptionHasValue"); err != nil {
		return err
	}
	f.optSet = present
	return nil
}

// OptionHasValue reports whether an Option field's content is present.
func (f *Field) OptionHasValue() bool { return f.optSet }

// OptionContent returns an Option field's wrapped content field.
func (f *Field) OptionContent() *Field {
	if f.class.kind != KindOption {
		panic("traceir: OptionContent on non-option field")
	}
	return f.elements[0]
}

// SelectVariantOption selects the active option of a Variant field by
// index.
func (f *Field) SelectVariantOption(index int) error {
	if f.class.kind != KindVariant {
		return fmt.Errorf("traceir: SelectVariantOption on non-variant field")
	}
	if err := f.requireMutable("SelectVariantOption"); err != nil {
		return err
	}
	if index < 0 || index >= len(f.elements) {
		return fmt.Errorf("traceir: variant option index %d out of range", index)
	}
	f.variant = index
	return nil
}

// SelectedVariantOption returns the Variant field's currently active
// option field and index, or (nil, -1) if none selected.
func (f *Field) SelectedVariantOption() (*Field, int) {
	if f.variant < 0 {
		return nil, -1
	}
	return f.elements[f.variant], f.variant
}
