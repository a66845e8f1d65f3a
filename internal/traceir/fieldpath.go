package traceir

import "fmt"

// ScopeRoot identifies which root field class a FieldPath is relative to,
// per spec section 3's field-path definition.
type ScopeRoot int

const (
	ScopePacketHeader ScopeRoot = iota
	ScopePacketContext
	ScopeEventHeader
	ScopeEventCommonContext
	ScopeEventSpecificContext
	ScopeEventPayload
)

func (s ScopeRoot) String() string {
	switch s {
	case ScopePacketHeader:
		return "packet_header"
	case ScopePacketContext:
		return "packet_context"
	case ScopeEventHeader:
		return "event_header"
	case ScopeEventCommonContext:
		return "event_common_context"
	case ScopeEventSpecificContext:
		return "event_specific_context"
	case ScopeEventPayload:
		return "event_payload"
	default:
		return "unknown_scope"
	}
}

// FieldPath is (scope_root, [index...]): a root scope plus a list of
// indexes stepping into structures/variants/arrays, per spec section 3.
type FieldPath struct {
	Scope   ScopeRoot
	Indexes []int
}

func (p FieldPath) equal(other FieldPath) bool {
	if p.Scope != other.Scope || len(p.Indexes) != len(other.Indexes) {
		return false
	}
	for i := range p.Indexes {
		if p.Indexes[i] != other.Indexes[i] {
			return false
		}
	}
	return true
}

func (p FieldPath) String() string {
	return fmt.Sprintf("%s%v", p.Scope, p.Indexes)
}

// ResolveMemberPath walks root (expected to be a Structure) following the
// named members in names, returning the index-list FieldPath relative to
// scope. It implements the textual-path half of spec section 4.3's path
// resolution: "given a field class context, a textual ... path resolves to
// a (scope, indexes) triple".
func ResolveMemberPath(root *FieldClass, scope ScopeRoot, names []string) (FieldPath, error) {
	indexes := make([]int, 0, len(names))
	cur := root
	for _, name := range names {
		if cur.kind != KindStructure {
			return FieldPath{}, fmt.Errorf("traceir: path element %q: not a structure", name)
		}
		idx := -1
		for i, m := range cur.members {
			if m.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return FieldPath{}, fmt.Errorf("traceir: path element %q: no such member", name)
		}
		indexes = append(indexes, idx)
		cur = cur.members[idx].Class
	}
	return FieldPath{Scope: scope, Indexes: indexes}, nil
}
