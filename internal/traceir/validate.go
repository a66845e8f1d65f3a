package traceir

import "fmt"

// validateFieldClassTree walks fc in depth-first pre-order, rejecting
// cycles and checking that every dynamic-array length path, option
// selector path, and variant selector path resolves to a preceding sibling
// already visible in this scope, per spec sections 3 and 4.3.
//
// seen accumulates the FieldPaths of fully-validated structure members in
// this scope so far, in visitation order; ancestors tracks the field
// classes currently on the DFS stack for cycle detection.
func validateFieldClassTree(fc *FieldClass, scope ScopeRoot, path []int, seen *[]FieldPath) error {
	return validateFieldClassTreeRec(fc, scope, path, seen, map[*FieldClass]bool{})
}

func validateFieldClassTreeRec(fc *FieldClass, scope ScopeRoot, path []int, seen *[]FieldPath, ancestors map[*FieldClass]bool) error {
	if ancestors[fc] {
		return fmt.Errorf("traceir: cycle detected in field class DAG at %s%v", scope, path)
	}
	ancestors[fc] = true
	defer delete(ancestors, fc)

	localSeen := seen
	if localSeen == nil {
		localSeen = &[]FieldPath{}
	}

	switch fc.kind {
	case KindBool, KindInteger, KindReal, KindString:
		return nil

	case KindStructure:
		for i, m := range fc.members {
			childPath := append(append([]int{}, path...), i)
			if err := validateFieldClassTreeRec(m.Class, scope, childPath, localSeen, ancestors); err != nil {
				return err
			}
			*localSeen = append(*localSeen, FieldPath{Scope: scope, Indexes: childPath})
		}
		return nil

	case KindStaticArray:
		childPath := append(append([]int{}, path...), 0)
		return validateFieldClassTreeRec(fc.element, scope, childPath, localSeen, ancestors)

	case KindDynamicArray:
		if err := checkPrecedingSibling(fc.lengthPath, scope, path, *localSeen); err != nil {
			return fmt.Errorf("traceir: dynamic array length path: %w", err)
		}
		childPath := append(append([]int{}, path...), 0)
		return validateFieldClassTreeRec(fc.element, scope, childPath, localSeen, ancestors)

	case KindOption:
		if err := checkPrecedingSibling(fc.selectorPath, scope, path, *localSeen); err != nil {
			return fmt.Errorf("traceir: option selector path: %w", err)
		}
		childPath := append(append([]int{}, path...), 0)
		return validateFieldClassTreeRec(fc.content, scope, childPath, localSeen, ancestors)

	case KindVariant:
		if err := checkPrecedingSibling(fc.selectorPath, scope, path, *localSeen); err != nil {
			return fmt.Errorf("traceir: variant selector path: %w", err)
		}
		if err := validateVariantDisjoint(fc); err != nil {
			return err
		}
		for i, opt := range fc.options {
			childPath := append(append([]int{}, path...), i)
			if err := validateFieldClassTreeRec(opt.Class, scope, childPath, localSeen, ancestors); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("traceir: unknown field class kind %d", fc.kind)
	}
}

// checkPrecedingSibling verifies target resolves to a path that has
// already been fully visited (a preceding sibling in the depth-first
// pre-order traversal of the containing scope), per spec section 4.3.
func checkPrecedingSibling(target FieldPath, scope ScopeRoot, currentPath []int, seen []FieldPath) error {
	if target.Scope != scope {
		// A path into an outer, already-frozen scope (e.g. an event
		// payload field referencing an event-common-context field) is
		// always visible: outer scopes are fully built before inner ones
		// are validated.
		return nil
	}
	for _, s := range seen {
		if s.equal(target) {
			return nil
		}
	}
	return fmt.Errorf("path %s does not resolve to a preceding sibling (current position %s%v)", target, scope, currentPath)
}

// validateVariantDisjoint checks that a variant's options have disjoint
// selector ranges, required when the selector is integral.
func validateVariantDisjoint(fc *FieldClass) error {
	for i := 0; i < len(fc.options); i++ {
		for j := i + 1; j < len(fc.options); j++ {
			a, b := fc.options[i].SelectorRange, fc.options[j].SelectorRange
			if a.Low <= b.High && b.Low <= a.High {
				return fmt.Errorf("traceir: variant options %q and %q have overlapping selector ranges", fc.options[i].Name, fc.options[j].Name)
			}
		}
	}
	return nil
}
