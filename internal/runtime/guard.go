package runtime

import (
	"oran-lang/internal/ast"
	"oran-lang/internal/span"
)

// checkMutable decides whether an assignment of the given declaration kind to
// name may proceed in scope. It only reads the store.
//
// A reassignment needs an existing, non-constant binding in the same scope.
// Fresh and constant declarations are always permitted and replace whatever
// was bound before.
func checkMutable(store *Store, scope int, name string, decl ast.DeclKind, s span.Span) error {
	if decl != ast.Reassign {
		return nil
	}
	existing, ok := store.Get(scope, ValueBinding, name)
	if !ok {
		return runtimeErr(UndeclaredReassignment, s, "cannot assign to '%s' before it is declared", name)
	}
	if b, isBound := existing.(*BoundVal); isBound && b.Decl == ast.Constant {
		return runtimeErr(ConstantReassignment, s, "cannot reassign constant '%s'", name)
	}
	return nil
}
