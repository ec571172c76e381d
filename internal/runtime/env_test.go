package runtime

import (
	"oran-lang/internal/ast"
	"oran-lang/internal/span"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreInsertGet(t *testing.T) {
	s := NewStore()
	s.Insert(0, ValueBinding, "x", NumberVal(1))
	s.Insert(0, FunctionBinding, "x", &FuncVal{Name: "x"})

	v, ok := s.Get(0, ValueBinding, "x")
	if !ok || v != NumberVal(1) {
		t.Errorf("value binding: got %v, %v", v, ok)
	}
	f, ok := s.Get(0, FunctionBinding, "x")
	if !ok || f.(*FuncVal).Name != "x" {
		t.Errorf("function binding: got %v, %v", f, ok)
	}
	if _, ok := s.Get(1, ValueBinding, "x"); ok {
		t.Error("scope 1 should not see scope 0 bindings")
	}

	s.Insert(0, ValueBinding, "x", NumberVal(2))
	if v, _ := s.Get(0, ValueBinding, "x"); v != NumberVal(2) {
		t.Errorf("insert should replace, got %v", v)
	}
	if s.Len(0) != 2 {
		t.Errorf("expected 2 bindings, got %d", s.Len(0))
	}
}

func TestStorePurgeKeepsAncestors(t *testing.T) {
	s := NewStore()
	s.Insert(0, ValueBinding, "a", NumberVal(0))
	one := s.Push()
	s.Insert(one, ValueBinding, "a", NumberVal(1))
	two := s.Push()
	s.Insert(two, ValueBinding, "a", NumberVal(2))

	if one != 1 || two != 2 || s.Depth() != 2 {
		t.Fatalf("unexpected scope ids %d, %d (depth %d)", one, two, s.Depth())
	}

	s.Purge(two)
	if _, ok := s.Get(two, ValueBinding, "a"); ok {
		t.Error("scope 2 binding survived purge")
	}
	if v, _ := s.Get(one, ValueBinding, "a"); v != NumberVal(1) {
		t.Errorf("scope 1 binding corrupted: %v", v)
	}
	if v, _ := s.Get(0, ValueBinding, "a"); v != NumberVal(0) {
		t.Errorf("scope 0 binding corrupted: %v", v)
	}
	if s.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", s.Depth())
	}
}

func TestStorePurgeTopLevel(t *testing.T) {
	s := NewStore()
	s.Insert(0, ValueBinding, "a", NumberVal(0))
	s.Purge(0)
	if s.Depth() != 0 || s.Len(0) != 0 {
		t.Errorf("expected an empty top-level frame, depth %d len %d", s.Depth(), s.Len(0))
	}
}

func TestStoreEnterDiscardsStaleFrame(t *testing.T) {
	s := NewStore()
	s.Insert(1, ValueBinding, "stale", NullVal{})
	if got := s.Enter(1); got != 1 {
		t.Fatalf("expected scope 1, got %d", got)
	}
	if s.Len(1) != 0 {
		t.Errorf("expected a fresh frame, got %d bindings", s.Len(1))
	}
}

func TestStoreLookupWalksOutward(t *testing.T) {
	s := NewStore()
	s.Insert(0, FunctionBinding, "f", &FuncVal{Name: "top"})
	s.Push()
	s.Push()
	s.Insert(1, FunctionBinding, "f", &FuncVal{Name: "mid"})

	v, at, ok := s.Lookup(2, FunctionBinding, "f")
	if !ok || at != 1 || v.(*FuncVal).Name != "mid" {
		t.Errorf("expected nearest definition at scope 1, got %v at %d", v, at)
	}
	s.Purge(1)
	v, at, ok = s.Lookup(2, FunctionBinding, "f")
	if !ok || at != 0 || v.(*FuncVal).Name != "top" {
		t.Errorf("expected top-level definition, got %v at %d", v, at)
	}
	if _, _, ok := s.Lookup(0, FunctionBinding, "g"); ok {
		t.Error("unexpected binding for g")
	}
}

func TestStoreNames(t *testing.T) {
	s := NewStore()
	s.Insert(0, ValueBinding, "b", NullVal{})
	s.Insert(0, ValueBinding, "a", NullVal{})
	s.Insert(0, FunctionBinding, "f", &FuncVal{Name: "f"})

	if diff := cmp.Diff([]string{"a", "b"}, s.Names(0, ValueBinding)); diff != "" {
		t.Errorf("value names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"f"}, s.Names(0, FunctionBinding)); diff != "" {
		t.Errorf("function names (-want +got):\n%s", diff)
	}
	if got := s.Names(5, ValueBinding); got != nil {
		t.Errorf("expected no names for a missing scope, got %v", got)
	}
}

func TestCheckMutable(t *testing.T) {
	s := NewStore()
	s.Insert(0, ValueBinding, "c", &BoundVal{Decl: ast.Constant, Name: "c", Inner: NumberVal(1)})
	s.Insert(0, ValueBinding, "v", &BoundVal{Decl: ast.Fresh, Name: "v", Inner: NumberVal(1)})
	s.Insert(0, ValueBinding, "r", &BoundVal{Decl: ast.Reassign, Name: "r", Inner: NumberVal(1)})

	tests := []struct {
		name    string
		decl    ast.DeclKind
		wantErr bool
		kind    ErrorKind
	}{
		{"c", ast.Reassign, true, ConstantReassignment},
		{"c", ast.Fresh, false, 0},
		{"c", ast.Constant, false, 0},
		{"v", ast.Reassign, false, 0},
		{"r", ast.Reassign, false, 0},
		{"missing", ast.Reassign, true, UndeclaredReassignment},
		{"missing", ast.Fresh, false, 0},
		{"missing", ast.Constant, false, 0},
	}
	for _, tt := range tests {
		err := checkMutable(s, 0, tt.name, tt.decl, span.Span{})
		if (err != nil) != tt.wantErr {
			t.Errorf("%s %s: unexpected result %v", tt.decl, tt.name, err)
			continue
		}
		if tt.wantErr && !IsKind(err, tt.kind) {
			t.Errorf("%s %s: expected %s, got %v", tt.decl, tt.name, tt.kind, err)
		}
	}

	// constants are per scope: a deeper scope has no binding for c
	if err := checkMutable(s, 1, "c", ast.Reassign, span.Span{}); !IsKind(err, UndeclaredReassignment) {
		t.Errorf("expected UndeclaredReassignment at scope 1, got %v", err)
	}
}
