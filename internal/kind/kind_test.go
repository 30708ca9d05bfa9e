package kind

import (
	"testing"

	"github.com/sunholo/fixcore/internal/name"
)

func TestArityAndResult(t *testing.T) {
	k := Arrow{From: Star{}, To: Arrow{From: Star{}, To: Star{}}}
	if Arity(k) != 2 {
		t.Fatalf("expected arity 2, got %d", Arity(k))
	}
	res, err := Result(k, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Equals(Star{}) {
		t.Fatalf("expected Star result, got %s", res)
	}
	if _, err := Result(k, 3); err == nil {
		t.Fatalf("expected error for over-application")
	}
}

func TestScopeInsertMismatch(t *testing.T) {
	s := NewScope()
	if err := s.Insert("a", Star{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Insert("a", Star{}); err != nil {
		t.Fatalf("re-inserting identical kind should not error: %v", err)
	}
	if err := s.Insert("a", Arrow{From: Star{}, To: Star{}}); err == nil {
		t.Fatalf("expected KindMismatch for conflicting insert")
	}
}

func TestEnvDeclareTyConMismatch(t *testing.T) {
	e := NewEnv()
	intName := name.New("Int")
	if err := e.DeclareTyCon(intName, Star{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.DeclareTyCon(intName, Arrow{From: Star{}, To: Star{}}); err == nil {
		t.Fatalf("expected KindMismatch on conflicting re-declaration")
	}
}
