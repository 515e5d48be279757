package cache

import (
	"strings"
	"testing"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key("what is this about", []uint{1, 2, 3})
	b := Key("what is this about", []uint{1, 2, 3})
	if a != b {
		t.Fatalf("same inputs produced %q and %q", a, b)
	}
}

func TestKeyDistinguishesInputs(t *testing.T) {
	base := Key("what is this about", []uint{1, 2})

	if Key("what is this", []uint{1, 2}) == base {
		t.Fatal("different queries must not share a key")
	}
	if Key("what is this about", []uint{1, 3}) == base {
		t.Fatal("different document sets must not share a key")
	}
	if Key("what is this about", []uint{2, 1}) == base {
		t.Fatal("document order is part of the context identity")
	}
}

func TestKeyNamespace(t *testing.T) {
	key := Key("q", nil)
	if !strings.HasPrefix(key, "query:answer:") {
		t.Fatalf("key %q outside the invalidation namespace", key)
	}
}
