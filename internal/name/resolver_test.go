package name

import "testing"

func TestResolveUniqueViaImport(t *testing.T) {
	r := NewResolver()
	r.Declare(KindValue, New("Std", "List", "map"))
	r.Declare(KindValue, New("Std", "Array", "map"))
	r.Import(Import{Module: New("Std", "List"), Symbols: []string{"map"}})

	got, err := r.Resolve(KindValue, New("map"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "Std::List::map" {
		t.Fatalf("expected Std::List::map, got %s", got)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	r := NewResolver()
	r.Declare(KindValue, New("Std", "List", "map"))
	r.Declare(KindValue, New("Std", "Array", "map"))
	r.Import(Import{Module: New("Std", "List")})
	r.Import(Import{Module: New("Std", "Array")})

	_, err := r.Resolve(KindValue, New("map"))
	if err == nil {
		t.Fatalf("expected ambiguous name error")
	}
}

func TestResolveUnknown(t *testing.T) {
	r := NewResolver()
	_, err := r.Resolve(KindValue, New("nope"))
	if err == nil {
		t.Fatalf("expected unknown name error")
	}
}

func TestResolveHiding(t *testing.T) {
	r := NewResolver()
	r.Declare(KindValue, New("Std", "List", "map"))
	r.Import(Import{Module: New("Std", "List"), Hiding: []string{"map"}})

	_, err := r.Resolve(KindValue, New("map"))
	if err == nil {
		t.Fatalf("expected unknown name error when hidden")
	}
}

func TestResolveIdempotent(t *testing.T) {
	r := NewResolver()
	full := New("Std", "List", "map")
	r.Declare(KindValue, full)
	r.Import(Import{Module: New("Std", "List")})

	got1, err := r.Resolve(KindValue, full)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got2, err := r.Resolve(KindValue, got1)
	if err != nil {
		t.Fatalf("unexpected error on second resolve: %v", err)
	}
	if !got1.Equals(got2) {
		t.Fatalf("resolution was not idempotent: %s vs %s", got1, got2)
	}
}

func TestNameNFCNormalization(t *testing.T) {
	precomposed := "café"         // e-acute as one code point (NFC)
	decomposed := "café"         // e + combining acute accent (NFD)
	nfc := New(precomposed)
	nfd := New(decomposed)
	if !nfc.Equals(nfd) {
		t.Fatalf("expected NFC and NFD forms to normalize to the same name, got %q vs %q", nfc, nfd)
	}
}
