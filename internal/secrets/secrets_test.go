package secrets

import (
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	box, err := New("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := box.Seal("buyer@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if sealed == "buyer@example.com" {
		t.Fatal("Seal returned the plaintext")
	}
	plain, err := box.Open(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if plain != "buyer@example.com" {
		t.Fatalf("round trip mismatch: %q", plain)
	}
}

func TestSealIsNondeterministic(t *testing.T) {
	box, _ := New("k")
	a, _ := box.Seal("same input")
	b, _ := box.Seal("same input")
	if a == b {
		t.Fatal("two seals of the same input must differ")
	}
}

func TestEmptyStringPassesThrough(t *testing.T) {
	box, _ := New("k")
	sealed, err := box.Seal("")
	if err != nil || sealed != "" {
		t.Fatalf("Seal(\"\") = %q, %v", sealed, err)
	}
	plain, err := box.Open("")
	if err != nil || plain != "" {
		t.Fatalf("Open(\"\") = %q, %v", plain, err)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	box, _ := New("k")
	for _, sealed := range []string{"not base64!!", "YWJj", "YQ=="} {
		if _, err := box.Open(sealed); !errors.Is(err, ErrBadCiphertext) {
			t.Errorf("Open(%q): want ErrBadCiphertext, got %v", sealed, err)
		}
	}
}

func TestOpenWithWrongKey(t *testing.T) {
	a, _ := New("key-a")
	b, _ := New("key-b")
	sealed, err := a.Seal("buyer@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Open(sealed); !errors.Is(err, ErrBadCiphertext) {
		t.Fatalf("want ErrBadCiphertext, got %v", err)
	}
}

func TestNewRejectsEmptyKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("want error for empty passphrase")
	}
}
