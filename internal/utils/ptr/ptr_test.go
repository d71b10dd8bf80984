package ptr

import "testing"

func TestTo(t *testing.T) {
	s := "ACGT"
	p := To(s)
	if p == nil || *p != s {
		t.Fatalf("To(%q) = %v", s, p)
	}
	if p == &s {
		t.Error("Expected different address")
	}
}

func TestNonZero(t *testing.T) {
	if NonZero("") != nil {
		t.Error("NonZero(\"\") should be nil")
	}
	if NonZero(0) != nil {
		t.Error("NonZero(0) should be nil")
	}
	if p := NonZero("bc-1"); p == nil || *p != "bc-1" {
		t.Errorf("NonZero(bc-1) = %v", p)
	}
}

func TestDeref(t *testing.T) {
	var nilString *string
	if got := Deref(nilString); got != "" {
		t.Errorf("Deref(nil) = %q", got)
	}
	if got := Deref(To(3)); got != 3 {
		t.Errorf("Deref(3) = %d", got)
	}
	if got := DerefOr(nilString, "-"); got != "-" {
		t.Errorf("DerefOr(nil) = %q", got)
	}
	if got := DerefOr(To("A01"), "-"); got != "A01" {
		t.Errorf("DerefOr(A01) = %q", got)
	}
}
