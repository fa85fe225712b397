package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2026-02-28"); !ok {
		t.Error("IsValidDate(\"2026-02-28\") = false, want true")
	}
	for _, s := range []string{"2026-13-01", "2026-02-30", "28-02-2026", "not-a-date", ""} {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "amount", Message: "must be non-negative"},
		{Field: "name", Message: "is required"},
	}
	m := errs.ToMap()
	if len(m) != 2 || m["amount"] != "must be non-negative" || m["name"] != "is required" {
		t.Errorf("unexpected map: %v", m)
	}
	if errs.Error() == "" {
		t.Error("Error() should join field messages")
	}
}
