package validator

import (
	"errors"
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

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"9876543210", "+919876543210", "98765-43210", "+91 98765 43210"}
	invalid := []string{"", "12345", "phone", "+91-98765-4321a", "1234567890123456"}
	for _, p := range valid {
		if !IsValidPhoneNumber(p) {
			t.Errorf("IsValidPhoneNumber(%q) = false, want true", p)
		}
	}
	for _, p := range invalid {
		if IsValidPhoneNumber(p) {
			t.Errorf("IsValidPhoneNumber(%q) = true, want false", p)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", "", "2023/01/01"}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

type sampleRequest struct {
	Name     string   `json:"name" validate:"required,min=2"`
	Email    string   `json:"email" validate:"required,email"`
	Phone    string   `json:"phone" validate:"omitempty,phone"`
	Role     string   `json:"role" validate:"omitempty,oneof=employee admin"`
	Latitude *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
}

func TestStruct_Valid(t *testing.T) {
	lat := 21.87
	req := sampleRequest{Name: "Ravi", Email: "ravi@example.com", Phone: "+919876543210", Role: "employee", Latitude: &lat}
	if err := Struct(req); err != nil {
		t.Errorf("Struct(valid) = %v, want nil", err)
	}
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	lat := 95.0
	req := sampleRequest{Name: "R", Email: "nope", Phone: "12", Role: "owner", Latitude: &lat}

	err := Struct(req)

	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Struct() error = %T, want ValidationErrors", err)
	}
	got := errs.ToMap()
	for _, field := range []string{"name", "email", "phone", "role", "latitude"} {
		if _, ok := got[field]; !ok {
			t.Errorf("missing validation detail for %q in %v", field, got)
		}
	}
	if got["name"] != "name must be at least 2 characters" {
		t.Errorf("name message = %q", got["name"])
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}
	if errs.Error() != "a: bad; b: worse" {
		t.Errorf("Error() = %q", errs.Error())
	}
}
