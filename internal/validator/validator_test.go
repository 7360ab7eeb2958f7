package validator

import "testing"

func TestValidateUsername(t *testing.T) {
	valid := []string{"abc", "frugal_fred", "User123"}
	for _, u := range valid {
		if err := ValidateUsername(u); err != nil {
			t.Errorf("expected %q to be valid, got %v", u, err)
		}
	}
	invalid := []string{"", "ab", "has space", "dots.are.bad", "../escape", "waytoolong_waytoolong_waytoolong"}
	for _, u := range invalid {
		if err := ValidateUsername(u); err != ErrInvalidUsername {
			t.Errorf("expected %q to be rejected, got %v", u, err)
		}
	}
}

func TestValidateMonthID(t *testing.T) {
	valid := []string{"2024-01", "2024-12", "1999-06"}
	for _, m := range valid {
		if err := ValidateMonthID(m); err != nil {
			t.Errorf("expected %q to be valid, got %v", m, err)
		}
	}
	invalid := []string{"", "2024-13", "2024-00", "2024-1", "24-01", "2024/01", "2024-01-15"}
	for _, m := range invalid {
		if err := ValidateMonthID(m); err != ErrInvalidMonthID {
			t.Errorf("expected %q to be rejected, got %v", m, err)
		}
	}
}

func TestValidateDay(t *testing.T) {
	for _, d := range []int{1, 15, 31} {
		if err := ValidateDay(d); err != nil {
			t.Errorf("expected day %d to be valid, got %v", d, err)
		}
	}
	for _, d := range []int{0, -1, 32} {
		if err := ValidateDay(d); err != ErrInvalidDay {
			t.Errorf("expected day %d to be rejected, got %v", d, err)
		}
	}
}
