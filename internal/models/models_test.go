package models

import (
	"strings"
	"testing"
)

func TestLocaleFromLanguageCode(t *testing.T) {
	cases := []struct {
		code string
		want Locale
	}{
		{"uk", LocaleUK},
		{"uk-UA", LocaleUK},
		{"UK", LocaleUK},
		{"en", LocaleEN},
		{"en-GB", LocaleEN},
		{"de", LocaleEN},
		{"", LocaleEN},
	}
	for _, tc := range cases {
		if got := LocaleFromLanguageCode(tc.code); got != tc.want {
			t.Errorf("LocaleFromLanguageCode(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestHabitValidate(t *testing.T) {
	h := Habit{Name: "Reading"}
	if err := h.Validate(); err != nil {
		t.Errorf("valid habit rejected: %v", err)
	}

	h.Name = ""
	if err := h.Validate(); err != ErrEmptyHabitName {
		t.Errorf("expected ErrEmptyHabitName, got %v", err)
	}

	h.Name = strings.Repeat("a", MaxHabitNameLength+1)
	if err := h.Validate(); err != ErrHabitNameLong {
		t.Errorf("expected ErrHabitNameLong, got %v", err)
	}

	h.Name = strings.Repeat("a", MaxHabitNameLength)
	if err := h.Validate(); err != nil {
		t.Errorf("name at limit rejected: %v", err)
	}
}

func TestUpdateValidate(t *testing.T) {
	u := Update{Text: "hello"}
	if err := u.Validate(); err != ErrNoIdentity {
		t.Errorf("expected ErrNoIdentity for missing sender, got %v", err)
	}
	u.UserID = 42
	if err := u.Validate(); err != nil {
		t.Errorf("update with sender rejected: %v", err)
	}
}

func TestUpdateIsCallback(t *testing.T) {
	u := Update{Text: "hello"}
	if u.IsCallback() {
		t.Error("text update should not be a callback")
	}
	u = Update{CallbackData: "stats_today"}
	if !u.IsCallback() {
		t.Error("callback update not detected")
	}
}
