package util

import (
	"os"
	"testing"
)

func TestParseBoolEnv(t *testing.T) {
	cases := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"No", true, false},
		{"off", true, false},
		{"", true, true},
		{"", false, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			const key = "HABITPULSE_TEST_BOOL"
			if tc.value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, tc.value)
				defer os.Unsetenv(key)
			}
			if got := ParseBoolEnv(key, tc.defaultValue); got != tc.want {
				t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tc.value, tc.defaultValue, got, tc.want)
			}
		})
	}
}

func TestParseHourEnv(t *testing.T) {
	cases := []struct {
		value        string
		defaultValue int
		want         int
	}{
		{"0", 9, 0},
		{"7", 9, 7},
		{"23", 9, 23},
		{" 12 ", 9, 12},
		{"24", 9, 9},
		{"-1", 9, 9},
		{"noon", 9, 9},
		{"", 9, 9},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			const key = "HABITPULSE_TEST_HOUR"
			if tc.value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, tc.value)
				defer os.Unsetenv(key)
			}
			if got := ParseHourEnv(key, tc.defaultValue); got != tc.want {
				t.Errorf("ParseHourEnv(%q, %d) = %d, want %d", tc.value, tc.defaultValue, got, tc.want)
			}
		})
	}
}
