package rbac_test

import (
	"testing"

	"github.com/excel-with-hussain/excel-lms/internal/rbac"
)

func TestDefaultPolicy(t *testing.T) {
	c := rbac.NewChecker(nil)

	cases := []struct {
		role string
		perm string
		want bool
	}{
		{"student", "catalog:view", true},
		{"student", "attempt:create", true},
		{"student", "certificate:generate", true},
		{"student", "catalog:edit", false},
		{"student", "users:manage", false},
		{"admin", "catalog:edit", true},
		{"admin", "users:manage", true},
		{"admin", "anything:at-all", true},
		{"", "catalog:view", false},
		{"unknown", "catalog:view", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestPrefixWildcard(t *testing.T) {
	c := rbac.NewChecker(map[string][]string{
		"editor": {"catalog:*"},
	})
	if !c.Has("editor", "catalog:edit") {
		t.Fatalf("catalog:* should grant catalog:edit")
	}
	if c.Has("editor", "users:manage") {
		t.Fatalf("catalog:* must not grant users:manage")
	}
}

func TestAny(t *testing.T) {
	c := rbac.NewChecker(nil)
	if !c.Any("student", "users:manage", "progress:view-own") {
		t.Fatalf("Any should pass when one permission matches")
	}
	if c.Any("student", "users:manage", "catalog:edit") {
		t.Fatalf("Any should fail when no permission matches")
	}
}
