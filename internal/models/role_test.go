// ABOUTME: Tests for the role enumeration and capability table
// ABOUTME: Verifies guests hold nothing and unknown tokens degrade to guest
package models

import "testing"

func TestRole_Can(t *testing.T) {
	tests := []struct {
		name string
		role Role
		cap  Capability
		want bool
	}{
		{"guest cannot search", RoleGuest, CapSearch, false},
		{"guest cannot ingest", RoleGuest, CapIngest, false},
		{"user can search", RoleUser, CapSearch, true},
		{"user cannot ingest", RoleUser, CapIngest, false},
		{"user cannot delete", RoleUser, CapDelete, false},
		{"user cannot reindex", RoleUser, CapReindex, false},
		{"admin can search", RoleAdmin, CapSearch, true},
		{"admin can ingest", RoleAdmin, CapIngest, true},
		{"admin can delete", RoleAdmin, CapDelete, true},
		{"admin can reindex", RoleAdmin, CapReindex, true},
		{"unknown role holds nothing", Role("superuser"), CapSearch, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.Can(tt.cap); got != tt.want {
				t.Errorf("%s.Can(%s) = %v, want %v", tt.role, tt.cap, got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"user", RoleUser},
		{"guest", RoleGuest},
		{"", RoleGuest},
		{"root", RoleGuest},
		{"Admin", RoleGuest},
	}

	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
