package access

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{name: "viewer", input: "viewer", want: RoleViewer},
		{name: "engineer", input: "engineer", want: RoleEngineer},
		{name: "admin", input: "admin", want: RoleAdmin},
		{name: "unknown role", input: "root", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "case sensitive", input: "Admin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRole(%q) expected error, got nil", tt.input)
				}
				if !errors.Is(err, ErrUnknownRole) {
					t.Errorf("ParseRole(%q) error = %v, want ErrUnknownRole", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRole(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleCovers(t *testing.T) {
	tests := []struct {
		name     string
		caller   Role
		required Role
		want     bool
	}{
		{name: "viewer sees viewer docs", caller: RoleViewer, required: RoleViewer, want: true},
		{name: "viewer blocked from engineer docs", caller: RoleViewer, required: RoleEngineer, want: false},
		{name: "viewer blocked from admin docs", caller: RoleViewer, required: RoleAdmin, want: false},
		{name: "engineer sees viewer docs", caller: RoleEngineer, required: RoleViewer, want: true},
		{name: "engineer sees engineer docs", caller: RoleEngineer, required: RoleEngineer, want: true},
		{name: "engineer blocked from admin docs", caller: RoleEngineer, required: RoleAdmin, want: false},
		{name: "admin sees everything", caller: RoleAdmin, required: RoleAdmin, want: true},
		{name: "admin sees viewer docs", caller: RoleAdmin, required: RoleViewer, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.caller.Covers(tt.required); got != tt.want {
				t.Errorf("%v.Covers(%v) = %v, want %v", tt.caller, tt.required, got, tt.want)
			}
		})
	}
}

func TestRoleString(t *testing.T) {
	if RoleEngineer.String() != "engineer" {
		t.Errorf("RoleEngineer.String() = %q, want %q", RoleEngineer.String(), "engineer")
	}
	if Role(42).String() != "role(42)" {
		t.Errorf("Role(42).String() = %q, want %q", Role(42).String(), "role(42)")
	}
}
