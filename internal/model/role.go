package model

import "strings"

// Staff role codes
const (
	StaffRoleOwner   = "owner"
	StaffRoleManager = "manager"
	StaffRoleSeller  = "seller"
	StaffRoleViewer  = "viewer"
)

// Role describes a staff role and the product actions it grants
type Role struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Actions     []Action `json:"actions"`
}

// DefaultRoles is the fixed role table used by the permission resolver
var DefaultRoles = []Role{
	{
		Code:        StaffRoleOwner,
		Name:        "Owner",
		Description: "Full product access",
		Actions:     []Action{ActionProductCreate, ActionProductUpdate, ActionProductDelete, ActionProductView},
	},
	{
		Code:        StaffRoleManager,
		Name:        "Manager",
		Description: "Full product access",
		Actions:     []Action{ActionProductCreate, ActionProductUpdate, ActionProductDelete, ActionProductView},
	},
	{
		Code:        StaffRoleSeller,
		Name:        "Seller",
		Description: "Can create, edit and view products",
		Actions:     []Action{ActionProductCreate, ActionProductUpdate, ActionProductView},
	},
	{
		Code:        StaffRoleViewer,
		Name:        "Viewer",
		Description: "Read-only product access",
		Actions:     []Action{ActionProductView},
	},
}

// FindRole looks a role up case-insensitively
func FindRole(code string) (*Role, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for i := range DefaultRoles {
		if DefaultRoles[i].Code == code {
			return &DefaultRoles[i], true
		}
	}
	return nil, false
}

// Grants checks if the role carries a specific action
func (r *Role) Grants(action Action) bool {
	for _, a := range r.Actions {
		if a == action {
			return true
		}
	}
	return false
}
