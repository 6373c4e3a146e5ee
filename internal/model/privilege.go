package model

// Action is a permission code checked against a store
type Action string

const (
	ActionProductView   Action = "products.view"
	ActionProductCreate Action = "products.create"
	ActionProductUpdate Action = "products.update"
	ActionProductDelete Action = "products.delete"
)

// Privilege pairs an action with a human readable name
type Privilege struct {
	Code Action `json:"code"`
	Name string `json:"name"`
}

// DefaultPrivileges lists every action known to the resolver
var DefaultPrivileges = []Privilege{
	{Code: ActionProductView, Name: "View Product"},
	{Code: ActionProductCreate, Name: "Create Product"},
	{Code: ActionProductUpdate, Name: "Update Product"},
	{Code: ActionProductDelete, Name: "Delete Product"},
}
