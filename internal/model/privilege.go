package model

// Privilege codes carried in access tokens and checked by route guards.
const (
	PrivSaleCreate      = "sale:create"
	PrivTransactionView = "transaction:view"
	PrivProductView     = "product:view"
	PrivProductCreate   = "product:create"
	PrivProductUpdate   = "product:update"
	PrivStoreView       = "store:view"
	PrivStoreCreate     = "store:create"
)

// Privilege represents a permission that can be granted through a role
type Privilege struct {
	Code string `json:"code"` // e.g., "sale:create"
	Name string `json:"name"` // e.g., "Create Sale"
}

// DefaultPrivileges lists every privilege the API knows about
var DefaultPrivileges = []Privilege{
	// Sales
	{Code: PrivSaleCreate, Name: "Create Sale"},
	{Code: PrivTransactionView, Name: "View Transaction"},
	// Catalog
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product / Restock"},
	// Stores
	{Code: PrivStoreView, Name: "View Store"},
	{Code: PrivStoreCreate, Name: "Create Store"},
}
