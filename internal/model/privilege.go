package model

// Privilege codes carried in operator tokens
const (
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivProductDelete = "product:delete"
	PrivStockAdjust   = "stock:adjust"
	PrivSaleView      = "sale:view"
	PrivDashboardView = "dashboard:view"
)

// DefaultPrivileges is granted to tokens minted without an explicit list
var DefaultPrivileges = []string{
	PrivProductCreate,
	PrivProductUpdate,
	PrivProductDelete,
	PrivStockAdjust,
	PrivSaleView,
	PrivDashboardView,
}
