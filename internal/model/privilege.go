package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "sale:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Sale"
}

// Privilege codes checked by the route guards.
const (
	PrivUserView            = "user:view"
	PrivUserCreate          = "user:create"
	PrivUserUpdate          = "user:update"
	PrivUserDelete          = "user:delete"
	PrivUserUpdatePrivilege = "user:update_privilege"
	PrivProductView         = "product:view"
	PrivProductCreate       = "product:create"
	PrivProductUpdate       = "product:update"
	PrivProductDelete       = "product:delete"
	PrivSaleView            = "sale:view"
	PrivSaleCreate          = "sale:create"
	PrivSaleUpdate          = "sale:update"
	PrivSaleDelete          = "sale:delete"
	PrivCustomerView        = "customer:view"
	PrivCustomerManage      = "customer:manage"
	PrivCategoryManage      = "category:manage"
	PrivSupplierManage      = "supplier:manage"
	PrivReportView          = "report:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	{Code: PrivUserDelete, Name: "Delete User"},
	{Code: PrivUserUpdatePrivilege, Name: "Update User Privileges"},
	// Product management
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	// Sales
	{Code: PrivSaleView, Name: "View Sale"},
	{Code: PrivSaleCreate, Name: "Create Sale"},
	{Code: PrivSaleUpdate, Name: "Update Sale"},
	{Code: PrivSaleDelete, Name: "Delete Sale"},
	// Directory
	{Code: PrivCustomerView, Name: "View Customer"},
	{Code: PrivCustomerManage, Name: "Manage Customers"},
	{Code: PrivCategoryManage, Name: "Manage Categories"},
	{Code: PrivSupplierManage, Name: "Manage Suppliers"},
	// Reports
	{Code: PrivReportView, Name: "View Reports"},
}
