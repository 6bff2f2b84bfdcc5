package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"sku":          true,
	"name":         true,
	"category":     true,
	"price":        true,
	"stock":        true,
	"min_stock":    true,
	"average_cost": true,
}

// CashSessionSortFields contains allowed sort fields for cash sessions
var CashSessionSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"opened_at":      true,
	"closed_at":      true,
	"status":         true,
	"opening_amount": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"customer":   true,
	"total":      true,
	"status":     true,
}

// EmployeeSortFields contains allowed sort fields for employees
var EmployeeSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"position":    true,
	"base_salary": true,
}

// PayrollSortFields contains allowed sort fields for payroll records
var PayrollSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"employee_id": true,
	"period":      true,
	"amount":      true,
	"status":      true,
	"paid_at":     true,
}

// ProviderSortFields contains allowed sort fields for providers
var ProviderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"contact":    true,
	"email":      true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"number":      true,
	"provider_id": true,
	"total":       true,
	"status":      true,
}

// AccountPayableSortFields contains allowed sort fields for accounts payable
var AccountPayableSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"provider_id": true,
	"order_id":    true,
	"amount":      true,
	"due_date":    true,
	"status":      true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"name":          true,
	"role":          true,
	"last_login_at": true,
}

// AuditEntrySortFields contains allowed sort fields for audit entries
var AuditEntrySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"action":     true,
	"entity":     true,
}
