// Package policy decides whether a principal may perform an order operation.
// Every check is a pure function of the principal and the resource owner;
// an anonymous principal is always denied.
package policy

import "github.com/Skotchmaster/inventory_system/pkg/principal"

// OwnerOrAdmin allows admins unconditionally and users only on their own
// resources.
func OwnerOrAdmin(p principal.Principal, ownerID int64) bool {
	if !p.Authenticated() {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	return p.UserID == ownerID
}

func CanCreateOrder(p principal.Principal) bool {
	return p.Authenticated()
}

func CanReadOrder(p principal.Principal, ownerID int64) bool {
	return OwnerOrAdmin(p, ownerID)
}

func CanListOrders(p principal.Principal, targetUserID int64) bool {
	return OwnerOrAdmin(p, targetUserID)
}

func CanUpdateStatus(p principal.Principal) bool {
	return p.IsAdmin()
}

func CanDeleteOrder(p principal.Principal, ownerID int64) bool {
	return OwnerOrAdmin(p, ownerID)
}

// CanViewHistory treats a nil target as "every user", which only admins may
// request.
func CanViewHistory(p principal.Principal, targetUserID *int64) bool {
	if targetUserID == nil {
		return p.IsAdmin()
	}
	return OwnerOrAdmin(p, *targetUserID)
}

// CanManageCatalog covers product and supplier writes.
func CanManageCatalog(p principal.Principal) bool {
	return p.IsAdmin()
}

func CanReadCatalog(p principal.Principal) bool {
	return p.Authenticated()
}
