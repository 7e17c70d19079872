// Package policy decide quais papéis podem executar cada operação.
package policy

import (
	"fmt"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
)

// Capability identifica uma operação protegida.
type Capability string

const (
	SubmitRequest Capability = "submit_request"
	ViewRequests  Capability = "view_requests"
	ApplyDelivery Capability = "apply_delivery"
	RevertRequest Capability = "revert_request"
	RegisterItem  Capability = "register_item"
	AdjustStock   Capability = "adjust_stock"
	SetMinimum    Capability = "set_minimum"
	ManageUsers   Capability = "manage_users"
	ViewReports   Capability = "view_reports"
)

var grants = map[domain.UserRole]map[Capability]bool{
	domain.RoleAdmin: {
		SubmitRequest: true, ViewRequests: true, ApplyDelivery: true,
		RevertRequest: true, RegisterItem: true, AdjustStock: true,
		SetMinimum: true, ManageUsers: true, ViewReports: true,
	},
	domain.RoleAlmox: {
		SubmitRequest: true, ViewRequests: true, ApplyDelivery: true,
		RegisterItem: true, AdjustStock: true, ViewReports: true,
	},
	domain.RoleSolicitante: {
		SubmitRequest: true, ViewRequests: true, ViewReports: true,
	},
}

// Allows informa se o papel possui a capacidade.
func Allows(role domain.UserRole, c Capability) bool {
	return grants[role][c]
}

// Authorize devolve ForbiddenError quando o ator não possui a capacidade.
func Authorize(actor domain.Actor, c Capability) error {
	if Allows(actor.Role, c) {
		return nil
	}
	return apperror.NewForbiddenError(fmt.Sprintf("papel %s não pode executar %s", actor.Role, c))
}
