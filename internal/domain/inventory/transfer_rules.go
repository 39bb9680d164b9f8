package inventory

import (
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TransferAction acciones sobre un traspaso.
type TransferAction string

const (
	ActionCreate   TransferAction = "create"
	ActionDispatch TransferAction = "dispatch"
	ActionConfirm  TransferAction = "confirm"
	ActionCancel   TransferAction = "cancel"
	ActionReject   TransferAction = "reject"
)

var transitions = map[TransferAction]struct {
	from []entity.TransferStatus
	to   entity.TransferStatus
}{
	ActionDispatch: {from: []entity.TransferStatus{entity.TransferStatusPendiente}, to: entity.TransferStatusEnTransito},
	ActionConfirm:  {from: []entity.TransferStatus{entity.TransferStatusPendiente, entity.TransferStatusEnTransito}, to: entity.TransferStatusRecibido},
	ActionCancel:   {from: []entity.TransferStatus{entity.TransferStatusPendiente, entity.TransferStatusEnTransito}, to: entity.TransferStatusCancelado},
	ActionReject:   {from: []entity.TransferStatus{entity.TransferStatusPendiente, entity.TransferStatusEnTransito}, to: entity.TransferStatusRechazado},
}

// NextStatus devuelve el estado destino de aplicar action sobre current.
func NextStatus(current entity.TransferStatus, action TransferAction) (entity.TransferStatus, error) {
	if action == ActionCreate {
		return entity.TransferStatusPendiente, nil
	}
	t, ok := transitions[action]
	if !ok {
		return current, domain.ErrInvalidInput
	}
	for _, from := range t.from {
		if from == current {
			return t.to, nil
		}
	}
	return current, domain.ErrInvalidTransition
}

// Authorize aplica la regla de negocio por sede: el administrador puede todo; el actor de la
// sede origen crea, despacha y cancela; el de la sede destino confirma y rechaza.
func Authorize(actor entity.Actor, action TransferAction, originSiteID, destinationSiteID string) error {
	if actor.IsAdmin() {
		return nil
	}
	switch action {
	case ActionCreate, ActionDispatch, ActionCancel:
		if actor.AtSite(originSiteID) {
			return nil
		}
	case ActionConfirm, ActionReject:
		if actor.AtSite(destinationSiteID) {
			return nil
		}
	}
	return domain.ErrForbidden
}
