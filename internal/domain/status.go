// internal/domain/status.go
package domain

import "fmt"

// Переходы статусов выполняет только пользователь, автоматических нет.
var transitions = map[RecordKind]map[Status][]Status{
	KindExpense: {
		StatusPending: {StatusPaid},
	},
	KindPurchaseOrder: {
		StatusScheduled: {StatusSent, StatusReceived},
		StatusSent:      {StatusReceived},
	},
	KindCommission: {
		StatusPending: {StatusLiquidated},
	},
}

var initialStatuses = map[RecordKind][]Status{
	KindExpense:       {StatusPending, StatusPaid},
	KindPurchaseOrder: {StatusScheduled, StatusSent, StatusReceived},
	KindCommission:    {StatusPending, StatusLiquidated},
}

// ValidStatus reports whether s belongs to the status set of kind.
func ValidStatus(kind RecordKind, s Status) bool {
	for _, st := range initialStatuses[kind] {
		if st == s {
			return true
		}
	}
	return false
}

// DefaultStatus is the status a new record gets when none is given.
func DefaultStatus(kind RecordKind, method SendingMethod) Status {
	switch kind {
	case KindExpense:
		return StatusPaid
	case KindPurchaseOrder:
		if method == SendReminder {
			return StatusScheduled
		}
		return StatusSent
	default:
		return StatusPending
	}
}

// CheckTransition returns ErrInvalidTransition unless from → to is allowed for kind.
// Staying in the same status is always allowed.
func CheckTransition(kind RecordKind, from, to Status) error {
	if !ValidStatus(kind, to) {
		return fmt.Errorf("%w: %q is not a %s status", ErrInvalidTransition, to, kind)
	}
	if from == to {
		return nil
	}
	for _, next := range transitions[kind][from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, kind, from, to)
}

// DefaultCategory returns the category used when a record is created without one.
func DefaultCategory(kind RecordKind) string {
	switch kind {
	case KindPurchaseOrder:
		return CategoryPurchase
	case KindCommission:
		return CategoryCommission
	default:
		return CategoryOther
	}
}

// Summary renders the purchase-order headline: first item plus how many more.
func (d PurchaseOrderDetails) Summary() string {
	switch len(d.Items) {
	case 0:
		return ""
	case 1:
		return d.Items[0].Name
	default:
		return fmt.Sprintf("%s y %d más...", d.Items[0].Name, len(d.Items)-1)
	}
}

// TotalQty sums item quantities.
func (d PurchaseOrderDetails) TotalQty() int {
	total := 0
	for _, it := range d.Items {
		total += it.Qty
	}
	return total
}
