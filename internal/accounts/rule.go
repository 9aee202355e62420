package accounts

import (
	"fmt"

	"github.com/mrDinkelman185/FINCo/internal/types"
)

// ActiveAccountRule is a validation rule that rejects orders for unknown or
// non-active accounts. It appends to the default validation chain, showing
// how richer compliance checks extend the gate without touching the order
// lifecycle manager.
type ActiveAccountRule struct {
	db *Database
}

func NewActiveAccountRule(db *Database) *ActiveAccountRule {
	return &ActiveAccountRule{db: db}
}

func (r *ActiveAccountRule) Name() string { return "active_account" }

func (r *ActiveAccountRule) Validate(req *types.OrderRequest) error {
	account, err := r.db.GetAccount(req.AccountID)
	if err != nil {
		return &types.ValidationError{
			Reason:  types.ReasonAccountNotTradable,
			Message: fmt.Sprintf("account %d does not exist", req.AccountID),
		}
	}
	if account.Status != types.AccountStatusActive {
		return &types.ValidationError{
			Reason:  types.ReasonAccountNotTradable,
			Message: fmt.Sprintf("account %d is %s", req.AccountID, account.Status),
		}
	}
	return nil
}
