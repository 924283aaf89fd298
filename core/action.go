package core

// ActionType ledger transition kind
type ActionType int

const (
	_ ActionType = iota
	// ActionTypeInitializeMarket create market and vault
	ActionTypeInitializeMarket
	// ActionTypePlaceBid lender deposits a bid
	ActionTypePlaceBid
	// ActionTypeBorrow borrower draws from a bid
	ActionTypeBorrow
	// ActionTypeRepay borrower returns the principal
	ActionTypeRepay
	// ActionTypeCancelBid lender withdraws unfilled liquidity
	ActionTypeCancelBid
	// ActionTypeReclaimRepaid lender withdraws principal repaid after cancel
	ActionTypeReclaimRepaid
	// ActionTypeDeposit admin credit on a custody account
	ActionTypeDeposit
)

var actionNames = map[ActionType]string{
	ActionTypeInitializeMarket: "initialize_market",
	ActionTypePlaceBid:         "place_bid",
	ActionTypeBorrow:           "borrow",
	ActionTypeRepay:            "repay",
	ActionTypeCancelBid:        "cancel_bid",
	ActionTypeReclaimRepaid:    "reclaim_repaid",
	ActionTypeDeposit:          "deposit",
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	return "unknown"
}

// ParseActionType parse action name, zero if unknown
func ParseActionType(name string) ActionType {
	for a, n := range actionNames {
		if n == name {
			return a
		}
	}

	return 0
}
