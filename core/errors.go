package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrBidInactive the bid is closed or fully filled
	ErrBidInactive ErrorCode = 6000 + iota
	// ErrInsufficientBidLiquidity borrow exceeds the bid's unfilled amount
	ErrInsufficientBidLiquidity
	// ErrNoFundsToWithdraw nothing left to withdraw from the bid
	ErrNoFundsToWithdraw
	// ErrInvalidAssetBinding account asset does not match the market asset
	ErrInvalidAssetBinding
	// ErrInvalidVaultAuthority derived vault authority does not match the vault binding
	ErrInvalidVaultAuthority
	// ErrUnauthorizedBorrower caller is not the borrower of the record
	ErrUnauthorizedBorrower
	// ErrAlreadyRepaid the loan is closed
	ErrAlreadyRepaid
	// ErrMathError integer overflow or underflow
	ErrMathError
	// ErrDuplicateMarket market already initialized for the asset
	ErrDuplicateMarket
	// ErrUnauthorizedLender caller is not the lender of the bid
	ErrUnauthorizedLender
	// ErrInvalidAmount amount must be positive
	ErrInvalidAmount
	// ErrMarketNotFound no market
	ErrMarketNotFound
	// ErrBidNotFound no bid
	ErrBidNotFound
	// ErrBorrowNotFound no borrow record
	ErrBorrowNotFound
	// ErrBidMismatch the bid is not the one the loan was funded from
	ErrBidMismatch
	// ErrDuplicateTrace trace id already used
	ErrDuplicateTrace
	// ErrInsufficientFunds custody account balance too low
	ErrInsufficientFunds
	// ErrAccountNotFound no custody account
	ErrAccountNotFound
	// ErrUnauthorizedTransfer authority does not own the debited account
	ErrUnauthorizedTransfer
	// ErrAssetNotFound asset not registered
	ErrAssetNotFound
	// ErrInvalidArgument invalid argument
	ErrInvalidArgument
)

var errorNames = map[ErrorCode]string{
	ErrBidInactive:              "BidInactive",
	ErrInsufficientBidLiquidity: "InsufficientBidLiquidity",
	ErrNoFundsToWithdraw:        "NoFundsToWithdraw",
	ErrInvalidAssetBinding:      "InvalidAssetBinding",
	ErrInvalidVaultAuthority:    "InvalidVaultAuthority",
	ErrUnauthorizedBorrower:     "UnauthorizedBorrower",
	ErrAlreadyRepaid:            "AlreadyRepaid",
	ErrMathError:                "MathError",
	ErrDuplicateMarket:          "DuplicateMarket",
	ErrUnauthorizedLender:       "UnauthorizedLender",
	ErrInvalidAmount:            "InvalidAmount",
	ErrMarketNotFound:           "MarketNotFound",
	ErrBidNotFound:              "BidNotFound",
	ErrBorrowNotFound:           "BorrowNotFound",
	ErrBidMismatch:              "BidMismatch",
	ErrDuplicateTrace:           "DuplicateTrace",
	ErrInsufficientFunds:        "InsufficientFunds",
	ErrAccountNotFound:          "AccountNotFound",
	ErrUnauthorizedTransfer:     "UnauthorizedTransfer",
	ErrAssetNotFound:            "AssetNotFound",
	ErrInvalidArgument:          "InvalidArgument",
}

// Code numeric code as string
func (e ErrorCode) Code() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) String() string {
	if name, ok := errorNames[e]; ok {
		return name
	}

	return e.Code()
}

func (e ErrorCode) Error() string {
	return e.String()
}
