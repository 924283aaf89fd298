package codes

import (
	"errors"
	"openrate/core"
	"strconv"

	"github.com/fox-one/pkg/store/db"
	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"
)

var twirpCodes = map[core.ErrorCode]twirp.ErrorCode{
	core.ErrMarketNotFound:  twirp.NotFound,
	core.ErrBidNotFound:     twirp.NotFound,
	core.ErrBorrowNotFound:  twirp.NotFound,
	core.ErrAccountNotFound: twirp.NotFound,
	core.ErrAssetNotFound:   twirp.NotFound,

	core.ErrInvalidAmount:       twirp.InvalidArgument,
	core.ErrInvalidArgument:     twirp.InvalidArgument,
	core.ErrInvalidAssetBinding: twirp.InvalidArgument,
	core.ErrBidMismatch:         twirp.InvalidArgument,

	core.ErrBidInactive:              twirp.FailedPrecondition,
	core.ErrInsufficientBidLiquidity: twirp.FailedPrecondition,
	core.ErrNoFundsToWithdraw:        twirp.FailedPrecondition,
	core.ErrAlreadyRepaid:            twirp.FailedPrecondition,
	core.ErrInsufficientFunds:        twirp.FailedPrecondition,
	core.ErrInvalidVaultAuthority:    twirp.FailedPrecondition,

	core.ErrUnauthorizedBorrower: twirp.PermissionDenied,
	core.ErrUnauthorizedLender:   twirp.PermissionDenied,
	core.ErrUnauthorizedTransfer: twirp.PermissionDenied,

	core.ErrDuplicateMarket: twirp.AlreadyExists,
	core.ErrDuplicateTrace:  twirp.AlreadyExists,

	core.ErrMathError: twirp.Internal,
}

// Twirp convert err to a twirp error carrying the ledger code
func Twirp(err error) twirp.Error {
	var twerr twirp.Error
	if errors.As(err, &twerr) {
		return twerr
	}

	var code core.ErrorCode
	if errors.As(err, &code) {
		c, ok := twirpCodes[code]
		if !ok {
			c = twirp.Internal
		}

		return twirp.NewError(c, code.String()).WithMeta(CustomCodeKey, code.Code())
	}

	if errors.Is(err, db.ErrOptimisticLock) {
		return twirp.NewError(twirp.Aborted, "concurrent update, retry")
	}

	return twirp.InternalErrorWith(err)
}

// Get http status and response code of err
func Get(err error) (int, int) {
	twerr := Twirp(err)
	status := twirp.ServerHTTPStatusFromErrorCode(twerr.Code())

	if v := twerr.Meta(CustomCodeKey); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			return status, code
		}
	}

	return status, status
}
