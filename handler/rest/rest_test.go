package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"openrate/core"
	"openrate/pkg/id"
	"openrate/service/audit"
	"openrate/service/custody"
	"openrate/service/ledger"
	"openrate/store/memory"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type api struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T, admin string) *api {
	store := memory.New()
	custodySrv := custody.New()
	cfg := &core.Config{Admins: []string{admin}}

	return &api{
		t:       t,
		handler: Handle(cfg, store, ledger.New(store, custodySrv), custodySrv, audit.New(store)),
	}
}

func (a *api) do(method, path, caller string, body interface{}, out interface{}) int {
	var buf bytes.Buffer
	if body != nil {
		require.Nil(a.t, json.NewEncoder(&buf).Encode(body))
	}

	r := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		r.Header.Set("X-Caller-ID", caller)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, r)

	if out != nil {
		require.Nil(a.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}

	return w.Code
}

type errResp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func TestLendingFlow(t *testing.T) {
	admin, lender, borrower, authority := id.GenTraceID(), id.GenTraceID(), id.GenTraceID(), id.GenTraceID()
	asset := id.GenTraceID()
	a := newAPI(t, admin)

	assetBody := map[string]interface{}{"id": asset, "symbol": "USDC", "decimals": 2}
	assert.Equal(t, http.StatusForbidden, a.do("POST", "/assets", lender, assetBody, nil))
	assert.Equal(t, http.StatusOK, a.do("POST", "/assets", admin, assetBody, nil))

	var lenderAccount, borrowerAccount core.CustodyAccount
	require.Equal(t, http.StatusOK, a.do("POST", "/accounts", lender, map[string]string{"asset_id": asset}, &lenderAccount))
	require.Equal(t, http.StatusOK, a.do("POST", "/accounts", borrower, map[string]string{"asset_id": asset}, &borrowerAccount))
	assert.Equal(t, lender, lenderAccount.Owner)

	deposit := map[string]interface{}{"amount": 100000, "trace_id": id.GenTraceID()}
	require.Equal(t, http.StatusOK, a.do("POST", "/accounts/"+lenderAccount.ID+"/deposit", admin, deposit, nil))

	var market core.Market
	require.Equal(t, http.StatusOK, a.do("POST", "/markets", authority, map[string]string{"asset_id": asset}, &market))
	assert.Equal(t, asset, market.AssetID)

	var e errResp
	assert.Equal(t, http.StatusConflict, a.do("POST", "/markets", authority, map[string]string{"asset_id": asset}, &e))
	assert.Equal(t, int(core.ErrDuplicateMarket), e.Code)

	var bid struct {
		core.BidOrder
		Unfilled uint64 `json:"unfilled"`
	}
	placeBid := map[string]interface{}{
		"market_id":      market.ID,
		"source_account": lenderAccount.ID,
		"amount":         60000,
		"rate_bps":       250,
		"trace_id":       id.GenTraceID(),
	}
	require.Equal(t, http.StatusOK, a.do("POST", "/bids", lender, placeBid, &bid))
	assert.EqualValues(t, 60000, bid.Unfilled)
	assert.Equal(t, http.StatusUnauthorized, a.do("POST", "/bids", "", placeBid, nil))

	var borrow core.BorrowRecord
	borrowBody := map[string]interface{}{
		"bid_id":              bid.ID,
		"destination_account": borrowerAccount.ID,
		"amount":              40000,
		"trace_id":            id.GenTraceID(),
	}
	require.Equal(t, http.StatusOK, a.do("POST", "/borrows", borrower, borrowBody, &borrow))
	assert.EqualValues(t, 40000, borrow.Principal)

	borrowBody["amount"] = 30000
	borrowBody["trace_id"] = id.GenTraceID()
	assert.Equal(t, http.StatusPreconditionFailed, a.do("POST", "/borrows", borrower, borrowBody, &e))
	assert.Equal(t, int(core.ErrInsufficientBidLiquidity), e.Code)

	require.Equal(t, http.StatusOK, a.do("GET", "/bids/"+bid.ID, "", nil, &bid))
	assert.EqualValues(t, 20000, bid.Unfilled)

	repay := map[string]string{"source_account": borrowerAccount.ID}
	assert.Equal(t, http.StatusForbidden, a.do("POST", "/borrows/"+borrow.ID+"/repay", lender, repay, &e))
	assert.Equal(t, int(core.ErrUnauthorizedBorrower), e.Code)
	require.Equal(t, http.StatusOK, a.do("POST", "/borrows/"+borrow.ID+"/repay", borrower, repay, &borrow))
	assert.True(t, borrow.Repaid)

	var report struct {
		Report  core.AuditReport `json:"report"`
		Healthy bool             `json:"healthy"`
	}
	require.Equal(t, http.StatusOK, a.do("GET", "/markets/"+market.ID+"/audit", "", nil, &report))
	assert.True(t, report.Healthy)
	assert.EqualValues(t, 60000, report.Report.Balance)

	cancel := map[string]string{"destination_account": lenderAccount.ID}
	require.Equal(t, http.StatusOK, a.do("POST", "/bids/"+bid.ID+"/cancel", lender, cancel, &bid))
	assert.True(t, bid.Cancelled)

	var account core.CustodyAccount
	require.Equal(t, http.StatusOK, a.do("GET", "/accounts/"+lenderAccount.ID, "", nil, &account))
	assert.EqualValues(t, 100000, account.Balance)

	var owned []core.CustodyAccount
	require.Equal(t, http.StatusOK, a.do("GET", "/accounts?owner="+lender, "", nil, &owned))
	require.Len(t, owned, 1)
	assert.Equal(t, lenderAccount.ID, owned[0].ID)

	var ops []*core.Operation
	require.Equal(t, http.StatusOK, a.do("GET", "/operations?market="+market.ID, "", nil, &ops))
	assert.Len(t, ops, 5)
}

func TestBadRequests(t *testing.T) {
	a := newAPI(t, id.GenTraceID())
	caller := id.GenTraceID()

	var e errResp
	assert.Equal(t, http.StatusBadRequest, a.do("POST", "/bids", caller, map[string]string{"market_id": "nope"}, &e))
	assert.Equal(t, int(core.ErrInvalidArgument), e.Code)

	assert.Equal(t, http.StatusUnauthorized, a.do("GET", "/markets", "not-a-uuid", nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do("GET", "/markets/"+id.GenTraceID(), "", nil, &e))
	assert.Equal(t, int(core.ErrMarketNotFound), e.Code)
	assert.Equal(t, http.StatusNotFound, a.do("GET", "/nope", "", nil, nil))

	assert.Equal(t, http.StatusBadRequest, a.do("GET", "/accounts", "", nil, &e))
	assert.Equal(t, int(core.ErrInvalidArgument), e.Code)
}
