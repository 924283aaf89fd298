package rest

import (
	"context"
	"net/http"
	"openrate/core"
	"openrate/handler/render"
	"openrate/handler/request"

	"github.com/go-chi/chi"
	"github.com/spf13/cast"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// Handle handle rest api request
func Handle(
	cfg *core.Config,
	ledgers core.ILedgerStore,
	ledgerSrv core.ILedgerService,
	custodySrv core.ICustodyService,
	auditSrv core.IAuditService,
) http.Handler {
	router := chi.NewRouter()
	router.Use(request.Caller)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFound(w, "not found")
	})

	router.Get("/markets", allMarketsHandler(ledgers))
	router.Get("/markets/{id}", marketHandler(ledgers))
	router.Get("/markets/{id}/bids", marketBidsHandler(ledgers))
	router.Get("/markets/{id}/audit", auditHandler(auditSrv))
	router.Get("/bids/{id}", bidHandler(ledgers))
	router.Get("/borrows", borrowsHandler(ledgers))
	router.Get("/borrows/{id}", borrowHandler(ledgers))
	router.Get("/assets", assetsHandler(ledgers))
	router.Get("/accounts", accountsHandler(ledgers))
	router.Get("/accounts/{id}", accountHandler(ledgers))
	router.Get("/accounts/{id}/transfers", transfersHandler(ledgers))
	router.Get("/operations", operationsHandler(ledgers))

	router.Group(func(r chi.Router) {
		r.Use(request.RequireCaller)

		r.Post("/markets", initializeMarketHandler(ledgers, ledgerSrv))
		r.Post("/bids", placeBidHandler(ledgers, ledgerSrv))
		r.Post("/bids/{id}/cancel", cancelBidHandler(ledgers, ledgerSrv))
		r.Post("/bids/{id}/reclaim", reclaimHandler(ledgers, ledgerSrv))
		r.Post("/borrows", borrowCreateHandler(ledgers, ledgerSrv))
		r.Post("/borrows/{id}/repay", repayHandler(ledgers, ledgerSrv))
		r.Post("/accounts", openAccountHandler(ledgers, custodySrv))

		r.With(request.RequireAdmin(cfg)).Post("/assets", saveAssetHandler(ledgers))
		r.With(request.RequireAdmin(cfg)).Post("/accounts/{id}/deposit", depositHandler(ledgers, custodySrv))
	})

	return router
}

func caller(r *http.Request) string {
	c, _ := request.CallerFrom(r.Context())
	return c
}

func limitOf(r *http.Request) int {
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	if limit <= 0 {
		return defaultLimit
	}

	if limit > maxLimit {
		return maxLimit
	}

	return limit
}

// findAsset asset of the record for decimal views, nil if unknown
func findAsset(ctx context.Context, assets core.IAssetStore, id string) *core.Asset {
	asset, err := assets.Find(ctx, id)
	if err != nil {
		return nil
	}

	return asset
}

func marketAsset(ctx context.Context, session core.Session, marketID string) *core.Asset {
	market, err := session.Markets().Find(ctx, marketID)
	if err != nil {
		return nil
	}

	return findAsset(ctx, session.Assets(), market.AssetID)
}
