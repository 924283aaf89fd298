package rest

import (
	"net/http"
	"openrate/core"
	"openrate/handler/param"
	"openrate/handler/render"
	"openrate/handler/views"

	"github.com/go-chi/chi"
	"github.com/spf13/cast"
)

func initializeMarketHandler(ledgers core.ILedgerStore, ledgerSrv core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			AssetID string `json:"asset_id" valid:"uuid,required"`
			TraceID string `json:"trace_id" valid:"uuid"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		market, vault, err := ledgerSrv.InitializeMarket(r.Context(), &core.InitializeMarketInput{
			AssetID:   params.AssetID,
			Authority: caller(r),
			TraceID:   params.TraceID,
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.MarketView(market, vault, findAsset(r.Context(), ledgers.Assets(), market.AssetID)))
	}
}

func allMarketsHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		markets, err := ledgers.Markets().All(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		marketViews := make([]views.Market, 0, len(markets))
		for _, m := range markets {
			vault, err := ledgers.Vaults().Find(ctx, m.VaultID)
			if err != nil {
				render.Error(w, err)
				return
			}

			marketViews = append(marketViews, views.MarketView(m, vault, findAsset(ctx, ledgers.Assets(), m.AssetID)))
		}

		render.JSON(w, marketViews)
	}
}

func marketHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		market, err := ledgers.Markets().Find(ctx, chi.URLParam(r, "id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		vault, err := ledgers.Vaults().Find(ctx, market.VaultID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.MarketView(market, vault, findAsset(ctx, ledgers.Assets(), market.AssetID)))
	}
}

func marketBidsHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		market, err := ledgers.Markets().Find(ctx, chi.URLParam(r, "id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		bids, err := ledgers.Bids().List(ctx, core.BidQuery{
			MarketID:   market.ID,
			Lender:     r.URL.Query().Get("lender"),
			ActiveOnly: cast.ToBool(r.URL.Query().Get("active")),
			Limit:      limitOf(r),
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.BidViews(bids, findAsset(ctx, ledgers.Assets(), market.AssetID)))
	}
}

func auditHandler(auditSrv core.IAuditService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := auditSrv.Audit(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{
			"report":  report,
			"healthy": report.Healthy(),
		})
	}
}
