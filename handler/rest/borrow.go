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

func borrowCreateHandler(ledgers core.ILedgerStore, ledgerSrv core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			BidID              string `json:"bid_id" valid:"uuid,required"`
			DestinationAccount string `json:"destination_account" valid:"uuid,required"`
			Amount             uint64 `json:"amount"`
			TraceID            string `json:"trace_id" valid:"uuid,required"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		borrow, err := ledgerSrv.Borrow(r.Context(), &core.BorrowInput{
			Borrower:           caller(r),
			DestinationAccount: params.DestinationAccount,
			BidID:              params.BidID,
			Amount:             params.Amount,
			TraceID:            params.TraceID,
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.BorrowView(borrow, marketAsset(r.Context(), ledgers, borrow.MarketID)))
	}
}

func repayHandler(ledgers core.ILedgerStore, ledgerSrv core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			SourceAccount string `json:"source_account" valid:"uuid,required"`
			BidID         string `json:"bid_id" valid:"uuid"`
			TraceID       string `json:"trace_id" valid:"uuid"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		borrow, err := ledgerSrv.Repay(r.Context(), &core.RepayInput{
			Borrower:      caller(r),
			SourceAccount: params.SourceAccount,
			BorrowID:      chi.URLParam(r, "id"),
			BidID:         params.BidID,
			TraceID:       params.TraceID,
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.BorrowView(borrow, marketAsset(r.Context(), ledgers, borrow.MarketID)))
	}
}

func borrowHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		borrow, err := ledgers.Borrows().Find(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.BorrowView(borrow, marketAsset(r.Context(), ledgers, borrow.MarketID)))
	}
}

func borrowsHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()
		borrows, err := ledgers.Borrows().List(ctx, core.BorrowQuery{
			Borrower: query.Get("borrower"),
			BidID:    query.Get("bid"),
			OpenOnly: cast.ToBool(query.Get("open")),
			Limit:    limitOf(r),
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		assets := make(map[string]*core.Asset)
		borrowViews := make([]views.Borrow, 0, len(borrows))
		for _, b := range borrows {
			asset, ok := assets[b.MarketID]
			if !ok {
				asset = marketAsset(ctx, ledgers, b.MarketID)
				assets[b.MarketID] = asset
			}

			borrowViews = append(borrowViews, views.BorrowView(b, asset))
		}

		render.JSON(w, borrowViews)
	}
}
