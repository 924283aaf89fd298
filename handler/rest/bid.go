package rest

import (
	"net/http"
	"openrate/core"
	"openrate/handler/param"
	"openrate/handler/render"
	"openrate/handler/views"

	"github.com/go-chi/chi"
)

func placeBidHandler(ledgers core.ILedgerStore, ledgerSrv core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			MarketID      string `json:"market_id" valid:"uuid,required"`
			SourceAccount string `json:"source_account" valid:"uuid,required"`
			Amount        uint64 `json:"amount"`
			RateBps       uint16 `json:"rate_bps"`
			TraceID       string `json:"trace_id" valid:"uuid,required"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		bid, err := ledgerSrv.PlaceBid(r.Context(), &core.PlaceBidInput{
			Lender:        caller(r),
			SourceAccount: params.SourceAccount,
			MarketID:      params.MarketID,
			Amount:        params.Amount,
			RateBps:       params.RateBps,
			TraceID:       params.TraceID,
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.BidView(bid, marketAsset(r.Context(), ledgers, bid.MarketID)))
	}
}

func bidHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bid, err := ledgers.Bids().Find(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.BidView(bid, marketAsset(r.Context(), ledgers, bid.MarketID)))
	}
}

type withdrawParams struct {
	DestinationAccount string `json:"destination_account" valid:"uuid,required"`
	TraceID            string `json:"trace_id" valid:"uuid"`
}

func withdrawHandler(ledgers core.ILedgerStore, withdraw func(r *http.Request, input *core.WithdrawInput) (*core.BidOrder, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params withdrawParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		bid, err := withdraw(r, &core.WithdrawInput{
			Lender:             caller(r),
			DestinationAccount: params.DestinationAccount,
			BidID:              chi.URLParam(r, "id"),
			TraceID:            params.TraceID,
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.BidView(bid, marketAsset(r.Context(), ledgers, bid.MarketID)))
	}
}

func cancelBidHandler(ledgers core.ILedgerStore, ledgerSrv core.ILedgerService) http.HandlerFunc {
	return withdrawHandler(ledgers, func(r *http.Request, input *core.WithdrawInput) (*core.BidOrder, error) {
		return ledgerSrv.CancelBid(r.Context(), input)
	})
}

func reclaimHandler(ledgers core.ILedgerStore, ledgerSrv core.ILedgerService) http.HandlerFunc {
	return withdrawHandler(ledgers, func(r *http.Request, input *core.WithdrawInput) (*core.BidOrder, error) {
		return ledgerSrv.ReclaimRepaid(r.Context(), input)
	})
}
