package rest

import (
	"net/http"
	"openrate/core"
	"openrate/handler/render"

	"github.com/spf13/cast"
)

func operationsHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		ops, err := ledgers.Operations().List(r.Context(), core.OperationQuery{
			UserID:   query.Get("user"),
			MarketID: query.Get("market"),
			FromID:   cast.ToInt64(query.Get("from")),
			Limit:    limitOf(r),
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, ops)
	}
}
