package rest

import (
	"net/http"
	"openrate/core"
	"openrate/handler/param"
	"openrate/handler/render"
	"time"
)

func assetsHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assets, err := ledgers.Assets().All(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, assets)
	}
}

func saveAssetHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			ID       string `json:"id" valid:"uuid,required"`
			Symbol   string `json:"symbol" valid:"required"`
			Decimals int32  `json:"decimals" valid:"range(0|18)"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		asset := &core.Asset{
			ID:        params.ID,
			Symbol:    params.Symbol,
			Decimals:  params.Decimals,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}

		if err := ledgers.Assets().Save(r.Context(), asset); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, asset)
	}
}
