package rest

import (
	"net/http"
	"openrate/core"
	"openrate/handler/param"
	"openrate/handler/render"
	"openrate/handler/views"
	"openrate/pkg/id"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/spf13/cast"
)

func openAccountHandler(ledgers core.ILedgerStore, custodySrv core.ICustodyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			AssetID string `json:"asset_id" valid:"uuid,required"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		owner := caller(r)
		accountID, err := id.Account(owner, params.AssetID)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		var (
			account *core.CustodyAccount
			asset   *core.Asset
		)

		err = ledgers.Tx(ctx, func(tx core.Session) error {
			if asset, err = tx.Assets().Find(ctx, params.AssetID); err != nil {
				return err
			}

			account, err = custodySrv.OpenAccount(ctx, tx.Accounts(), accountID, owner, asset.ID)
			return err
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.AccountView(account, asset))
	}
}

func accountHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		account, err := ledgers.Accounts().Find(ctx, chi.URLParam(r, "id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.AccountView(account, findAsset(ctx, ledgers.Assets(), account.AssetID)))
	}
}

func accountsHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		owner := r.URL.Query().Get("owner")
		if !id.Valid(owner) {
			render.Error(w, core.ErrInvalidArgument)
			return
		}

		accounts, err := ledgers.Accounts().ListByOwner(ctx, owner)
		if err != nil {
			render.Error(w, err)
			return
		}

		assets := make(map[string]*core.Asset)
		accountViews := make([]views.Account, 0, len(accounts))
		for _, account := range accounts {
			asset, ok := assets[account.AssetID]
			if !ok {
				asset = findAsset(ctx, ledgers.Assets(), account.AssetID)
				assets[account.AssetID] = asset
			}

			accountViews = append(accountViews, views.AccountView(account, asset))
		}

		render.JSON(w, accountViews)
	}
}

func transfersHandler(ledgers core.ILedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transfers, err := ledgers.Accounts().ListTransfers(r.Context(), core.TransferQuery{
			AccountID: chi.URLParam(r, "id"),
			FromID:    cast.ToInt64(r.URL.Query().Get("from")),
			Limit:     limitOf(r),
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, transfers)
	}
}

func depositHandler(ledgers core.ILedgerStore, custodySrv core.ICustodyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Amount  uint64 `json:"amount"`
			TraceID string `json:"trace_id" valid:"uuid,required"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		var transfer *core.CustodyTransfer
		err := ledgers.Tx(ctx, func(tx core.Session) error {
			account, err := tx.Accounts().Find(ctx, chi.URLParam(r, "id"))
			if err != nil {
				return err
			}

			transfer, err = custodySrv.Deposit(ctx, tx.Accounts(), params.TraceID, account.ID, params.Amount)
			if err != nil {
				return err
			}

			return tx.Operations().Create(ctx, &core.Operation{
				TraceID:   params.TraceID,
				Action:    core.ActionTypeDeposit,
				UserID:    account.Owner,
				RecordID:  account.ID,
				Amount:    params.Amount,
				CreatedAt: time.Now().UTC().Truncate(time.Second),
			})
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		logger.FromContext(ctx).WithField("account", transfer.ToAccount).Infof("deposit %d", transfer.Amount)
		render.JSON(w, transfer)
	}
}
