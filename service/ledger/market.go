package ledger

import (
	"context"
	"openrate/core"
	"openrate/pkg/id"

	"github.com/fox-one/pkg/logger"
)

func (s *service) InitializeMarket(ctx context.Context, input *core.InitializeMarketInput) (*core.Market, *core.Vault, error) {
	if err := validIDs(input.AssetID, input.Authority); err != nil {
		return nil, nil, err
	}

	traceID, err := traceOrDerive(input.TraceID, input.AssetID, "initialize_market")
	if err != nil {
		return nil, nil, err
	}

	marketID, _ := id.Market(input.AssetID)
	vaultID, _ := id.Vault(input.AssetID)
	authority, _ := id.VaultAuthority(marketID, id.DeriveVersion)
	custodyID, _ := id.VaultCustody(vaultID)

	log := logger.FromContext(ctx).WithField("market", marketID)
	ctx = logger.WithContext(ctx, log)

	now := s.now()
	market := &core.Market{
		ID:            marketID,
		Authority:     input.Authority,
		AssetID:       input.AssetID,
		VaultID:       vaultID,
		DeriveVersion: id.DeriveVersion,
		CreatedAt:     now,
	}

	vault := &core.Vault{
		ID:             vaultID,
		MarketID:       marketID,
		Authority:      authority,
		CustodyAccount: custodyID,
		AssetID:        input.AssetID,
		DeriveVersion:  id.DeriveVersion,
		CreatedAt:      now,
	}

	err = s.transition(ctx, core.ActionTypeInitializeMarket, func(tx core.Session) error {
		if _, err := tx.Assets().Find(ctx, input.AssetID); err != nil {
			return err
		}

		if _, err := tx.Markets().FindByAsset(ctx, input.AssetID); err == nil {
			return core.ErrDuplicateMarket
		} else if err != core.ErrMarketNotFound {
			return err
		}

		account, err := s.custody.OpenAccount(ctx, tx.Accounts(), custodyID, authority, input.AssetID)
		if err != nil {
			return err
		}

		if account.AssetID != input.AssetID {
			return core.ErrInvalidAssetBinding
		}

		if account.Owner != authority {
			return core.ErrInvalidVaultAuthority
		}

		if err := tx.Markets().Create(ctx, market); err != nil {
			return err
		}

		if err := tx.Vaults().Create(ctx, vault); err != nil {
			return err
		}

		op := &core.Operation{
			TraceID:  traceID,
			Action:   core.ActionTypeInitializeMarket,
			UserID:   input.Authority,
			MarketID: marketID,
			RecordID: vaultID,
		}
		op.SetData(map[string]interface{}{
			"asset_id":        input.AssetID,
			"vault_authority": authority,
			"custody_account": custodyID,
		})

		return s.record(ctx, tx, op)
	})

	if err != nil {
		return nil, nil, err
	}

	log.Infoln("market initialized")
	return market, vault, nil
}
