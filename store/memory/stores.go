package memory

import (
	"context"
	"openrate/core"
	"sort"

	"github.com/fox-one/pkg/store/db"
)

type assetStore struct{ s *session }

func (a *assetStore) Save(_ context.Context, asset *core.Asset) error {
	return a.s.update(func(st *state) error {
		st.assets[asset.ID] = *asset
		return nil
	})
}

func (a *assetStore) Find(_ context.Context, id string) (*core.Asset, error) {
	var asset core.Asset
	err := a.s.view(func(st *state) error {
		v, ok := st.assets[id]
		if !ok {
			return core.ErrAssetNotFound
		}

		asset = v
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &asset, nil
}

func (a *assetStore) All(_ context.Context) ([]*core.Asset, error) {
	var assets []*core.Asset
	_ = a.s.view(func(st *state) error {
		for _, v := range st.assets {
			asset := v
			assets = append(assets, &asset)
		}

		return nil
	})

	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets, nil
}

type marketStore struct{ s *session }

func (m *marketStore) Create(_ context.Context, market *core.Market) error {
	data, err := market.MarshalBinary()
	if err != nil {
		return err
	}

	return m.s.update(func(st *state) error {
		if _, ok := st.markets[market.ID]; ok {
			return core.ErrDuplicateMarket
		}

		if _, ok := st.marketsByAsset[market.AssetID]; ok {
			return core.ErrDuplicateMarket
		}

		st.markets[market.ID] = data
		st.marketsByAsset[market.AssetID] = market.ID
		return nil
	})
}

func (m *marketStore) Find(_ context.Context, id string) (*core.Market, error) {
	var market core.Market
	err := m.s.view(func(st *state) error {
		data, ok := st.markets[id]
		if !ok {
			return core.ErrMarketNotFound
		}

		return market.UnmarshalBinary(data)
	})

	if err != nil {
		return nil, err
	}

	return &market, nil
}

func (m *marketStore) FindByAsset(ctx context.Context, assetID string) (*core.Market, error) {
	var id string
	_ = m.s.view(func(st *state) error {
		id = st.marketsByAsset[assetID]
		return nil
	})

	if id == "" {
		return nil, core.ErrMarketNotFound
	}

	return m.Find(ctx, id)
}

func (m *marketStore) All(_ context.Context) ([]*core.Market, error) {
	var markets []*core.Market
	err := m.s.view(func(st *state) error {
		for _, data := range st.markets {
			var market core.Market
			if err := market.UnmarshalBinary(data); err != nil {
				return err
			}

			markets = append(markets, &market)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Slice(markets, func(i, j int) bool { return markets[i].CreatedAt.Before(markets[j].CreatedAt) })
	return markets, nil
}

type vaultStore struct{ s *session }

func (v *vaultStore) Create(_ context.Context, vault *core.Vault) error {
	data, err := vault.MarshalBinary()
	if err != nil {
		return err
	}

	return v.s.update(func(st *state) error {
		if _, ok := st.vaults[vault.ID]; ok {
			return core.ErrDuplicateMarket
		}

		st.vaults[vault.ID] = data
		return nil
	})
}

func (v *vaultStore) Find(_ context.Context, id string) (*core.Vault, error) {
	var vault core.Vault
	err := v.s.view(func(st *state) error {
		data, ok := st.vaults[id]
		if !ok {
			return core.ErrMarketNotFound
		}

		return vault.UnmarshalBinary(data)
	})

	if err != nil {
		return nil, err
	}

	return &vault, nil
}

type bidStore struct{ s *session }

func (b *bidStore) Create(_ context.Context, bid *core.BidOrder) error {
	data, err := bid.MarshalBinary()
	if err != nil {
		return err
	}

	return b.s.update(func(st *state) error {
		if _, ok := st.bids[bid.ID]; ok {
			return core.ErrDuplicateTrace
		}

		st.bids[bid.ID] = data
		st.bidBook.ReplaceOrInsert(keyOfBid(bid))
		return nil
	})
}

func findBid(st *state, id string) (*core.BidOrder, error) {
	data, ok := st.bids[id]
	if !ok {
		return nil, core.ErrBidNotFound
	}

	var bid core.BidOrder
	if err := bid.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	return &bid, nil
}

func (b *bidStore) Find(_ context.Context, id string) (*core.BidOrder, error) {
	var bid *core.BidOrder
	err := b.s.view(func(st *state) (err error) {
		bid, err = findBid(st, id)
		return
	})

	return bid, err
}

func (b *bidStore) Update(_ context.Context, bid *core.BidOrder) error {
	return b.s.update(func(st *state) error {
		stored, err := findBid(st, bid.ID)
		if err != nil {
			return err
		}

		if stored.Version != bid.Version {
			return db.ErrOptimisticLock
		}

		next := *bid
		next.Version++
		data, err := next.MarshalBinary()
		if err != nil {
			return err
		}

		st.bids[bid.ID] = data
		bid.Version = next.Version
		return nil
	})
}

func (b *bidStore) List(_ context.Context, query core.BidQuery) ([]*core.BidOrder, error) {
	var bids []*core.BidOrder
	err := b.s.view(func(st *state) error {
		var err error
		iter := func(key bidKey) bool {
			if query.MarketID != "" && key.MarketID != query.MarketID {
				return false
			}

			var bid *core.BidOrder
			if bid, err = findBid(st, key.ID); err != nil {
				return false
			}

			if query.Lender != "" && bid.Lender != query.Lender {
				return true
			}

			if query.ActiveOnly && !bid.Active {
				return true
			}

			bids = append(bids, bid)
			return query.Limit <= 0 || len(bids) < query.Limit
		}

		if query.MarketID != "" {
			st.bidBook.AscendGreaterOrEqual(bidKey{MarketID: query.MarketID}, iter)
		} else {
			st.bidBook.Ascend(iter)
		}

		return err
	})

	if err != nil {
		return nil, err
	}

	return bids, nil
}

type borrowStore struct{ s *session }

func (b *borrowStore) Create(_ context.Context, borrow *core.BorrowRecord) error {
	data, err := borrow.MarshalBinary()
	if err != nil {
		return err
	}

	return b.s.update(func(st *state) error {
		if _, ok := st.borrows[borrow.ID]; ok {
			return core.ErrDuplicateTrace
		}

		st.borrows[borrow.ID] = data
		return nil
	})
}

func findBorrow(st *state, id string) (*core.BorrowRecord, error) {
	data, ok := st.borrows[id]
	if !ok {
		return nil, core.ErrBorrowNotFound
	}

	var borrow core.BorrowRecord
	if err := borrow.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	return &borrow, nil
}

func (b *borrowStore) Find(_ context.Context, id string) (*core.BorrowRecord, error) {
	var borrow *core.BorrowRecord
	err := b.s.view(func(st *state) (err error) {
		borrow, err = findBorrow(st, id)
		return
	})

	return borrow, err
}

func (b *borrowStore) Update(_ context.Context, borrow *core.BorrowRecord) error {
	return b.s.update(func(st *state) error {
		stored, err := findBorrow(st, borrow.ID)
		if err != nil {
			return err
		}

		if stored.Version != borrow.Version {
			return db.ErrOptimisticLock
		}

		next := *borrow
		next.Version++
		data, err := next.MarshalBinary()
		if err != nil {
			return err
		}

		st.borrows[borrow.ID] = data
		borrow.Version = next.Version
		return nil
	})
}

func (b *borrowStore) List(_ context.Context, query core.BorrowQuery) ([]*core.BorrowRecord, error) {
	var borrows []*core.BorrowRecord
	err := b.s.view(func(st *state) error {
		for id := range st.borrows {
			borrow, err := findBorrow(st, id)
			if err != nil {
				return err
			}

			if query.Borrower != "" && borrow.Borrower != query.Borrower {
				continue
			}

			if query.BidID != "" && borrow.BidID != query.BidID {
				continue
			}

			if query.OpenOnly && borrow.Repaid {
				continue
			}

			borrows = append(borrows, borrow)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Slice(borrows, func(i, j int) bool {
		if !borrows[i].StartTime.Equal(borrows[j].StartTime) {
			return borrows[i].StartTime.Before(borrows[j].StartTime)
		}

		return borrows[i].ID < borrows[j].ID
	})

	if query.Limit > 0 && len(borrows) > query.Limit {
		borrows = borrows[:query.Limit]
	}

	return borrows, nil
}

type custodyStore struct{ s *session }

func (c *custodyStore) Create(_ context.Context, account *core.CustodyAccount) error {
	return c.s.update(func(st *state) error {
		if _, ok := st.accounts[account.ID]; ok {
			return core.ErrInvalidArgument
		}

		st.accounts[account.ID] = *account
		return nil
	})
}

func (c *custodyStore) Find(_ context.Context, id string) (*core.CustodyAccount, error) {
	var account core.CustodyAccount
	err := c.s.view(func(st *state) error {
		v, ok := st.accounts[id]
		if !ok {
			return core.ErrAccountNotFound
		}

		account = v
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (c *custodyStore) Update(_ context.Context, account *core.CustodyAccount) error {
	return c.s.update(func(st *state) error {
		stored, ok := st.accounts[account.ID]
		if !ok {
			return core.ErrAccountNotFound
		}

		if stored.Version != account.Version {
			return db.ErrOptimisticLock
		}

		account.Version++
		st.accounts[account.ID] = *account
		return nil
	})
}

func (c *custodyStore) ListByOwner(_ context.Context, owner string) ([]*core.CustodyAccount, error) {
	var accounts []*core.CustodyAccount
	_ = c.s.view(func(st *state) error {
		for _, v := range st.accounts {
			if v.Owner == owner {
				account := v
				accounts = append(accounts, &account)
			}
		}

		return nil
	})

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (c *custodyStore) CreateTransfer(_ context.Context, transfer *core.CustodyTransfer) error {
	return c.s.update(func(st *state) error {
		if _, ok := st.transferTraces[transfer.TraceID]; ok {
			return core.ErrDuplicateTrace
		}

		transfer.ID = int64(len(st.transfers) + 1)
		st.transferTraces[transfer.TraceID] = len(st.transfers)
		st.transfers = append(st.transfers, *transfer)
		return nil
	})
}

func (c *custodyStore) ListTransfers(_ context.Context, query core.TransferQuery) ([]*core.CustodyTransfer, error) {
	var transfers []*core.CustodyTransfer
	_ = c.s.view(func(st *state) error {
		for _, v := range st.transfers {
			if v.ID <= query.FromID {
				continue
			}

			if query.AccountID != "" && v.FromAccount != query.AccountID && v.ToAccount != query.AccountID {
				continue
			}

			transfer := v
			transfers = append(transfers, &transfer)
			if query.Limit > 0 && len(transfers) >= query.Limit {
				break
			}
		}

		return nil
	})

	return transfers, nil
}

type operationStore struct{ s *session }

func (o *operationStore) Create(_ context.Context, op *core.Operation) error {
	return o.s.update(func(st *state) error {
		if _, ok := st.operationTrace[op.TraceID]; ok {
			return core.ErrDuplicateTrace
		}

		op.ID = int64(len(st.operations) + 1)
		st.operationTrace[op.TraceID] = len(st.operations)
		st.operations = append(st.operations, *op)
		return nil
	})
}

func (o *operationStore) List(_ context.Context, query core.OperationQuery) ([]*core.Operation, error) {
	var ops []*core.Operation
	_ = o.s.view(func(st *state) error {
		for _, v := range st.operations {
			if v.ID <= query.FromID {
				continue
			}

			if query.UserID != "" && v.UserID != query.UserID {
				continue
			}

			if query.MarketID != "" && v.MarketID != query.MarketID {
				continue
			}

			op := v
			ops = append(ops, &op)
			if query.Limit > 0 && len(ops) >= query.Limit {
				break
			}
		}

		return nil
	})

	return ops, nil
}
