package memory

import (
	"context"
	"errors"
	"io"
	"io/ioutil"
	"openrate/core"
	"os"
	"path/filepath"
	"sync"

	"github.com/fox-one/msgpack"
	"github.com/google/btree"
)

const bidTreeDegree = 16

type bidKey struct {
	MarketID  string
	RateBps   uint16
	CreatedAt int64
	ID        string
}

func lessBidKey(a, b bidKey) bool {
	if a.MarketID != b.MarketID {
		return a.MarketID < b.MarketID
	}

	if a.RateBps != b.RateBps {
		return a.RateBps < b.RateBps
	}

	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt < b.CreatedAt
	}

	return a.ID < b.ID
}

func keyOfBid(bid *core.BidOrder) bidKey {
	return bidKey{
		MarketID:  bid.MarketID,
		RateBps:   bid.RateBps,
		CreatedAt: bid.CreatedAt.Unix(),
		ID:        bid.ID,
	}
}

// state ledger records, markets vaults bids and borrows kept in their fixed layout
type state struct {
	assets         map[string]core.Asset
	markets        map[string][]byte
	marketsByAsset map[string]string
	vaults         map[string][]byte
	bids           map[string][]byte
	bidBook        *btree.BTreeG[bidKey]
	borrows        map[string][]byte
	accounts       map[string]core.CustodyAccount
	transfers      []core.CustodyTransfer
	transferTraces map[string]int
	operations     []core.Operation
	operationTrace map[string]int
}

func newState() *state {
	return &state{
		assets:         map[string]core.Asset{},
		markets:        map[string][]byte{},
		marketsByAsset: map[string]string{},
		vaults:         map[string][]byte{},
		bids:           map[string][]byte{},
		bidBook:        btree.NewG(bidTreeDegree, lessBidKey),
		borrows:        map[string][]byte{},
		accounts:       map[string]core.CustodyAccount{},
		transferTraces: map[string]int{},
		operationTrace: map[string]int{},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}

	return c
}

// clone encoded records are never mutated in place, so sharing the byte slices is safe
func (s *state) clone() *state {
	return &state{
		assets:         copyMap(s.assets),
		markets:        copyMap(s.markets),
		marketsByAsset: copyMap(s.marketsByAsset),
		vaults:         copyMap(s.vaults),
		bids:           copyMap(s.bids),
		bidBook:        s.bidBook.Clone(),
		borrows:        copyMap(s.borrows),
		accounts:       copyMap(s.accounts),
		transfers:      s.transfers[:len(s.transfers):len(s.transfers)],
		transferTraces: copyMap(s.transferTraces),
		operations:     s.operations[:len(s.operations):len(s.operations)],
		operationTrace: copyMap(s.operationTrace),
	}
}

// DB in memory ledger store
//
// Units of work are serialized; a Tx runs against a clone of the state
// which replaces the committed state only when fn succeeds.
type DB struct {
	mu        sync.RWMutex
	state     *state
	stateFile string
	*session
}

// New new empty memory store
func New() *DB {
	db := &DB{state: newState()}
	db.session = &session{db: db}
	return db
}

// Open memory store persisted to file, loading it when present
func Open(file string) (*DB, error) {
	db := New()
	db.stateFile = file

	f, err := os.Open(file)
	if errors.Is(err, os.ErrNotExist) {
		return db, nil
	} else if err != nil {
		return nil, err
	}

	defer f.Close()

	if err := db.Restore(f); err != nil {
		return nil, err
	}

	return db, nil
}

// Tx run fn in one unit of work
func (db *DB) Tx(ctx context.Context, fn func(tx core.Session) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	next := db.state.clone()
	if err := fn(&session{db: db, tx: next}); err != nil {
		return err
	}

	if db.stateFile != "" {
		if err := writeSnapshot(db.stateFile, next); err != nil {
			return err
		}
	}

	db.state = next
	return nil
}

// session the committed state when tx is nil, else a unit of work
type session struct {
	db *DB
	tx *state
}

func (s *session) Tx(ctx context.Context, fn func(tx core.Session) error) error {
	if s.tx != nil {
		return fn(s)
	}

	return s.db.Tx(ctx, fn)
}

func (s *session) view(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return fn(s.db.state)
}

func (s *session) update(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	next := s.db.state.clone()
	if err := fn(next); err != nil {
		return err
	}

	if s.db.stateFile != "" {
		if err := writeSnapshot(s.db.stateFile, next); err != nil {
			return err
		}
	}

	s.db.state = next
	return nil
}

func (s *session) Assets() core.IAssetStore         { return &assetStore{s} }
func (s *session) Markets() core.IMarketStore       { return &marketStore{s} }
func (s *session) Vaults() core.IVaultStore         { return &vaultStore{s} }
func (s *session) Bids() core.IBidStore             { return &bidStore{s} }
func (s *session) Borrows() core.IBorrowStore       { return &borrowStore{s} }
func (s *session) Accounts() core.ICustodyStore     { return &custodyStore{s} }
func (s *session) Operations() core.IOperationStore { return &operationStore{s} }

type snapshot struct {
	Assets     []core.Asset           `msgpack:"assets"`
	Markets    [][]byte               `msgpack:"markets"`
	Vaults     [][]byte               `msgpack:"vaults"`
	Bids       [][]byte               `msgpack:"bids"`
	Borrows    [][]byte               `msgpack:"borrows"`
	Accounts   []core.CustodyAccount  `msgpack:"accounts"`
	Transfers  []core.CustodyTransfer `msgpack:"transfers"`
	Operations []core.Operation       `msgpack:"operations"`
}

func (st *state) snapshot() *snapshot {
	snap := &snapshot{
		Transfers:  st.transfers,
		Operations: st.operations,
	}

	for _, asset := range st.assets {
		snap.Assets = append(snap.Assets, asset)
	}

	for _, data := range st.markets {
		snap.Markets = append(snap.Markets, data)
	}

	for _, data := range st.vaults {
		snap.Vaults = append(snap.Vaults, data)
	}

	for _, data := range st.bids {
		snap.Bids = append(snap.Bids, data)
	}

	for _, data := range st.borrows {
		snap.Borrows = append(snap.Borrows, data)
	}

	for _, account := range st.accounts {
		snap.Accounts = append(snap.Accounts, account)
	}

	return snap
}

func restoreState(snap *snapshot) (*state, error) {
	st := newState()

	for _, asset := range snap.Assets {
		st.assets[asset.ID] = asset
	}

	for _, data := range snap.Markets {
		var market core.Market
		if err := market.UnmarshalBinary(data); err != nil {
			return nil, err
		}

		st.markets[market.ID] = data
		st.marketsByAsset[market.AssetID] = market.ID
	}

	for _, data := range snap.Vaults {
		var vault core.Vault
		if err := vault.UnmarshalBinary(data); err != nil {
			return nil, err
		}

		st.vaults[vault.ID] = data
	}

	for _, data := range snap.Bids {
		var bid core.BidOrder
		if err := bid.UnmarshalBinary(data); err != nil {
			return nil, err
		}

		st.bids[bid.ID] = data
		st.bidBook.ReplaceOrInsert(keyOfBid(&bid))
	}

	for _, data := range snap.Borrows {
		var borrow core.BorrowRecord
		if err := borrow.UnmarshalBinary(data); err != nil {
			return nil, err
		}

		st.borrows[borrow.ID] = data
	}

	for _, account := range snap.Accounts {
		st.accounts[account.ID] = account
	}

	for idx, transfer := range snap.Transfers {
		st.transfers = append(st.transfers, transfer)
		st.transferTraces[transfer.TraceID] = idx
	}

	for idx, op := range snap.Operations {
		st.operations = append(st.operations, op)
		st.operationTrace[op.TraceID] = idx
	}

	return st, nil
}

// Snapshot write the committed state as msgpack
func (db *DB) Snapshot() ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return msgpack.Marshal(db.state.snapshot())
}

// Restore replace the committed state with a snapshot read from r
func (db *DB) Restore(r io.Reader) error {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return err
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return err
	}

	st, err := restoreState(&snap)
	if err != nil {
		return err
	}

	db.mu.Lock()
	db.state = st
	db.mu.Unlock()
	return nil
}

func writeSnapshot(file string, st *state) error {
	data, err := msgpack.Marshal(st.snapshot())
	if err != nil {
		return err
	}

	tmp, err := ioutil.TempFile(filepath.Dir(file), filepath.Base(file)+".*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), file)
}
