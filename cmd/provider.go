package cmd

import (
	"openrate/core"
	"openrate/service/audit"
	"openrate/service/custody"
	ledgerservice "openrate/service/ledger"
	"openrate/store/ledger"
	"openrate/store/market"
	"openrate/store/memory"
	"openrate/worker/auditor"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

func provideConfig() *core.Config {
	return &cfg
}

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

// ---------------store-----------------------------------------

func usingMemory() bool {
	return cfg.Ledger.Driver == core.LedgerDriverMemory
}

func provideLedgerStore(database *db.DB) core.ILedgerStore {
	if usingMemory() {
		return provideMemoryStore()
	}

	markets := market.Cache(market.New(database), cfg.Cache.Size, cfg.Cache.TTL)
	return ledger.New(database, markets)
}

func provideMemoryStore() *memory.DB {
	if cfg.Ledger.StateFile == "" {
		return memory.New()
	}

	store, err := memory.Open(cfg.Ledger.StateFile)
	if err != nil {
		panic(err)
	}

	return store
}

// providePropertyStore nil with the memory driver
func providePropertyStore(database *db.DB) property.Store {
	if database == nil {
		return nil
	}

	return propertystore.New(database)
}

// ------------------service------------------------------------

func provideCustodyService() core.ICustodyService {
	return custody.New()
}

func provideLedgerService(store core.ILedgerStore, custodySrv core.ICustodyService) core.ILedgerService {
	return ledgerservice.New(store, custodySrv)
}

func provideAuditService(store core.ILedgerStore) core.IAuditService {
	return audit.New(store)
}

// ------------------worker-------------------------------------

func provideAuditor(store core.ILedgerStore, auditSrv core.IAuditService, property property.Store) *auditor.Auditor {
	return auditor.New(store.Markets(), auditSrv, property, auditor.Config{
		Interval: cfg.Auditor.Interval,
		Capacity: cfg.Auditor.Capacity,
	})
}
