package id

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// DeriveVersion current derivation version of vault authorities
const DeriveVersion uint8 = 1

// GenTraceID new normal traceID
func GenTraceID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// Valid check if id is a uuid
func Valid(id string) bool {
	u, err := uuid.FromString(id)
	return err == nil && u != uuid.Nil
}

// Derive new uuid string from namespace id and name
func Derive(ns, name string) (string, error) {
	u, err := uuid.FromString(ns)
	if err != nil {
		return "", fmt.Errorf("derive %q: %w", name, err)
	}

	return uuid.NewV5(u, name).String(), nil
}

// Market market id of the asset
func Market(assetID string) (string, error) {
	return Derive(assetID, "market")
}

// Vault vault id of the asset
func Vault(assetID string) (string, error) {
	return Derive(assetID, "vault")
}

// VaultAuthority authority of the vault owned by market
func VaultAuthority(marketID string, version uint8) (string, error) {
	return Derive(marketID, fmt.Sprintf("vault_authority:%d", version))
}

// VaultCustody custody account id of the vault
func VaultCustody(vaultID string) (string, error) {
	return Derive(vaultID, "custody")
}

// BidOrder bid order id keyed by lender and trace
func BidOrder(marketID, lender, traceID string) (string, error) {
	return Derive(marketID, fmt.Sprintf("bid_order:%s:%s", lender, traceID))
}

// BorrowRecord borrow record id keyed by borrower and trace
func BorrowRecord(bidID, borrower, traceID string) (string, error) {
	return Derive(bidID, fmt.Sprintf("borrow_record:%s:%s", borrower, traceID))
}

// Account default custody account id of the owner for the asset
func Account(owner, assetID string) (string, error) {
	return Derive(owner, "account:"+assetID)
}
