package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Operation a committed ledger transition
type Operation struct {
	ID        int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TraceID   string         `sql:"size:36;unique_index:idx_operations_trace_id" json:"trace_id,omitempty"`
	Action    ActionType     `json:"action,omitempty"`
	UserID    string         `sql:"size:36;index:idx_operations_user_id" json:"user_id,omitempty"`
	MarketID  string         `sql:"size:36;index:idx_operations_market_id" json:"market_id,omitempty"`
	RecordID  string         `sql:"size:36" json:"record_id,omitempty"`
	Amount    uint64         `json:"amount,omitempty"`
	Data      types.JSONText `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt time.Time      `sql:"index:idx_operations_created_at" json:"created_at,omitempty"`
}

// SetData encode v as the operation payload
func (o *Operation) SetData(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte("{}")
	}

	o.Data = data
}

// OperationQuery operation list query
type OperationQuery struct {
	UserID   string
	MarketID string
	// FromID list operations with id greater than FromID
	FromID int64
	Limit  int
}

// IOperationStore operation store interface
type IOperationStore interface {
	// Create fails with ErrDuplicateTrace if the trace id was already used
	Create(ctx context.Context, op *Operation) error
	List(ctx context.Context, query OperationQuery) ([]*Operation, error)
}
