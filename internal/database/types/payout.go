package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout is one member's settled share of a completed project's prize.
type Payout struct {
	ProjectID   int64           `bun:",pk"                         json:"projectId"`
	User        string          `bun:",pk"                         json:"user"`
	ConfirmedHH float64         `bun:"confirmed_hh,notnull"        json:"confirmedHH"`
	Share       float64         `bun:",notnull"                    json:"share"`
	Amount      decimal.Decimal `bun:",type:numeric(20,2),notnull" json:"amount"`
	CreatedAt   time.Time       `bun:",notnull"                    json:"createdAt"`
}
