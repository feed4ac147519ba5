package entities

import "time"

// Account is one address's fungible balance in base units. Balances never go
// negative; transfers are rejected rather than overdrawn.
type Account struct {
	Address   string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
