// Package tokenledger implements the fungible voting-token ledger inside the
// governance context.
//
// The module owns account balances and the mint/transfer intents the
// operational layer uses to allocate voting weight. The election ledger
// consumes it read-only through its BalanceSource port; this module never
// learns about elections.
package tokenledger
