package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MintRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type AccountResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

type SupplyResponse struct {
	TotalSupply int64 `json:"total_supply"`
}
