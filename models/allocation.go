package models

import "regexp"

// Allocation computes a user's proportional share of the airdrop pool.
// A zero active total means no allocation, never a division by zero.
func Allocation(balance, totalActivePoints int64, pool float64) float64 {
	if totalActivePoints <= 0 {
		return 0
	}
	return float64(balance) / float64(totalActivePoints) * pool
}

// base58 without the ambiguous characters 0, O, I and l
var walletAddressPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// IsValidWalletAddress reports whether addr is a syntactically valid wallet
// address: 32-44 characters from the base58 alphabet.
func IsValidWalletAddress(addr string) bool {
	return walletAddressPattern.MatchString(addr)
}

// AllocationRow is one line of the admin airdrop export
type AllocationRow struct {
	WalletAddress string
	AirdropAmount float64
}
