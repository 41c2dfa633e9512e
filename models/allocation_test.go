package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocation(t *testing.T) {
	cases := []struct {
		name    string
		balance int64
		total   int64
		pool    float64
		want    float64
	}{
		{"proportional share", 10000, 100000, 100000, 10000},
		{"small share", 1, 100000, 100000, 1},
		{"zero total pays nothing", 500, 0, 100000, 0},
		{"negative total pays nothing", 500, -100, 100000, 0},
		{"zero balance", 0, 100000, 100000, 0},
		{"full pool", 100000, 100000, 42000, 42000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Allocation(tc.balance, tc.total, tc.pool), 0.0001)
		})
	}
}

func TestAllocation_SharesSumToPool(t *testing.T) {
	balances := []int64{10000, 90000, 250, 49750}
	var total int64
	for _, b := range balances {
		total += b
	}

	pool := 100000.0
	var sum float64
	for _, b := range balances {
		sum += Allocation(b, total, pool)
	}

	assert.InDelta(t, pool, sum, 0.0001)
}

func TestIsValidWalletAddress(t *testing.T) {
	valid := []string{
		"4Nd1mYvJ9pXrW5tQzKxFgHs8cLbTnUji6RkDaEoPqVie",
		"7xKWqR3mPnTvBd2cLgYhJs9fUzEi5oAj8NkQaSrMView",
		"22222222222222222222222222222222", // 32 chars, minimum length
	}
	for _, addr := range valid {
		assert.True(t, IsValidWalletAddress(addr), addr)
	}

	invalid := []string{
		"",
		"short",
		"0000000000000000000000000000000000000000",     // 0 is not base58
		"OOOOOOOOOOOOOOOOOOOOOOOOOOOOOOOO",             // O is not base58
		"IIIIIIIIIIIIIIIIIIIIIIIIIIIIIIII",             // I is not base58
		"llllllllllllllllllllllllllllllll",             // l is not base58
		"4Nd1mYvJ9pXrW5tQzKxFgHs8cLbTnUji6RkDaEoPqVie4Nd1mYvJ9p", // too long
		"4Nd1mYvJ9pXrW5tQzKxF!Hs8cLbTnUji6RkDaEoPqVie",           // punctuation
	}
	for _, addr := range invalid {
		assert.False(t, IsValidWalletAddress(addr), addr)
	}
}
