package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// TestNewPool validates the zero state of a freshly registered pool
func TestNewPool(t *testing.T) {
	pool := types.NewPool(7, "uatom", "utarn")

	require.Equal(t, uint64(7), pool.Id)
	require.Equal(t, "uatom", pool.TokenA)
	require.Equal(t, "utarn", pool.TokenB)
	require.True(t, pool.ReserveA.IsZero())
	require.True(t, pool.ReserveB.IsZero())
	require.True(t, pool.TotalShares.IsZero())
	require.True(t, pool.FeeShares.IsZero())
	require.True(t, pool.KLast.IsZero())
	require.True(t, pool.PriceACumulative.IsZero())
	require.True(t, pool.PriceBCumulative.IsZero())
	require.Zero(t, pool.LastTimestampMs)
	require.False(t, pool.Locked)

	require.NoError(t, pool.Validate())
}

// TestPoolHasDenom validates token membership checks
func TestPoolHasDenom(t *testing.T) {
	pool := types.NewPool(1, "uatom", "utarn")

	require.True(t, pool.HasDenom("uatom"))
	require.True(t, pool.HasDenom("utarn"))
	require.False(t, pool.HasDenom("uusdt"))
	require.False(t, pool.HasDenom(""))
}

// TestPoolValidate validates structural pool integrity checks
func TestPoolValidate(t *testing.T) {
	valid := func() types.Pool {
		pool := types.NewPool(1, "uatom", "utarn")
		pool.ReserveA = math.NewInt(1000)
		pool.ReserveB = math.NewInt(2000)
		pool.TotalShares = math.NewInt(1414)
		pool.FeeShares = math.NewInt(1000)
		return pool
	}

	tests := []struct {
		name    string
		mutate  func(*types.Pool)
		wantErr string
	}{
		{
			name:   "valid pool",
			mutate: func(p *types.Pool) {},
		},
		{
			name:    "zero id",
			mutate:  func(p *types.Pool) { p.Id = 0 },
			wantErr: "pool id cannot be zero",
		},
		{
			name:    "empty token A",
			mutate:  func(p *types.Pool) { p.TokenA = "" },
			wantErr: "empty token denom",
		},
		{
			name:    "empty token B",
			mutate:  func(p *types.Pool) { p.TokenB = "" },
			wantErr: "empty token denom",
		},
		{
			name: "tokens out of canonical order",
			mutate: func(p *types.Pool) {
				p.TokenA, p.TokenB = "utarn", "uatom"
			},
			wantErr: "not in canonical order",
		},
		{
			name: "identical tokens",
			mutate: func(p *types.Pool) {
				p.TokenA, p.TokenB = "uatom", "uatom"
			},
			wantErr: "not in canonical order",
		},
		{
			name:    "negative reserve",
			mutate:  func(p *types.Pool) { p.ReserveA = math.NewInt(-1) },
			wantErr: "nil or negative",
		},
		{
			name:    "nil total shares",
			mutate:  func(p *types.Pool) { p.TotalShares = math.Int{} },
			wantErr: "nil or negative",
		},
		{
			name:    "negative k last",
			mutate:  func(p *types.Pool) { p.KLast = math.NewInt(-5) },
			wantErr: "nil or negative",
		},
		{
			name:    "nil price accumulator",
			mutate:  func(p *types.Pool) { p.PriceACumulative = math.Int{} },
			wantErr: "nil price accumulator",
		},
		{
			name: "fee shares exceed total shares",
			mutate: func(p *types.Pool) {
				p.FeeShares = p.TotalShares.AddRaw(1)
			},
			wantErr: "fee shares exceed total shares",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := valid()
			tt.mutate(&pool)

			err := pool.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
