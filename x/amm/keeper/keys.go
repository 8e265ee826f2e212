package keeper

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	// PoolKeyPrefix is the prefix for pool records keyed by pool ID.
	PoolKeyPrefix = []byte{0x01}

	// NextPoolIDKey stores the next pool ID counter. IDs start at 1; zero
	// is never a valid pool id.
	NextPoolIDKey = []byte{0x02}

	// PoolByDenomsKeyPrefix indexes pool IDs by canonical token pair. The
	// prefix doubles as the registered-pair list for enumeration.
	PoolByDenomsKeyPrefix = []byte{0x03}

	// ShareKeyPrefix is the prefix for provider share balances.
	ShareKeyPrefix = []byte{0x04}

	// ParamsKey stores the module parameters.
	ParamsKey = []byte{0x05}

	// PausedKey stores the module pause flag.
	PausedKey = []byte{0x06}
)

// PoolKey returns the store key for a pool by ID.
func PoolKey(poolID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, poolID)
	return append(PoolKeyPrefix, bz...)
}

// PoolByDenomsKey returns the index key for a canonical token pair.
func PoolByDenomsKey(tokenA, tokenB string) []byte {
	key := append([]byte{}, PoolByDenomsKeyPrefix...)
	key = append(key, []byte(tokenA)...)
	key = append(key, '/')
	return append(key, []byte(tokenB)...)
}

// ShareKey returns the store key for one provider's shares in one pool.
func ShareKey(poolID uint64, provider sdk.AccAddress) []byte {
	key := append([]byte{}, ShareKeyPrefix...)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, poolID)
	key = append(key, bz...)
	return append(key, provider.Bytes()...)
}

// SharePoolPrefix returns the prefix covering all share records of a pool.
func SharePoolPrefix(poolID uint64) []byte {
	key := append([]byte{}, ShareKeyPrefix...)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, poolID)
	return append(key, bz...)
}
