package vault

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solmm/mmw/internal/config"
)

func TestMain(m *testing.M) {
	os.Setenv("NODE_RPC", "http://localhost:8899")
	if err := config.LoadConfig(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestDeriveDeterministic(t *testing.T) {
	owner := solana.NewWallet().PublicKey()

	a, err := Derive(owner, 3)
	require.NoError(t, err)
	b, err := Derive(owner, 3)
	require.NoError(t, err)

	require.Equal(t, a.Address(), b.Address())
	require.Equal(t, a.Bump(), b.Bump())
}

func TestDeriveDistinctPerOwnerAndNonce(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()

	a, err := Derive(owner, 0)
	require.NoError(t, err)
	b, err := Derive(owner, 1)
	require.NoError(t, err)
	c, err := Derive(other, 0)
	require.NoError(t, err)

	require.NotEqual(t, a.Address(), b.Address())
	require.NotEqual(t, a.Address(), c.Address())
}

func TestAuthorityAtMatchesDerive(t *testing.T) {
	owner := solana.NewWallet().PublicKey()

	derived, err := Derive(owner, 9)
	require.NoError(t, err)

	rebuilt, err := AuthorityAt(owner, 9, derived.Bump())
	require.NoError(t, err)
	require.Equal(t, derived.Address(), rebuilt.Address())
}

func TestSignerSeedsLayout(t *testing.T) {
	owner := solana.NewWallet().PublicKey()

	auth, err := Derive(owner, 12)
	require.NoError(t, err)

	seeds := auth.SignerSeeds()
	require.Len(t, seeds, 4)
	require.Equal(t, []byte("mm_wallet"), seeds[0])
	require.Equal(t, owner.Bytes(), seeds[1])
	require.Equal(t, uint64(12), binary.LittleEndian.Uint64(seeds[2]))
	require.Equal(t, []byte{auth.Bump()}, seeds[3])
}

func TestVaultAddressIsOffCurve(t *testing.T) {
	owner := solana.NewWallet().PublicKey()

	auth, err := Derive(owner, 0)
	require.NoError(t, err)
	require.False(t, auth.Address().IsOnCurve())
}
