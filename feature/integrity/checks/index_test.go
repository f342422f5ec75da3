package checks

import (
	"context"
	"testing"

	"relationship-manager/core/searchindex"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("Nil", func(t *testing.T) {
		_, err := CheckIndex(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("Counts", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := searchindex.NewClient(searchindex.Config{Addr: mr.Addr(), Prefix: "chk"})
		require.NoError(t, err)
		defer client.Close()

		mr.ZAdd(client.Key("artists"), 0, "a1")
		mr.ZAdd(client.Key("artists"), 1, "a2")
		mr.ZAdd(client.Key("studios"), 0, "s1")

		report, err := CheckIndex(ctx, client)
		require.NoError(t, err)
		assert.True(t, report.Reachable)
		assert.Equal(t, "chk", report.Prefix)
		assert.Equal(t, int64(2), report.Artists)
		assert.Equal(t, int64(1), report.Studios)
	})

	t.Run("Unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := searchindex.NewClient(searchindex.Config{Addr: mr.Addr(), Prefix: "chk"})
		require.NoError(t, err)
		defer client.Close()
		mr.Close()

		report, err := CheckIndex(ctx, client)
		require.NoError(t, err)
		assert.False(t, report.Reachable)
		assert.NotEmpty(t, report.Error)
	})
}
