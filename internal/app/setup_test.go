package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barbridge/internal/pagination"
	"barbridge/internal/slogx"
)

func TestCreateProvider(t *testing.T) {
	logger := slogx.Discard()

	dp, err := CreateProvider(&Config{DataProvider: "binance"}, logger)
	require.NoError(t, err)
	assert.Equal(t, "Binance", dp.GetName())
	require.NoError(t, dp.Close())

	dp, err = CreateProvider(&Config{DataProvider: "polygon", PolygonAPIKeys: []string{"k"}, KeyStrategy: "least-used"}, logger)
	require.NoError(t, err)
	assert.Equal(t, "Polygon", dp.GetName())
	require.NoError(t, dp.Close())

	_, err = CreateProvider(&Config{DataProvider: "polygon"}, logger)
	assert.Error(t, err)

	_, err = CreateProvider(&Config{DataProvider: "polygon", PolygonAPIKeys: []string{"k"}, KeyStrategy: "random"}, logger)
	assert.Error(t, err)

	_, err = CreateProvider(&Config{DataProvider: "ib"}, logger)
	assert.ErrorContains(t, err, "unsupported data provider")
}

func TestProvideDataProviderSerializes(t *testing.T) {
	dp, err := ProvideDataProvider(&Config{DataProvider: "binance", MaxInFlight: 1}, slogx.Discard())
	require.NoError(t, err)
	assert.Equal(t, "Binance", dp.GetName())
	require.NoError(t, dp.Close())
}

func TestProvidePaginationConfig(t *testing.T) {
	pc, err := ProvidePaginationConfig(&Config{Window: time.Hour, Granularity: time.Minute, RTHOnly: true, Order: "chronological"})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, pc.Window)
	assert.Equal(t, pagination.OrderChronological, pc.Order)
	assert.True(t, pc.RTHOnly)

	_, err = ProvidePaginationConfig(&Config{Order: "nope"})
	assert.Error(t, err)
}
