package di

import (
	"context"
	"testing"

	"orgchart-backend/domain/chart"
	"orgchart-backend/infrastructure/config"
	"orgchart-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestContainer(seedOnInit bool) (*Container, *memory.ChartStore) {
	store := memory.NewChartStore(zap.NewNop())
	return &Container{
		Config:     &config.Config{ChartKey: chart.DefaultKey, SeedOnInit: seedOnInit},
		Logger:     zap.NewNop(),
		ChartStore: store,
	}, store
}

func TestContainer_StartSeedsWhenEnabled(t *testing.T) {
	ctx := context.Background()

	c, store := newTestContainer(false)
	require.NoError(t, c.Start(ctx))
	assert.Empty(t, store.Read(ctx))

	c, store = newTestContainer(true)
	require.NoError(t, c.Start(ctx))
	assert.Len(t, store.Read(ctx), 3)
}

func TestContainer_ResetThenSeed(t *testing.T) {
	ctx := context.Background()
	c, store := newTestContainer(true)
	require.NoError(t, c.Start(ctx))
	require.NoError(t, store.Write(ctx, store.Read(ctx)[:1]))

	require.NoError(t, c.Reset(ctx))
	assert.Empty(t, store.Read(ctx))
	_, present := store.Raw()
	assert.False(t, present)

	require.NoError(t, c.Seed(ctx))
	seeded := store.Read(ctx)
	require.Len(t, seeded, 3)
	assert.Equal(t, "Jack Hill", seeded[0].Field(chart.FieldEmployeeName))
}
