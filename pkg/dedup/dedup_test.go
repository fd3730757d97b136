package dedup_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/stockalert/pkg/dedup"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemory_SuppressesWithinTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := &clock{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	d := dedup.NewMemory(dedup.WithClock(clk.Now))
	key := "low_stock:item-1:wh-1"

	suppressed, err := d.ShouldSuppress(ctx, key)
	require.NoError(t, err)
	assert.False(t, suppressed)

	require.NoError(t, d.Arm(ctx, key, dedup.DefaultTTL))

	clk.Advance(23 * time.Hour)
	suppressed, _ = d.ShouldSuppress(ctx, key)
	assert.True(t, suppressed)

	clk.Advance(time.Hour)
	suppressed, _ = d.ShouldSuppress(ctx, key)
	assert.False(t, suppressed)
}

func TestMemory_ArmDoesNotExtendLiveKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := &clock{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	d := dedup.NewMemory(dedup.WithClock(clk.Now))
	key := "out_of_stock:item-1:wh-1"

	require.NoError(t, d.Arm(ctx, key, time.Hour))
	clk.Advance(30 * time.Minute)
	require.NoError(t, d.Arm(ctx, key, time.Hour))
	clk.Advance(30 * time.Minute)

	suppressed, _ := d.ShouldSuppress(ctx, key)
	assert.False(t, suppressed)
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := dedup.NewMemory()
	require.NoError(t, d.Arm(ctx, "low_stock:item-1:wh-1", time.Hour))

	for _, key := range []string{"out_of_stock:item-1:wh-1", "low_stock:item-1:wh-2", "low_stock:item-2:wh-1"} {
		suppressed, err := d.ShouldSuppress(ctx, key)
		require.NoError(t, err)
		assert.False(t, suppressed, key)
	}
}

func TestMemory_DefaultTTLForNonPositive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := &clock{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	d := dedup.NewMemory(dedup.WithClock(clk.Now))

	require.NoError(t, d.Arm(ctx, "k", 0))
	clk.Advance(dedup.DefaultTTL - time.Second)
	suppressed, _ := d.ShouldSuppress(ctx, "k")
	assert.True(t, suppressed)
}

func TestMemory_LiveKeysSurviveCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := &clock{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	d := dedup.NewMemory(dedup.WithCapacity(3), dedup.WithClock(clk.Now))

	for i := range 5 {
		require.NoError(t, d.Arm(ctx, fmt.Sprintf("low_stock:item-%d:wh-1", i), time.Minute))
	}

	for i := range 5 {
		suppressed, err := d.ShouldSuppress(ctx, fmt.Sprintf("low_stock:item-%d:wh-1", i))
		require.NoError(t, err)
		assert.True(t, suppressed, i)
	}

	clk.Advance(time.Minute)
	assert.Equal(t, 5, d.Purge())
	assert.Equal(t, 0, d.Purge())
}
