package db

import (
	"context"
	"sync"
	"testing"

	"Gin_postgres_redis_inventory_tool/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanItem_SetsStatusAndTimestamp(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedItems(t, r, "S1")

	it, err := r.ScanItem(ctx, "S1", "op")
	require.NoError(t, err)
	assert.Equal(t, models.ItemScanned, it.Status)
	require.NotNil(t, it.ScanTimestamp)

	stored := getItem(t, r, "S1")
	assert.Equal(t, models.ItemScanned, stored.Status)
	require.NotNil(t, stored.ScanTimestamp)

	assert.EqualValues(t, 1, countActivity(t, r, models.ActionScan))
	assertScanInvariant(t, r)
}

func TestScanItem_NotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.ScanItem(context.Background(), "missing", "op")
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.EqualValues(t, 0, countActivity(t, r, models.ActionScan))
}

func TestScanItem_SecondScanRejected(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedItems(t, r, "S1")

	_, err := r.ScanItem(ctx, "S1", "op")
	require.NoError(t, err)

	_, err = r.ScanItem(ctx, "S1", "op")
	assert.ErrorIs(t, err, ErrAlreadyScanned)

	// 拒绝不是状态迁移：只留一条扫描流水
	assert.EqualValues(t, 1, countActivity(t, r, models.ActionScan))
}

func TestScanItem_LostRaceIsConflict(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedItems(t, r, "S1")

	// 预检后、UPDATE 前被别人扫掉的情形：直接把行改成 scanned
	// 模拟输掉竞争，谓词必须兜住
	it := getItem(t, r, "S1")
	require.Equal(t, models.ItemAvailable, it.Status)
	_, err := r.ScanItem(ctx, "S1", "rival")
	require.NoError(t, err)

	res := r.DB.Model(&models.Item{}).
		Where("barcode = ? AND status <> ?", "S1", models.ItemScanned).
		Updates(map[string]any{"status": models.ItemScanned})
	require.NoError(t, res.Error)
	assert.EqualValues(t, 0, res.RowsAffected, "guard predicate must reject the loser")
}

func TestScanItem_ConcurrentSingleWinner(t *testing.T) {
	r := newTestRepo(t)
	seedItems(t, r, "S1")

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.ScanItem(context.Background(), "S1", "op")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.True(t,
			err == ErrAlreadyScanned || err == ErrScanConflict,
			"loser must get AlreadyScanned or ScanConflict, got %v", err)
	}
	assert.Equal(t, 1, wins, "exactly one scan wins")
	assert.Equal(t, models.ItemScanned, getItem(t, r, "S1").Status)
	assert.EqualValues(t, 1, countActivity(t, r, models.ActionScan))
	assertScanInvariant(t, r)
}

func TestResetScans_SingleAndAll(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedItems(t, r, "S1", "S2", "S3")
	for _, b := range []string{"S1", "S2", "S3"} {
		_, err := r.ScanItem(ctx, b, "op")
		require.NoError(t, err)
	}

	n, err := r.ResetScans(ctx, "S2", "op")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, models.ItemAvailable, getItem(t, r, "S2").Status)
	assert.Nil(t, getItem(t, r, "S2").ScanTimestamp)
	assert.Equal(t, models.ItemScanned, getItem(t, r, "S1").Status)

	n, err = r.ResetScans(ctx, "", "op")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assertScanInvariant(t, r)

	// 幂等：再清一次没行可改
	n, err = r.ResetScans(ctx, "", "op")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
