package db

import (
	"context"
	"path/filepath"
	"testing"

	"Gin_postgres_redis_inventory_tool/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 测试库：纯 Go sqlite，临时文件。单连接串行化，
// 避免 SQLITE_BUSY——条件更新的输赢由谓词决定，不靠时序
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "inventory.db")
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(gdb))
	return NewRepo(gdb)
}

func seedItems(t *testing.T, r *Repo, barcodes ...string) {
	t.Helper()
	items := make([]models.Item, 0, len(barcodes))
	for _, b := range barcodes {
		items = append(items, models.Item{Barcode: b, Name: "item " + b})
	}
	_, err := r.BulkUpsertItems(context.Background(), items, "tester")
	require.NoError(t, err)
}

func getItem(t *testing.T, r *Repo, barcode string) *models.Item {
	t.Helper()
	it, err := r.FindItemByBarcode(context.Background(), barcode)
	require.NoError(t, err)
	return it
}

func countActivity(t *testing.T, r *Repo, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, r.DB.Model(&models.ActivityLog{}).
		Where("action = ?", action).Count(&n).Error)
	return n
}

// 不变量：scanned ⇔ scan_timestamp 非空，全表
func assertScanInvariant(t *testing.T, r *Repo) {
	t.Helper()
	var items []models.Item
	require.NoError(t, r.DB.Find(&items).Error)
	for _, it := range items {
		if it.Status == models.ItemScanned {
			assert.NotNil(t, it.ScanTimestamp, "scanned item %s must carry a scan timestamp", it.Barcode)
		} else {
			assert.Nil(t, it.ScanTimestamp, "item %s is %s but carries a scan timestamp", it.Barcode, it.Status)
		}
	}
}

func TestBulkUpsertItems_UpsertByBarcode(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	n, err := r.BulkUpsertItems(ctx, []models.Item{
		{Barcode: "B1", Name: "Drill", Brand: "Makita", Price: 120000},
	}, "importer")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	first := getItem(t, r, "B1")

	// 再导一次同条码：描述字段后写覆盖，不产生第二行
	_, err = r.BulkUpsertItems(ctx, []models.Item{
		{Barcode: "B1", Name: "Drill XL", Brand: "Makita", Price: 150000},
	}, "importer")
	require.NoError(t, err)

	var total int64
	require.NoError(t, r.DB.Model(&models.Item{}).Where("barcode = ?", "B1").Count(&total).Error)
	assert.EqualValues(t, 1, total)

	second := getItem(t, r, "B1")
	assert.Equal(t, first.ID, second.ID, "upsert must keep the original row")
	assert.Equal(t, "Drill XL", second.Name)
	assert.EqualValues(t, 150000, second.Price)
	assert.Equal(t, models.ItemAvailable, second.Status)
}

func TestBulkUpsertItems_DoesNotTouchStatus(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedItems(t, r, "B1")

	_, err := r.ScanItem(ctx, "B1", "tester")
	require.NoError(t, err)

	// 导入不得碰借还/盘点状态机
	_, err = r.BulkUpsertItems(ctx, []models.Item{{Barcode: "B1", Name: "renamed"}}, "importer")
	require.NoError(t, err)

	it := getItem(t, r, "B1")
	assert.Equal(t, models.ItemScanned, it.Status)
	assert.NotNil(t, it.ScanTimestamp)
	assert.Equal(t, "renamed", it.Name)
}

func TestListAvailableItems_FiltersAndSearches(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedItems(t, r, "AA1", "AA2", "BB1")

	_, err := r.CreateLoan(ctx, CreateLoanInput{
		BorrowerID: "K-1", BorrowerName: "Ani", Inputter: "op",
		Barcodes: []string{"AA2"}, PeriodDays: 7,
	})
	require.NoError(t, err)

	items, err := r.ListAvailableItems(ctx, "aa", 50)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "AA1", items[0].Barcode)

	all, err := r.ListAvailableItems(ctx, "", 50)
	require.NoError(t, err)
	assert.Len(t, all, 2) // AA1 + BB1
}

func TestCasStatus_OnlyFlipsExpected(t *testing.T) {
	r := newTestRepo(t)
	seedItems(t, r, "C1")

	n, err := casStatus(r.DB, "C1", models.ItemOnLoan, models.ItemAvailable, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n, "wrong expected status must not match")

	n, err = casStatus(r.DB, "C1", models.ItemAvailable, models.ItemOnLoan, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, models.ItemOnLoan, getItem(t, r, "C1").Status)
}

func TestUpsertBorrower_ByNationalID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.UpsertBorrower(ctx, &models.Borrower{NationalID: "3175001", Name: "Ani", Phone: "0811"}))
	require.NoError(t, r.UpsertBorrower(ctx, &models.Borrower{NationalID: "3175001", Name: "Ani S.", Phone: "0812"}))

	b, err := r.FindBorrowerByNationalID(ctx, "3175001")
	require.NoError(t, err)
	assert.Equal(t, "Ani S.", b.Name)
	assert.Equal(t, "0812", b.Phone)

	var total int64
	require.NoError(t, r.DB.Model(&models.Borrower{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)

	_, err = r.FindBorrowerByNationalID(ctx, "nope")
	assert.ErrorIs(t, err, ErrBorrowerNotFound)
}
