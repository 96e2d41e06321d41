//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SiwakornInk/NurseDutyTable/internal/model"
	"github.com/SiwakornInk/NurseDutyTable/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=nurse_duty password=nurse_duty_password dbname=nurse_duty_test sslmode=disable TimeZone=Asia/Bangkok"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.Operator{},
		&model.Nurse{},
		&model.MonthlySoftRequest{},
		&model.ApprovedHardRequest{},
		&model.ScheduleHistory{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupNurse 创建一名测试护士并返回清理函数
func setupNurse(t *testing.T) (*model.Nurse, func()) {
	t.Helper()
	ctx := context.Background()

	nurse := &model.Nurse{
		Prefix:    "นาง",
		FirstName: fmt.Sprintf("测试-%d", time.Now().UnixNano()),
		LastName:  "护士",
	}
	if err := testDB.WithContext(ctx).Create(nurse).Error; err != nil {
		t.Fatalf("创建护士失败: %v", err)
	}

	cleanup := func() {
		testDB.Where("nurse_id = ?", nurse.NurseID).Delete(&model.ApprovedHardRequest{})
		testDB.Where("nurse_id = ?", nurse.NurseID).Delete(&model.MonthlySoftRequest{})
		testDB.Where("nurse_id = ?", nurse.NurseID).Delete(&model.Nurse{})
	}
	return nurse, cleanup
}

func dateAt(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// ═══════════════════════════════════════════════════════════
// Test: Hard Request Submit Transaction
// ═══════════════════════════════════════════════════════════

func TestHardRequest_YearlyQuotaEnforced(t *testing.T) {
	nurse, cleanup := setupNurse(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	cycleStart := dateAt(2026, 6, 1)

	// 用满 5 个年度名额（日期分散避免触发当日上限）
	for i := 0; i < model.YearlyHardRequestQuota; i++ {
		req := &model.ApprovedHardRequest{
			NurseID:         nurse.NurseID,
			Date:            dateAt(2026, 7, 1+i),
			QuotaCycleStart: cycleStart,
		}
		if err := repo.HardRequest.SubmitApproved(ctx, req); err != nil {
			t.Fatalf("第 %d 次提交应成功: %v", i+1, err)
		}
	}

	// 第 6 次应触发年度配额错误
	req := &model.ApprovedHardRequest{
		NurseID:         nurse.NurseID,
		Date:            dateAt(2026, 7, 10),
		QuotaCycleStart: cycleStart,
	}
	err := repo.HardRequest.SubmitApproved(ctx, req)
	if !errors.Is(err, repository.ErrYearlyQuotaExceeded) {
		t.Errorf("期望 ErrYearlyQuotaExceeded，得到: %v", err)
	}

	// 不同配额年度不受影响
	req2 := &model.ApprovedHardRequest{
		NurseID:         nurse.NurseID,
		Date:            dateAt(2027, 7, 1),
		QuotaCycleStart: dateAt(2027, 6, 1),
	}
	if err := repo.HardRequest.SubmitApproved(ctx, req2); err != nil {
		t.Errorf("新配额年度的提交应成功: %v", err)
	}
}

func TestHardRequest_QuotaCountedByDateWindow(t *testing.T) {
	nurse, cleanup := setupNurse(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	// 六月起算的年度内用满 5 个名额
	for i := 0; i < model.YearlyHardRequestQuota; i++ {
		req := &model.ApprovedHardRequest{
			NurseID:         nurse.NurseID,
			Date:            dateAt(2026, 7, 1+i),
			QuotaCycleStart: dateAt(2026, 6, 1),
		}
		if err := repo.HardRequest.SubmitApproved(ctx, req); err != nil {
			t.Fatalf("第 %d 次提交应成功: %v", i+1, err)
		}
	}

	// 重置月改为一月后，新归属戳的窗口 [2026-01-01, 2027-01-01) 仍覆盖
	// 上述 7 月日期：配额按日期窗口统计，不因归属戳不同而放宽
	req := &model.ApprovedHardRequest{
		NurseID:         nurse.NurseID,
		Date:            dateAt(2026, 8, 20),
		QuotaCycleStart: dateAt(2026, 1, 1),
	}
	err := repo.HardRequest.SubmitApproved(ctx, req)
	if !errors.Is(err, repository.ErrYearlyQuotaExceeded) {
		t.Errorf("期望 ErrYearlyQuotaExceeded，得到: %v", err)
	}

	count, err := repo.HardRequest.CountInCycle(ctx, nurse.NurseID, dateAt(2026, 1, 1), dateAt(2027, 1, 1))
	if err != nil {
		t.Fatalf("CountInCycle 失败: %v", err)
	}
	if count != int64(model.YearlyHardRequestQuota) {
		t.Errorf("日期窗口计数错误: 期望 %d，得到 %d", model.YearlyHardRequestQuota, count)
	}
}

func TestHardRequest_DailyCapEnforced(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	date := dateAt(2026, 9, 15)
	cycleStart := dateAt(2026, 6, 1)

	var cleanups []func()
	defer func() {
		for _, fn := range cleanups {
			fn()
		}
	}()

	// 3 名护士占满当日名额
	for i := 0; i < model.MaxDailyHardRequests; i++ {
		nurse, cleanup := setupNurse(t)
		cleanups = append(cleanups, cleanup)
		req := &model.ApprovedHardRequest{
			NurseID:         nurse.NurseID,
			Date:            date,
			QuotaCycleStart: cycleStart,
		}
		if err := repo.HardRequest.SubmitApproved(ctx, req); err != nil {
			t.Fatalf("第 %d 名护士提交应成功: %v", i+1, err)
		}
	}

	// 第 4 名护士应触发当日上限错误
	nurse, cleanup := setupNurse(t)
	cleanups = append(cleanups, cleanup)
	req := &model.ApprovedHardRequest{
		NurseID:         nurse.NurseID,
		Date:            date,
		QuotaCycleStart: cycleStart,
	}
	err := repo.HardRequest.SubmitApproved(ctx, req)
	if !errors.Is(err, repository.ErrDailyCapReached) {
		t.Errorf("期望 ErrDailyCapReached，得到: %v", err)
	}
}

func TestHardRequest_DuplicateRejected(t *testing.T) {
	nurse, cleanup := setupNurse(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	date := dateAt(2026, 10, 5)
	cycleStart := dateAt(2026, 6, 1)

	req := &model.ApprovedHardRequest{
		NurseID:         nurse.NurseID,
		Date:            date,
		QuotaCycleStart: cycleStart,
	}
	if err := repo.HardRequest.SubmitApproved(ctx, req); err != nil {
		t.Fatalf("首次提交应成功: %v", err)
	}

	dup := &model.ApprovedHardRequest{
		NurseID:         nurse.NurseID,
		Date:            date,
		QuotaCycleStart: cycleStart,
	}
	err := repo.HardRequest.SubmitApproved(ctx, dup)
	if !errors.Is(err, repository.ErrDuplicateHardRequest) {
		t.Errorf("期望 ErrDuplicateHardRequest，得到: %v", err)
	}
}

func TestHardRequest_CancelMissing(t *testing.T) {
	nurse, cleanup := setupNurse(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	err := repo.HardRequest.Cancel(ctx, nurse.NurseID, dateAt(2026, 11, 1))
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("撤销不存在的请求应返回 ErrRecordNotFound，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Soft Request Upsert
// ═══════════════════════════════════════════════════════════

func TestSoftRequest_UpsertOverwrites(t *testing.T) {
	nurse, cleanup := setupNurse(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.MonthlySoftRequest{
		NurseID:   nurse.NurseID,
		MonthYear: "2026-09",
		Requests: model.SoftRequestList{
			{Type: model.ConstraintNoSundays},
		},
	}
	if err := repo.SoftRequest.Upsert(ctx, first); err != nil {
		t.Fatalf("首次 Upsert 失败: %v", err)
	}

	second := &model.MonthlySoftRequest{
		NurseID:   nurse.NurseID,
		MonthYear: "2026-09",
		Requests: model.SoftRequestList{
			{Type: model.ConstraintNoSpecificDays, Days: []int{3, 7}, IsHighPriority: true},
		},
	}
	if err := repo.SoftRequest.Upsert(ctx, second); err != nil {
		t.Fatalf("覆盖 Upsert 失败: %v", err)
	}

	got, err := repo.SoftRequest.Get(ctx, nurse.NurseID, "2026-09")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(got.Requests) != 1 || got.Requests[0].Type != model.ConstraintNoSpecificDays {
		t.Errorf("Upsert 应整体覆盖原记录，得到: %+v", got.Requests)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Nurse Reorder
// ═══════════════════════════════════════════════════════════

func TestNurse_ReorderRewritesAll(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	n1, c1 := setupNurse(t)
	defer c1()
	n2, c2 := setupNurse(t)
	defer c2()
	n3, c3 := setupNurse(t)
	defer c3()

	if err := repo.Nurse.Reorder(ctx, []string{n3.NurseID, n1.NurseID, n2.NurseID}); err != nil {
		t.Fatalf("Reorder 失败: %v", err)
	}

	got, err := repo.Nurse.GetByID(ctx, n3.NurseID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.DisplayOrder == nil || *got.DisplayOrder != 0 {
		t.Errorf("n3 的 display_order 应为 0，得到: %v", got.DisplayOrder)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: History Month Label Unique
// ═══════════════════════════════════════════════════════════

func TestHistory_MonthLabelUnique(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	label := fmt.Sprintf("2%03d-01", time.Now().UnixNano()%1000)
	h1 := &model.ScheduleHistory{
		MonthLabel: label,
		Result:     model.JSONMap{"solverStatus": "OPTIMAL"},
	}
	if err := repo.History.Create(ctx, h1); err != nil {
		t.Fatalf("创建历史失败: %v", err)
	}
	defer testDB.Where("id = ?", h1.ID).Delete(&model.ScheduleHistory{})

	h2 := &model.ScheduleHistory{
		MonthLabel: label,
		Result:     model.JSONMap{"solverStatus": "FEASIBLE"},
	}
	err := repo.History.Create(ctx, h2)
	if err == nil {
		testDB.Where("id = ?", h2.ID).Delete(&model.ScheduleHistory{})
		t.Fatal("同月份重复保存应违反唯一约束")
	}
}
