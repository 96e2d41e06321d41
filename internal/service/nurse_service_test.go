package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/SiwakornInk/NurseDutyTable/internal/dto"
	"github.com/SiwakornInk/NurseDutyTable/internal/model"
	"github.com/SiwakornInk/NurseDutyTable/internal/repository"
)

func newNurseFixture(t *testing.T) (*repository.Repository, NurseService) {
	t.Helper()
	repo := newMockRepository()
	return repo, NewNurseService(repo, zap.NewNop())
}

func TestNurseCreate_DuplicateName(t *testing.T) {
	_, svc := newNurseFixture(t)
	ctx := context.Background()

	req := &dto.CreateNurseRequest{FirstName: "สมศรี", LastName: "ใจดี"}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}
	if _, err := svc.Create(ctx, req); !errors.Is(err, ErrDuplicateNurseName) {
		t.Errorf("期望 ErrDuplicateNurseName，得到: %v", err)
	}

	// 仅姓或仅名相同不算重复
	if _, err := svc.Create(ctx, &dto.CreateNurseRequest{FirstName: "สมศรี", LastName: "อื่น"}); err != nil {
		t.Errorf("同名不同姓应允许: %v", err)
	}
}

func TestNurseCreate_ConstraintValidation(t *testing.T) {
	_, svc := newNurseFixture(t)
	ctx := context.Background()

	cases := []struct {
		name        string
		constraints []model.Constraint
		wantErr     bool
	}{
		{"合法长期约束", []model.Constraint{{Type: model.ConstraintNoSundays, Strength: model.StrengthHard}}, false},
		{"合法日期约束", []model.Constraint{{Type: model.ConstraintNoSpecificDays, Days: []int{1, 31}}}, false},
		{"未知类型", []model.Constraint{{Type: "no_full_moons"}}, true},
		{"非法强度", []model.Constraint{{Type: model.ConstraintNoSundays, Strength: "medium"}}, true},
		{"日期越界", []model.Constraint{{Type: model.ConstraintNoSpecificDays, Days: []int{0}}}, true},
		{"班次编码越界", []model.Constraint{{Type: model.ConstraintRequestShiftsOnDays, Shifts: []model.ShiftRequest{{Day: 5, Shift: 9}}}}, true},
	}

	for i, tc := range cases {
		req := &dto.CreateNurseRequest{
			FirstName:   "ทดสอบ",
			LastName:    string(rune('ก' + i)),
			Constraints: tc.constraints,
		}
		_, err := svc.Create(ctx, req)
		if tc.wantErr && !errors.Is(err, ErrInvalidConstraint) {
			t.Errorf("%s: 期望 ErrInvalidConstraint，得到: %v", tc.name, err)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: 不应报错: %v", tc.name, err)
		}
	}
}

func TestNurseUpdate_ClearQuotaResetMonth(t *testing.T) {
	_, svc := newNurseFixture(t)
	ctx := context.Background()

	month := 2
	created, err := svc.Create(ctx, &dto.CreateNurseRequest{
		FirstName:       "สมศรี",
		LastName:        "ใจดี",
		QuotaResetMonth: &month,
	})
	if err != nil {
		t.Fatalf("创建护士失败: %v", err)
	}

	resp, err := svc.Update(ctx, created.NurseID, &dto.UpdateNurseRequest{ClearQuotaResetMonth: true})
	if err != nil {
		t.Fatalf("Update 失败: %v", err)
	}
	if resp.QuotaResetMonth != nil {
		t.Errorf("配额重置月应被清除，得到: %d", *resp.QuotaResetMonth)
	}

	if _, err := svc.Update(ctx, "00000000-0000-0000-0000-000000000000", &dto.UpdateNurseRequest{}); !errors.Is(err, ErrNurseNotFound) {
		t.Errorf("更新不存在护士应返回 ErrNurseNotFound，得到: %v", err)
	}
}

func TestNurseDelete_CascadesRequests(t *testing.T) {
	repo, svc := newNurseFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateNurseRequest{FirstName: "สมศรี", LastName: "ใจดี"})
	if err != nil {
		t.Fatalf("创建护士失败: %v", err)
	}

	if err := repo.SoftRequest.Upsert(ctx, &model.MonthlySoftRequest{
		NurseID:   created.NurseID,
		MonthYear: "2026-09",
		Requests:  model.SoftRequestList{{Type: model.ConstraintNoSundays}},
	}); err != nil {
		t.Fatalf("写入软请求失败: %v", err)
	}
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	if err := repo.HardRequest.SubmitApproved(ctx, &model.ApprovedHardRequest{
		NurseID:         created.NurseID,
		Date:            date,
		QuotaCycleStart: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("写入硬请求失败: %v", err)
	}

	if err := svc.Delete(ctx, created.NurseID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}

	if _, err := repo.SoftRequest.Get(ctx, created.NurseID, "2026-09"); err == nil {
		t.Error("软请求应随护士删除")
	}
	count, _ := repo.HardRequest.CountByDate(ctx, date)
	if count != 0 {
		t.Errorf("硬请求应随护士删除，剩余 %d 条", count)
	}

	if err := svc.Delete(ctx, created.NurseID); !errors.Is(err, ErrNurseNotFound) {
		t.Errorf("重复删除应返回 ErrNurseNotFound，得到: %v", err)
	}
}

func TestNurseReorder(t *testing.T) {
	_, svc := newNurseFixture(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, &dto.CreateNurseRequest{FirstName: "หนึ่ง", LastName: "ก"})
	b, _ := svc.Create(ctx, &dto.CreateNurseRequest{FirstName: "สอง", LastName: "ข"})

	cases := []struct {
		name string
		ids  []string
	}{
		{"缺少护士", []string{a.NurseID}},
		{"包含未知 ID", []string{a.NurseID, "ghost"}},
		{"重复 ID", []string{a.NurseID, a.NurseID}},
	}
	for _, tc := range cases {
		if err := svc.Reorder(ctx, &dto.ReorderNursesRequest{NurseIDs: tc.ids}); !errors.Is(err, ErrReorderListMismatch) {
			t.Errorf("%s: 期望 ErrReorderListMismatch，得到: %v", tc.name, err)
		}
	}

	if err := svc.Reorder(ctx, &dto.ReorderNursesRequest{NurseIDs: []string{b.NurseID, a.NurseID}}); err != nil {
		t.Fatalf("合法排序失败: %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(list) != 2 || list[0].NurseID != b.NurseID || *list[0].DisplayOrder != 0 {
		t.Errorf("排序未生效: %+v", list)
	}
}
