package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/SiwakornInk/NurseDutyTable/internal/dto"
	"github.com/SiwakornInk/NurseDutyTable/internal/model"
	"github.com/SiwakornInk/NurseDutyTable/internal/repository"
)

func newSoftRequestFixture(t *testing.T) (*repository.Repository, SoftRequestService, *model.Nurse) {
	t.Helper()
	repo := newMockRepository()
	svc := NewSoftRequestService(repo, zap.NewNop())

	nurse := &model.Nurse{FirstName: "สมศรี", LastName: "ใจดี"}
	if err := repo.Nurse.Create(context.Background(), nurse); err != nil {
		t.Fatalf("创建护士失败: %v", err)
	}
	return repo, svc, nurse
}

func TestSoftRequestSave_Validation(t *testing.T) {
	_, svc, nurse := newSoftRequestFixture(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		entries []model.SoftRequestEntry
		wantErr error
	}{
		{
			name: "超过两条",
			entries: []model.SoftRequestEntry{
				{Type: model.ConstraintNoSundays},
				{Type: model.ConstraintNoMondays},
				{Type: model.ConstraintNoTuesdays},
			},
			wantErr: ErrTooManyRequests,
		},
		{
			name: "类型重复",
			entries: []model.SoftRequestEntry{
				{Type: model.ConstraintNoSundays},
				{Type: model.ConstraintNoSundays},
			},
			wantErr: ErrDuplicateRequestType,
		},
		{
			name: "两条都标记高优先级",
			entries: []model.SoftRequestEntry{
				{Type: model.ConstraintNoSundays, IsHighPriority: true},
				{Type: model.ConstraintNoMondays, IsHighPriority: true},
			},
			wantErr: ErrTooManyHighPriority,
		},
		{
			name: "日期超出当月",
			entries: []model.SoftRequestEntry{
				{Type: model.ConstraintNoSpecificDays, Days: []int{31}}, // 2026-09 只有 30 天
			},
			wantErr: ErrInvalidRequestDay,
		},
		{
			name: "单条超过两天",
			entries: []model.SoftRequestEntry{
				{Type: model.ConstraintNoSpecificDays, Days: []int{1, 2, 3}},
			},
			wantErr: ErrTooManyRequestDays,
		},
		{
			name: "两条请求的日期重叠",
			entries: []model.SoftRequestEntry{
				{Type: model.ConstraintNoSpecificDays, Days: []int{10}},
				{Type: model.ConstraintRequestShiftsOnDays, Shifts: []model.ShiftRequest{{Day: 10, Shift: model.ShiftMorning}}},
			},
			wantErr: ErrDuplicateRequestDay,
		},
		{
			name: "未知类型",
			entries: []model.SoftRequestEntry{
				{Type: "no_overtime"},
			},
			wantErr: ErrInvalidConstraint,
		},
		{
			name: "班次编码非法",
			entries: []model.SoftRequestEntry{
				{Type: model.ConstraintRequestShiftsOnDays, Shifts: []model.ShiftRequest{{Day: 5, Shift: 9}}},
			},
			wantErr: ErrInvalidConstraint,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Save(ctx, nurse.NurseID, &dto.SaveSoftRequestsRequest{
				MonthYear: "2026-09",
				Requests:  tc.entries,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("期望 %v，得到: %v", tc.wantErr, err)
			}
		})
	}
}

func TestSoftRequestSave_GovOfficialRejected(t *testing.T) {
	repo, svc, _ := newSoftRequestFixture(t)
	ctx := context.Background()

	official := &model.Nurse{FirstName: "วิภา", LastName: "ราชการ", IsGovernmentOfficial: true}
	if err := repo.Nurse.Create(ctx, official); err != nil {
		t.Fatalf("创建护士失败: %v", err)
	}

	_, err := svc.Save(ctx, official.NurseID, &dto.SaveSoftRequestsRequest{MonthYear: "2026-09"})
	if !errors.Is(err, ErrGovOfficialNotAllowed) {
		t.Errorf("期望 ErrGovOfficialNotAllowed，得到: %v", err)
	}
	_, err = svc.Get(ctx, official.NurseID, "2026-09")
	if !errors.Is(err, ErrGovOfficialNotAllowed) {
		t.Errorf("查询同样应拒绝公务员护士，得到: %v", err)
	}
}

func TestSoftRequestSave_AndGet(t *testing.T) {
	_, svc, nurse := newSoftRequestFixture(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, nurse.NurseID, &dto.SaveSoftRequestsRequest{
		MonthYear: "2026-09",
		Requests: []model.SoftRequestEntry{
			{Type: model.ConstraintNoSpecificDays, Days: []int{3, 7}, IsHighPriority: true},
			{Type: model.ConstraintNoNightShifts},
		},
	})
	if err != nil {
		t.Fatalf("Save 失败: %v", err)
	}
	if len(saved.Requests) != 2 {
		t.Fatalf("期望 2 条请求，得到 %d", len(saved.Requests))
	}

	got, err := svc.Get(ctx, nurse.NurseID, "2026-09")
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if got.Carried {
		t.Error("当月有记录时不应标记为推导内容")
	}
	if len(got.Requests) != 2 {
		t.Errorf("期望 2 条请求，得到 %d", len(got.Requests))
	}
}

func TestSoftRequestGet_CarriesTypesFromPreviousMonth(t *testing.T) {
	_, svc, nurse := newSoftRequestFixture(t)
	ctx := context.Background()

	// 上月保存：一条日期型高优先级 + 一条非日期型
	if _, err := svc.Save(ctx, nurse.NurseID, &dto.SaveSoftRequestsRequest{
		MonthYear: "2026-08",
		Requests: []model.SoftRequestEntry{
			{Type: model.ConstraintNoSpecificDays, Days: []int{5, 20}, IsHighPriority: true},
			{Type: model.ConstraintNoNightShifts},
		},
	}); err != nil {
		t.Fatalf("Save 上月请求失败: %v", err)
	}

	got, err := svc.Get(ctx, nurse.NurseID, "2026-09")
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if !got.Carried {
		t.Fatal("当月无记录时应返回上月推导内容")
	}
	if len(got.Requests) != 2 {
		t.Fatalf("期望 2 条推导请求，得到 %d", len(got.Requests))
	}

	// 日期型：类型保留、日期值清空、高优先级取消
	first := got.Requests[0]
	if first.Type != model.ConstraintNoSpecificDays {
		t.Errorf("类型应保留，得到: %s", first.Type)
	}
	if len(first.Days) != 0 {
		t.Errorf("日期值应清空，得到: %v", first.Days)
	}
	if first.IsHighPriority {
		t.Error("日期型推导条目应取消高优先级")
	}
	// 非日期型：类型保留
	if got.Requests[1].Type != model.ConstraintNoNightShifts {
		t.Errorf("非日期型类型应保留，得到: %s", got.Requests[1].Type)
	}
}

func TestSoftRequestGet_NonDayTypeKeepsHighPriority(t *testing.T) {
	_, svc, nurse := newSoftRequestFixture(t)
	ctx := context.Background()

	if _, err := svc.Save(ctx, nurse.NurseID, &dto.SaveSoftRequestsRequest{
		MonthYear: "2026-08",
		Requests: []model.SoftRequestEntry{
			{Type: model.ConstraintNoSundays, IsHighPriority: true},
		},
	}); err != nil {
		t.Fatalf("Save 失败: %v", err)
	}

	got, err := svc.Get(ctx, nurse.NurseID, "2026-09")
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if !got.Carried || len(got.Requests) != 1 {
		t.Fatalf("推导内容异常: %+v", got)
	}
	if !got.Requests[0].IsHighPriority {
		t.Error("非日期型推导条目应保留高优先级")
	}
}

func TestSoftRequestGet_EmptyWhenNoHistory(t *testing.T) {
	_, svc, nurse := newSoftRequestFixture(t)

	got, err := svc.Get(context.Background(), nurse.NurseID, "2026-09")
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if got.Carried || len(got.Requests) != 0 {
		t.Errorf("上月也无记录时应返回空列表: %+v", got)
	}
}
