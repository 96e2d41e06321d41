package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/SiwakornInk/NurseDutyTable/internal/model"
	"github.com/SiwakornInk/NurseDutyTable/internal/repository"
)

// ── Mock NurseRepository ──

type mockNurseRepo struct {
	nurses map[string]*model.Nurse
	seq    int
}

func newMockNurseRepo() *mockNurseRepo {
	return &mockNurseRepo{nurses: make(map[string]*model.Nurse)}
}

func (m *mockNurseRepo) Create(_ context.Context, nurse *model.Nurse) error {
	if nurse.NurseID == "" {
		m.seq++
		nurse.NurseID = fmt.Sprintf("nurse-%d", m.seq)
	}
	if nurse.CreatedAt.IsZero() {
		nurse.CreatedAt = time.Now()
	}
	m.nurses[nurse.NurseID] = nurse
	return nil
}

func (m *mockNurseRepo) GetByID(_ context.Context, nurseID string) (*model.Nurse, error) {
	if n, ok := m.nurses[nurseID]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNurseRepo) ListOrdered(_ context.Context) ([]model.Nurse, error) {
	var result []model.Nurse
	for _, n := range m.nurses {
		result = append(result, *n)
	}
	sort.Slice(result, func(i, j int) bool {
		oi, oj := result[i].DisplayOrder, result[j].DisplayOrder
		switch {
		case oi != nil && oj != nil:
			return *oi < *oj
		case oi != nil:
			return true
		case oj != nil:
			return false
		default:
			return result[i].NurseID < result[j].NurseID
		}
	})
	return result, nil
}

func (m *mockNurseRepo) ListUnordered(_ context.Context) ([]model.Nurse, error) {
	var result []model.Nurse
	for _, n := range m.nurses {
		result = append(result, *n)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NurseID < result[j].NurseID
	})
	return result, nil
}

func (m *mockNurseRepo) Update(_ context.Context, nurseID string, updates map[string]interface{}) error {
	n, ok := m.nurses[nurseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "prefix":
			n.Prefix = v.(string)
		case "first_name":
			n.FirstName = v.(string)
		case "last_name":
			n.LastName = v.(string)
		case "is_government_official":
			n.IsGovernmentOfficial = v.(bool)
		case "quota_reset_month":
			if v == nil {
				n.QuotaResetMonth = nil
			} else {
				month := v.(int)
				n.QuotaResetMonth = &month
			}
		case "constraints":
			n.Constraints = v.(model.ConstraintList)
		}
	}
	return nil
}

func (m *mockNurseRepo) Delete(_ context.Context, nurseID string) error {
	delete(m.nurses, nurseID)
	return nil
}

func (m *mockNurseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.nurses)), nil
}

func (m *mockNurseRepo) Reorder(_ context.Context, nurseIDs []string) error {
	for i, id := range nurseIDs {
		if n, ok := m.nurses[id]; ok {
			order := i
			n.DisplayOrder = &order
		}
	}
	return nil
}

func (m *mockNurseRepo) SetCarryOverFlags(_ context.Context, flags map[string]bool) error {
	for id, flag := range flags {
		if n, ok := m.nurses[id]; ok {
			n.CarryOverPriorityFlag = flag
		}
	}
	return nil
}

// ── Mock SoftRequestRepository ──

type mockSoftRequestRepo struct {
	records map[string]*model.MonthlySoftRequest // key: nurseID_monthYear
}

func newMockSoftRequestRepo() *mockSoftRequestRepo {
	return &mockSoftRequestRepo{records: make(map[string]*model.MonthlySoftRequest)}
}

func softKey(nurseID, monthYear string) string {
	return nurseID + "_" + monthYear
}

func (m *mockSoftRequestRepo) Get(_ context.Context, nurseID, monthYear string) (*model.MonthlySoftRequest, error) {
	if r, ok := m.records[softKey(nurseID, monthYear)]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSoftRequestRepo) Upsert(_ context.Context, record *model.MonthlySoftRequest) error {
	record.UpdatedAt = time.Now()
	m.records[softKey(record.NurseID, record.MonthYear)] = record
	return nil
}

func (m *mockSoftRequestRepo) ListByMonth(_ context.Context, monthYear string) ([]model.MonthlySoftRequest, error) {
	var result []model.MonthlySoftRequest
	for _, r := range m.records {
		if r.MonthYear == monthYear {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockSoftRequestRepo) DeleteByNurse(_ context.Context, nurseID string) error {
	for key, r := range m.records {
		if r.NurseID == nurseID {
			delete(m.records, key)
		}
	}
	return nil
}

// ── Mock HardRequestRepository ──
// 镜像真实仓储的事务校验顺序：年度配额 → 当日名额 → 重复提交

type mockHardRequestRepo struct {
	requests []*model.ApprovedHardRequest
	seq      uint
}

func newMockHardRequestRepo() *mockHardRequestRepo {
	return &mockHardRequestRepo{}
}

func (m *mockHardRequestRepo) SubmitApproved(_ context.Context, req *model.ApprovedHardRequest) error {
	cycleEnd := req.QuotaCycleStart.AddDate(1, 0, 0)
	cycleCount, dailyCount := 0, 0
	for _, r := range m.requests {
		if r.NurseID == req.NurseID && !r.Date.Before(req.QuotaCycleStart) && r.Date.Before(cycleEnd) {
			cycleCount++
		}
		if r.Date.Equal(req.Date) {
			dailyCount++
		}
	}
	if cycleCount >= model.YearlyHardRequestQuota {
		return fmt.Errorf("%w（已用 %d/%d）", repository.ErrYearlyQuotaExceeded, cycleCount, model.YearlyHardRequestQuota)
	}
	if dailyCount >= model.MaxDailyHardRequests {
		return fmt.Errorf("%w（已用 %d/%d）", repository.ErrDailyCapReached, dailyCount, model.MaxDailyHardRequests)
	}
	for _, r := range m.requests {
		if r.NurseID == req.NurseID && r.Date.Equal(req.Date) {
			return repository.ErrDuplicateHardRequest
		}
	}
	m.seq++
	req.ID = m.seq
	m.requests = append(m.requests, req)
	return nil
}

func (m *mockHardRequestRepo) Cancel(_ context.Context, nurseID string, date time.Time) error {
	for i, r := range m.requests {
		if r.NurseID == nurseID && r.Date.Equal(date) {
			m.requests = append(m.requests[:i], m.requests[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockHardRequestRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]model.ApprovedHardRequest, error) {
	var result []model.ApprovedHardRequest
	for _, r := range m.requests {
		if !r.Date.Before(start) && !r.Date.After(end) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockHardRequestRepo) ListByNurseCycle(_ context.Context, nurseID string, cycleStart, cycleEnd time.Time) ([]model.ApprovedHardRequest, error) {
	var result []model.ApprovedHardRequest
	for _, r := range m.requests {
		if r.NurseID == nurseID && !r.Date.Before(cycleStart) && r.Date.Before(cycleEnd) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockHardRequestRepo) CountInCycle(_ context.Context, nurseID string, cycleStart, cycleEnd time.Time) (int64, error) {
	var count int64
	for _, r := range m.requests {
		if r.NurseID == nurseID && !r.Date.Before(cycleStart) && r.Date.Before(cycleEnd) {
			count++
		}
	}
	return count, nil
}

func (m *mockHardRequestRepo) CountByDate(_ context.Context, date time.Time) (int64, error) {
	var count int64
	for _, r := range m.requests {
		if r.Date.Equal(date) {
			count++
		}
	}
	return count, nil
}

func (m *mockHardRequestRepo) DeleteByNurse(_ context.Context, nurseID string) error {
	kept := m.requests[:0]
	for _, r := range m.requests {
		if r.NurseID != nurseID {
			kept = append(kept, r)
		}
	}
	m.requests = kept
	return nil
}

// ── Mock HistoryRepository ──

type mockHistoryRepo struct {
	histories map[uint]*model.ScheduleHistory
	seq       uint
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{histories: make(map[uint]*model.ScheduleHistory)}
}

func (m *mockHistoryRepo) Create(_ context.Context, history *model.ScheduleHistory) error {
	for _, h := range m.histories {
		if h.MonthLabel == history.MonthLabel {
			return gorm.ErrDuplicatedKey
		}
	}
	m.seq++
	history.ID = m.seq
	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now()
	}
	m.histories[history.ID] = history
	return nil
}

func (m *mockHistoryRepo) GetByID(_ context.Context, id uint) (*model.ScheduleHistory, error) {
	if h, ok := m.histories[id]; ok {
		return h, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHistoryRepo) GetByMonthLabel(_ context.Context, monthLabel string) (*model.ScheduleHistory, error) {
	for _, h := range m.histories {
		if h.MonthLabel == monthLabel {
			return h, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHistoryRepo) ListBriefs(_ context.Context) ([]model.ScheduleHistory, error) {
	var result []model.ScheduleHistory
	for _, h := range m.histories {
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MonthLabel > result[j].MonthLabel })
	return result, nil
}

func (m *mockHistoryRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.histories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.histories, id)
	return nil
}

// ── Mock OperatorRepository ──

type mockOperatorRepo struct {
	operators map[string]*model.Operator
	seq       int
}

func newMockOperatorRepo() *mockOperatorRepo {
	return &mockOperatorRepo{operators: make(map[string]*model.Operator)}
}

func (m *mockOperatorRepo) Create(_ context.Context, operator *model.Operator) error {
	if operator.OperatorID == "" {
		m.seq++
		operator.OperatorID = fmt.Sprintf("op-%d", m.seq)
	}
	m.operators[operator.OperatorID] = operator
	return nil
}

func (m *mockOperatorRepo) GetByID(_ context.Context, operatorID string) (*model.Operator, error) {
	if o, ok := m.operators[operatorID]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOperatorRepo) GetByUsername(_ context.Context, username string) (*model.Operator, error) {
	for _, o := range m.operators {
		if o.Username == username {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOperatorRepo) UpdatePassword(_ context.Context, operatorID, passwordHash string) error {
	o, ok := m.operators[operatorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PasswordHash = passwordHash
	return nil
}

func (m *mockOperatorRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.operators)), nil
}

// ── 聚合 ──

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		Nurse:       newMockNurseRepo(),
		SoftRequest: newMockSoftRequestRepo(),
		HardRequest: newMockHardRequestRepo(),
		History:     newMockHistoryRepo(),
		Operator:    newMockOperatorRepo(),
	}
}
