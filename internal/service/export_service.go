package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/SiwakornInk/NurseDutyTable/internal/model"
	"github.com/SiwakornInk/NurseDutyTable/internal/repository"
	"github.com/SiwakornInk/NurseDutyTable/internal/solver"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmptyHistory = errors.New("历史快照中没有排班数据")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
	ErrExportNurseMissing = errors.New("历史快照中没有该护士的排班")
)

// 泰文显示用的星期与月份名
var thaiWeekdays = [7]string{"อา", "จ", "อ", "พ", "พฤ", "ศ", "ส"}

var thaiMonths = [12]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// ExportService 导出业务接口
//
// 设计说明：
//   - Excel 导出复刻历次排班的值班表网格：首列姓名，逐日班次代号
//     （ช/บ/ด，夜接午显示 ด,บ，休息显示 -），尾部六列统计
//   - ICS 导出按护士生成当月值班日历，供个人日历订阅
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportHistoryExcel 将某条历史快照导出为 Excel
	ExportHistoryExcel(ctx context.Context, historyID uint) (*bytes.Buffer, string, error)
	// ExportNurseICS 将某条历史快照中某护士的班表导出为 iCalendar
	ExportNurseICS(ctx context.Context, historyID uint, nurseID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// decodeHistoryResult 将历史快照的 JSONB 结果还原为求解结果结构。
func decodeHistoryResult(raw map[string]interface{}) (*solver.Result, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var result solver.Result
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	result.Raw = raw
	return &result, nil
}

// shiftCellText 按班次编码组合单元格文本。夜班接午班显示 "ด,บ"。
func shiftCellText(shifts []int) string {
	if len(shifts) == 0 {
		return "-"
	}
	sorted := append([]int(nil), shifts...)
	sort.Ints(sorted)

	hasAfternoon, hasNight := false, false
	for _, sh := range sorted {
		if sh == model.ShiftAfternoon {
			hasAfternoon = true
		}
		if sh == model.ShiftNight {
			hasNight = true
		}
	}
	if hasNight && hasAfternoon {
		return "ด,บ"
	}

	text := ""
	for i, sh := range sorted {
		if i > 0 {
			text += ","
		}
		switch sh {
		case model.ShiftMorning:
			text += "ช"
		case model.ShiftAfternoon:
			text += "บ"
		case model.ShiftNight:
			text += "ด"
		default:
			text += "?"
		}
	}
	return text
}

// nurseDisplayName 从快照中的护士信息拼装显示名。
func nurseDisplayName(n solver.NursePayload) string {
	name := n.FirstName + " " + n.LastName
	if n.Prefix != "" {
		name = n.Prefix + " " + name
	}
	return name
}

// orderedNurseIDs 按历史保存时固化的显示顺序排列快照中的护士，
// 顺序之外的护士（保存后才出现在快照中的异常数据）追加在末尾。
func orderedNurseIDs(result *solver.Result, displayOrder []string) []string {
	ids := make([]string, 0, len(result.NurseSchedules))
	seen := map[string]bool{}
	for _, id := range displayOrder {
		if _, ok := result.NurseSchedules[id]; ok {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	rest := make([]string, 0)
	for id := range result.NurseSchedules {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

// ═══════════════════════════════════════════════════════════
// ExportHistoryExcel — 导出历史快照为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 行 1：ชื่อ-สกุล | 日号... | เช้า บ่าย ดึก รวม ด+บ หยุด
//   - 行 2：空 | 泰文星期缩写... | 空
//   - 数据行：每护士一行，按保存时的显示顺序

func (s *exportService) ExportHistoryExcel(ctx context.Context, historyID uint) (*bytes.Buffer, string, error) {
	history, err := s.repo.History.GetByID(ctx, historyID)
	if err != nil {
		return nil, "", ErrHistoryNotFound
	}

	result, err := decodeHistoryResult(history.Result)
	if err != nil {
		s.logger.Error("解析历史快照失败", zap.Uint("id", historyID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	if len(result.Days) == 0 || len(result.NurseSchedules) == 0 {
		return nil, "", ErrExportEmptyHistory
	}

	days := make([]time.Time, 0, len(result.Days))
	for _, ds := range result.Days {
		d, err := time.Parse("2006-01-02", ds)
		if err != nil {
			s.logger.Error("历史快照日期非法", zap.String("date", ds))
			return nil, "", ErrExportGenerateFail
		}
		days = append(days, d)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "ตารางเวร"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 表头两行：日号 + 泰文星期
	f.SetCellValue(sheetName, "A1", "ชื่อ-สกุล")
	for i, d := range days {
		col := colName(i + 1)
		f.SetCellValue(sheetName, cell(col, 1), d.Day())
		f.SetCellValue(sheetName, cell(col, 2), thaiWeekdays[int(d.Weekday())])
		f.SetColWidth(sheetName, col, col, 5)
	}
	totalHeaders := []string{"เช้า", "บ่าย", "ดึก", "รวม", "ด+บ", "หยุด"}
	for i, h := range totalHeaders {
		col := colName(len(days) + 1 + i)
		f.SetCellValue(sheetName, cell(col, 1), h)
		f.SetColWidth(sheetName, col, col, 6)
	}
	f.SetColWidth(sheetName, "A", "A", 25)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetCellStyle(sheetName, "A1", cell(colName(len(days)+len(totalHeaders)), 2), headerStyle)

	// 数据行
	row := 3
	for _, nurseID := range orderedNurseIDs(result, history.NurseDisplayOrder) {
		ns := result.NurseSchedules[nurseID]
		counts := result.ShiftsCount[nurseID]

		f.SetCellValue(sheetName, cell("A", row), nurseDisplayName(ns.Nurse))
		for i, ds := range result.Days {
			f.SetCellValue(sheetName, cell(colName(i+1), row), shiftCellText(ns.Shifts[ds]))
		}
		totals := []int{counts.Morning, counts.Afternoon, counts.Night, counts.Total, counts.NightAfternoonDouble, counts.DaysOff}
		for i, v := range totals {
			f.SetCellValue(sheetName, cell(colName(len(days)+1+i), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	// 文件名带泰文月份与佛历年
	first := days[0]
	filename := fmt.Sprintf("ตารางเวร_%s_%d.xlsx", thaiMonths[int(first.Month())-1], first.Year()+543)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportNurseICS — 导出单个护士的值班日历
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportNurseICS(ctx context.Context, historyID uint, nurseID string) (*bytes.Buffer, string, error) {
	history, err := s.repo.History.GetByID(ctx, historyID)
	if err != nil {
		return nil, "", ErrHistoryNotFound
	}

	result, err := decodeHistoryResult(history.Result)
	if err != nil {
		s.logger.Error("解析历史快照失败", zap.Uint("id", historyID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	ns, ok := result.NurseSchedules[nurseID]
	if !ok {
		return nil, "", ErrExportNurseMissing
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//NurseDutyTable//Duty Calendar//TH")

	shiftNames := map[int]string{
		model.ShiftMorning:   "เวรเช้า (ช)",
		model.ShiftAfternoon: "เวรบ่าย (บ)",
		model.ShiftNight:     "เวรดึก (ด)",
	}

	for _, ds := range result.Days {
		shifts := ns.Shifts[ds]
		if len(shifts) == 0 {
			continue
		}
		day, err := time.Parse("2006-01-02", ds)
		if err != nil {
			continue
		}

		sorted := append([]int(nil), shifts...)
		sort.Ints(sorted)
		summary := ""
		for i, sh := range sorted {
			if i > 0 {
				summary += " + "
			}
			if name, ok := shiftNames[sh]; ok {
				summary += name
			} else {
				summary += fmt.Sprintf("เวร %d", sh)
			}
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%s@nurse-duty-table", nurseID, ds))
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(summary)
		event.SetDtStampTime(history.CreatedAt)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("duty_%s_%s.ics", history.MonthLabel, nurseID)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
