package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/model"
	"campus-gate/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords    = errors.New("指定条件下无出席記録")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 出席記録导出为 Excel (.xlsx)，支持与日志查询相同的筛选条件
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 记录按 occurred_at 升序，便于按日核对
type ExportService interface {
	// ExportAttendance 导出出席記録为 Excel
	ExportAttendance(ctx context.Context, q *dto.LogQuery) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAttendance — 导出出席記録为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "出席記録"
//   - 列：日付 / 時刻 / 学籍番号 / 氏名 / 区分 / 出欠 / 授業科目 / 教室 / 備考
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportAttendance(ctx context.Context, q *dto.LogQuery) (*bytes.Buffer, string, error) {
	filter := repository.LogFilter{StudentID: q.StudentID, Status: q.Status}
	if q.From != "" {
		from, err := parseDate(q.From)
		if err != nil {
			return nil, "", ErrCalendarBadDate
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := parseDate(q.To)
		if err != nil {
			return nil, "", ErrCalendarBadDate
		}
		// 含当日
		t := to.AddDate(0, 0, 1)
		filter.To = &t
	}

	events, err := s.repo.Attendance.ListAllForExport(ctx, filter)
	if err != nil {
		s.logger.Error("查询出席記録失败", zap.Error(err))
		return nil, "", err
	}
	if len(events) == 0 {
		return nil, "", ErrExportNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "出席記録"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 设置列宽
	widths := []float64{12, 10, 12, 16, 10, 12, 20, 12, 24}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, w)
	}

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	headers := []string{"日付", "時刻", "学籍番号", "氏名", "区分", "出欠", "授業科目", "教室", "備考"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	// 数据行
	row := 2
	for i := range events {
		e := &events[i]

		studentName := ""
		if e.Student != nil {
			studentName = e.Student.Name
		}
		subjectName := ""
		if e.Subject != nil {
			subjectName = e.Subject.Name
		}
		roomName := ""
		if e.Room != nil {
			roomName = e.Room.Name
		}

		f.SetCellValue(sheetName, cell("A", row), e.OccurredAt.Format("2006-01-02"))
		f.SetCellValue(sheetName, cell("B", row), e.OccurredAt.Format("15:04:05"))
		f.SetCellValue(sheetName, cell("C", row), e.StudentID)
		f.SetCellValue(sheetName, cell("D", row), studentName)
		f.SetCellValue(sheetName, cell("E", row), directionLabel(e.Direction))
		f.SetCellValue(sheetName, cell("F", row), statusLabel(e.Status))
		f.SetCellValue(sheetName, cell("G", row), subjectName)
		f.SetCellValue(sheetName, cell("H", row), roomName)
		f.SetCellValue(sheetName, cell("I", row), e.Note)
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	first := events[0].OccurredAt.Format("20060102")
	last := events[len(events)-1].OccurredAt.Format("20060102")
	filename := fmt.Sprintf("出席記録_%s_%s.xlsx", first, last)
	return buf, filename, nil
}

// ── 辅助函数 ──

// directionLabel 入退室区分的日文表示
func directionLabel(direction string) string {
	switch direction {
	case model.DirectionEnter:
		return "入室"
	case model.DirectionExit:
		return "退室"
	case model.DirectionNone:
		return "（補記）"
	default:
		return direction
	}
}

// statusLabel 出席状況的日文表示
func statusLabel(status string) string {
	switch status {
	case model.StatusPresent:
		return "出席"
	case model.StatusLate:
		return "遅刻"
	case model.StatusAbsent:
		return "欠席"
	case model.StatusMidEntry:
		return "中途入室"
	case model.StatusMidExit:
		return "中途退室"
	case model.StatusNotApplicable:
		return "対象外"
	case model.StatusUndetermined:
		return "未判定"
	default:
		return status
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
