package service

import (
	"testing"
	"time"

	"campus-gate/backend/internal/model"
)

func classifyAt(hour, minute int, direction string, priors []model.AttendanceEvent) string {
	start := time.Date(2025, 10, 1, 9, 0, 0, 0, time.Local)
	end := time.Date(2025, 10, 1, 10, 30, 0, 0, time.Local)
	return Classify(ClassifyInput{
		Direction:    direction,
		EventTime:    time.Date(2025, 10, 1, hour, minute, 0, 0, time.Local),
		SessionStart: start,
		SessionEnd:   end,
		HasSession:   true,
		Priors:       priors,
	}, DefaultThresholds)
}

// ── 入室判定：阈值边界 ──

func TestClassify_Enter_Thresholds(t *testing.T) {
	// 授课 09:00 开始，阈值 10/20：
	// Δ<=10 出席、10<Δ<=20 迟到、Δ>20 欠席（边界均为闭区间）
	cases := []struct {
		hour, minute int
		want         string
	}{
		{8, 50, model.StatusPresent}, // 提前入室
		{9, 0, model.StatusPresent},
		{9, 10, model.StatusPresent}, // 宽限期末端
		{9, 11, model.StatusLate},
		{9, 20, model.StatusLate}, // 迟到边界
		{9, 21, model.StatusAbsent},
		{10, 0, model.StatusAbsent},
	}
	for _, c := range cases {
		got := classifyAt(c.hour, c.minute, model.DirectionEnter, nil)
		if got != c.want {
			t.Errorf("%02d:%02d 入室期望=%s，实际=%s", c.hour, c.minute, c.want, got)
		}
	}
}

func TestClassify_NoSession(t *testing.T) {
	got := Classify(ClassifyInput{
		Direction:  model.DirectionEnter,
		EventTime:  time.Date(2025, 10, 1, 9, 5, 0, 0, time.Local),
		HasSession: false,
	}, DefaultThresholds)
	if got != model.StatusNotApplicable {
		t.Errorf("无授课时段期望=not_applicable，实际=%s", got)
	}
}

// ── 中途入退室 ──

func TestClassify_Exit_MidExit(t *testing.T) {
	// 授课中先入室后退室 → 中途退室
	priors := []model.AttendanceEvent{
		{Direction: model.DirectionEnter, OccurredAt: time.Date(2025, 10, 1, 9, 2, 0, 0, time.Local)},
	}
	got := classifyAt(9, 50, model.DirectionExit, priors)
	if got != model.StatusMidExit {
		t.Errorf("授课结束前退室期望=mid_exit，实际=%s", got)
	}
}

func TestClassify_Exit_WithoutPriorEnter(t *testing.T) {
	// 没有先行入室的退室无法解释 → not_applicable
	got := classifyAt(9, 50, model.DirectionExit, nil)
	if got != model.StatusNotApplicable {
		t.Errorf("无先行入室的退室期望=not_applicable，实际=%s", got)
	}
}

func TestClassify_Exit_AfterSessionEnd(t *testing.T) {
	// 授课结束后的退室是正常离校，不记中途退室
	priors := []model.AttendanceEvent{
		{Direction: model.DirectionEnter, OccurredAt: time.Date(2025, 10, 1, 9, 2, 0, 0, time.Local)},
	}
	start := time.Date(2025, 10, 1, 9, 0, 0, 0, time.Local)
	end := time.Date(2025, 10, 1, 10, 30, 0, 0, time.Local)
	got := Classify(ClassifyInput{
		Direction:    model.DirectionExit,
		EventTime:    time.Date(2025, 10, 1, 10, 45, 0, 0, time.Local),
		SessionStart: start,
		SessionEnd:   end,
		HasSession:   false, // 10:45 已出時限，解析不到授课
		Priors:       priors,
	}, DefaultThresholds)
	if got != model.StatusNotApplicable {
		t.Errorf("授课结束后退室期望=not_applicable，实际=%s", got)
	}
}

func TestClassify_Enter_MidEntry(t *testing.T) {
	// 离开后再次进入 → 中途入室，阈值判定让位
	priors := []model.AttendanceEvent{
		{Direction: model.DirectionEnter, OccurredAt: time.Date(2025, 10, 1, 9, 2, 0, 0, time.Local)},
		{Direction: model.DirectionExit, OccurredAt: time.Date(2025, 10, 1, 9, 30, 0, 0, time.Local)},
	}
	got := classifyAt(9, 55, model.DirectionEnter, priors)
	if got != model.StatusMidEntry {
		t.Errorf("再入室期望=mid_entry，实际=%s", got)
	}
}

func TestClassify_Enter_PriorExitOutsideSession(t *testing.T) {
	// 先行退室在授课时段之外（如早晨离校）不触发中途入室
	priors := []model.AttendanceEvent{
		{Direction: model.DirectionExit, OccurredAt: time.Date(2025, 10, 1, 8, 0, 0, 0, time.Local)},
	}
	got := classifyAt(9, 5, model.DirectionEnter, priors)
	if got != model.StatusPresent {
		t.Errorf("时段外退室不应触发 mid_entry，实际=%s", got)
	}
}
