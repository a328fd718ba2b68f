package model

// Room 教室 — 对应 rooms
type Room struct {
	RoomID   int16  `gorm:"type:smallint;primaryKey"  json:"room_id"`
	Name     string `gorm:"type:varchar(50);not null" json:"name"`
	Capacity int16  `gorm:"type:smallint;not null"    json:"capacity"`
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
