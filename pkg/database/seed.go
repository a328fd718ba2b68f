package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-gate/backend/internal/model"
)

// 标准マスタ数据集：曜日 / 期 / 時限 / 学科 / 教室 / 授業科目。
// 全部走 ON CONFLICT 更新，重复播种幂等。
// 学生为演示数据，仅在 withDemo 时插入。

func seedWeekdays() []model.Weekday {
	return []model.Weekday{
		{Code: 0, Name: "日曜日"},
		{Code: 1, Name: "月曜日"},
		{Code: 2, Name: "火曜日"},
		{Code: 3, Name: "水曜日"},
		{Code: 4, Name: "木曜日"},
		{Code: 5, Name: "金曜日"},
		{Code: 6, Name: "土曜日"},
		{Code: 8, Name: "祝日"},
		{Code: 9, Name: "休講日"},
	}
}

func seedTerms() []model.Term {
	return []model.Term{
		{TermID: 1, Name: "一期"},
		{TermID: 2, Name: "二期"},
		{TermID: 3, Name: "三期"},
		{TermID: 4, Name: "四期"},
	}
}

func seedPeriods() []model.Period {
	return []model.Period{
		{Ordinal: 1, StartTime: "09:00", EndTime: "10:30"},
		{Ordinal: 2, StartTime: "10:40", EndTime: "12:10"},
		{Ordinal: 3, StartTime: "13:00", EndTime: "14:30"},
		{Ordinal: 4, StartTime: "14:40", EndTime: "16:10"},
	}
}

func seedDepartments() []model.Department {
	return []model.Department{
		{DepartmentID: 3, Name: "電子情報系"},
		{DepartmentID: 4, Name: "機械系"},
	}
}

func seedRooms() []model.Room {
	return []model.Room{
		{RoomID: 3301, Name: "C301", Capacity: 40},
		{RoomID: 3302, Name: "C302", Capacity: 40},
		{RoomID: 3101, Name: "C101", Capacity: 40},
		{RoomID: 3202, Name: "K302", Capacity: 40},
	}
}

func seedSubjects() []model.Subject {
	two := int16(2)
	return []model.Subject{
		{SubjectID: 317, Name: "機械実習Ⅰ", DepartmentID: 4, Credits: &two},
		{SubjectID: 321, Name: "制御回路設計製作実習", DepartmentID: 3, Credits: &two},
		{SubjectID: 380, Name: "標準課題Ⅰ", DepartmentID: 3, Credits: &two},
		{SubjectID: 381, Name: "標準課題Ⅱ", DepartmentID: 3, Credits: &two},
		{SubjectID: 400, Name: "電子情報系総合実習", DepartmentID: 3, Credits: &two},
		{SubjectID: 401, Name: "機械系総合実習", DepartmentID: 4, Credits: &two},
	}
}

func seedDemoStudents() []model.Student {
	return []model.Student{
		{StudentID: 2025001, Name: "佐藤 太郎", DepartmentID: 3, TermID: 3},
		{StudentID: 2025002, Name: "鈴木 花子", DepartmentID: 3, TermID: 3},
		{StudentID: 2025003, Name: "田中 次郎", DepartmentID: 4, TermID: 4},
	}
}

// Seed 播种マスタ数据；withDemo 时额外插入演示学生
func Seed(db *gorm.DB, withDemo bool, logger *zap.Logger) error {
	upsert := func(columns []string, updates []string, rows interface{}) error {
		cols := make([]clause.Column, 0, len(columns))
		for _, c := range columns {
			cols = append(cols, clause.Column{Name: c})
		}
		return db.Clauses(clause.OnConflict{
			Columns:   cols,
			DoUpdates: clause.AssignmentColumns(updates),
		}).Create(rows).Error
	}

	weekdays := seedWeekdays()
	if err := upsert([]string{"code"}, []string{"name"}, &weekdays); err != nil {
		return err
	}
	terms := seedTerms()
	if err := upsert([]string{"term_id"}, []string{"name"}, &terms); err != nil {
		return err
	}
	periods := seedPeriods()
	if err := upsert([]string{"ordinal"}, []string{"start_time", "end_time"}, &periods); err != nil {
		return err
	}
	depts := seedDepartments()
	if err := upsert([]string{"department_id"}, []string{"name"}, &depts); err != nil {
		return err
	}
	rooms := seedRooms()
	if err := upsert([]string{"room_id"}, []string{"name", "capacity"}, &rooms); err != nil {
		return err
	}
	subjects := seedSubjects()
	if err := upsert([]string{"subject_id"}, []string{"name", "department_id", "credits"}, &subjects); err != nil {
		return err
	}

	logger.Info("マスタ数据播种完成",
		zap.Int("weekdays", len(weekdays)),
		zap.Int("terms", len(terms)),
		zap.Int("periods", len(periods)),
		zap.Int("departments", len(depts)),
		zap.Int("rooms", len(rooms)),
		zap.Int("subjects", len(subjects)),
	)

	if withDemo {
		students := seedDemoStudents()
		if err := upsert([]string{"student_id"},
			[]string{"name", "department_id", "term_id"}, &students); err != nil {
			return err
		}
		logger.Info("演示学生已插入", zap.Int("students", len(students)))
	}

	return nil
}
