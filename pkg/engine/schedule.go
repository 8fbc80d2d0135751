package engine

import (
	"sdsgen/pkg/parser"
	"sdsgen/pkg/schema"
)

// CleanSchedule drops schedule rows missing any of the fields the role and
// class joins require. Class code is not required here; rows without one
// simply never match a class.
func CleanSchedule(t *parser.Table) ([]schema.ScheduleRecord, int) {
	records := make([]schema.ScheduleRecord, 0, len(t.Rows))
	dropped := 0
	for _, row := range t.Rows {
		rec := schema.ScheduleRecord{
			TeacherCode: row[schema.ColTeacherCode],
			SchoolID:    row[schema.ColSchoolID],
			GradeName:   row[schema.ColGradeName],
			ClassName:   row[schema.ColClassName],
			ClassCode:   row[schema.ColClassCode],
		}
		if rec.TeacherCode == "" || rec.SchoolID == "" || rec.GradeName == "" || rec.ClassName == "" {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}
