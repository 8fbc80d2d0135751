package engine

import (
	"sdsgen/pkg/config"
	"sdsgen/pkg/parser"
	"sdsgen/pkg/schema"
)

// Roster holds the resolved person entities plus the cleaned source
// candidates that later stages join against. Teachers and Students keep
// every cleaned row (pre-dedup) because one person can appear in several
// source rows; Retained marks the sourcedIds actually emitted as users.
type Roster struct {
	Users    []schema.User
	Teachers []schema.TeacherRecord
	Students []schema.StudentRecord
	Retained map[string]bool
	Stats    PersonStats
}

// PersonStats counts row-level drops during person resolution.
type PersonStats struct {
	TeacherCandidates        int
	StudentCandidates        int
	DroppedMissingField      int
	DroppedNoUsername        int
	DroppedDuplicateUsername int
}

// ResolvePersons filters admin rows into teacher records and student rows
// into student records, derives usernames and stable ids, and produces the
// deduplicated user set.
//
// Username collisions are resolved by the teacher-precedence rule: teachers
// are resolved before students and the first occurrence of a username wins,
// so a student colliding with a teacher is dropped.
func ResolvePersons(admin, students *parser.Table, cfg *config.Config) *Roster {
	r := &Roster{Retained: make(map[string]bool)}

	for _, row := range admin.Rows {
		if row[schema.ColJobTitle] != schema.JobTitleTeacher {
			continue
		}
		r.Stats.TeacherCandidates++

		code := row[schema.ColStaffCode]
		name := row[schema.ColStaffName]
		if code == "" || name == "" {
			r.Stats.DroppedMissingField++
			continue
		}
		username, ok := schema.DeriveUsername(name, cfg.StaffDomain)
		if !ok {
			r.Stats.DroppedNoUsername++
			continue
		}
		r.Teachers = append(r.Teachers, schema.TeacherRecord{
			StaffCode: code,
			FullName:  name,
			SourcedID: schema.TeacherIDPrefix + code,
			Username:  username,
		})
	}

	for _, row := range students.Rows {
		r.Stats.StudentCandidates++

		rec := schema.StudentRecord{
			EnrollmentNumber: row[schema.ColEnrollmentNum],
			FullName:         row[schema.ColStudentName],
			SchoolID:         row[schema.ColSchoolID],
			GradeName:        row[schema.ColGradeName],
			ClassName:        row[schema.ColClassName],
			AcademicYear:     row[schema.ColAcademicYear],
			ClassCode:        row[schema.ColClassCode],
		}
		if rec.EnrollmentNumber == "" || rec.FullName == "" || rec.SchoolID == "" ||
			rec.GradeName == "" || rec.ClassName == "" {
			r.Stats.DroppedMissingField++
			continue
		}
		username, ok := schema.DeriveUsername(rec.FullName, cfg.StudentDomain)
		if !ok {
			r.Stats.DroppedNoUsername++
			continue
		}
		rec.SourcedID = schema.StudentIDPrefix + rec.EnrollmentNumber
		rec.Username = username
		r.Students = append(r.Students, rec)
	}

	seen := make(map[string]bool)
	addUser := func(sourcedID, fullName, username string) {
		if seen[username] {
			r.Stats.DroppedDuplicateUsername++
			return
		}
		seen[username] = true
		given, family := schema.SplitName(fullName)
		r.Users = append(r.Users, schema.User{
			SourcedID:  sourcedID,
			Username:   username,
			GivenName:  given,
			FamilyName: family,
		})
		r.Retained[sourcedID] = true
	}
	for _, t := range r.Teachers {
		addUser(t.SourcedID, t.FullName, t.Username)
	}
	for _, s := range r.Students {
		addUser(s.SourcedID, s.FullName, s.Username)
	}

	return r
}

// TeacherByCode indexes teacher candidates by staff code, first occurrence
// wins. All rows sharing a staff code map to the same sourcedId anyway.
func (r *Roster) TeacherByCode() map[string]string {
	index := make(map[string]string, len(r.Teachers))
	for _, t := range r.Teachers {
		if _, ok := index[t.StaffCode]; !ok {
			index[t.StaffCode] = t.SourcedID
		}
	}
	return index
}
