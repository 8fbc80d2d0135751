package engine

import (
	"fmt"

	"sdsgen/pkg/config"
	"sdsgen/pkg/logger"
	"sdsgen/pkg/parser"
	"sdsgen/pkg/schema"
	"sdsgen/pkg/writer"
)

// Run executes the full conversion: load the three SIS exports, resolve
// persons, roles, classes and enrollments, and write the five roster
// tables. A load failure aborts before any output is written; row-level
// defects are dropped silently and surface only as aggregate counts in the
// log.
func Run(cfg *config.Config, log *logger.Logger) error {
	admin, err := parser.Load(cfg.AdminFile)
	if err != nil {
		return fmt.Errorf("load admin table: %w", err)
	}
	students, err := parser.Load(cfg.StudentFile)
	if err != nil {
		return fmt.Errorf("load student table: %w", err)
	}
	schedule, err := parser.Load(cfg.ScheduleFile)
	if err != nil {
		return fmt.Errorf("load schedule table: %w", err)
	}
	log.Info("source tables loaded",
		"admin_rows", len(admin.Rows),
		"student_rows", len(students.Rows),
		"schedule_rows", len(schedule.Rows),
	)
	warnParseIssues(log, "admin", admin)
	warnParseIssues(log, "students", students)
	warnParseIssues(log, "schedule", schedule)

	roster := ResolvePersons(admin, students, cfg)
	log.Info("persons resolved",
		"users", len(roster.Users),
		"teacher_candidates", roster.Stats.TeacherCandidates,
		"student_candidates", roster.Stats.StudentCandidates,
		"dropped_missing_field", roster.Stats.DroppedMissingField,
		"dropped_no_username", roster.Stats.DroppedNoUsername,
		"dropped_duplicate_username", roster.Stats.DroppedDuplicateUsername,
	)

	scheduleRecs, droppedSchedule := CleanSchedule(schedule)

	orgs := Organizations(cfg)

	roles, roleStats := ResolveRoles(roster, scheduleRecs, cfg)
	log.Info("roles resolved",
		"roles", len(roles),
		"dropped_schedule_rows", droppedSchedule,
		"dropped_unknown_school", roleStats.DroppedUnknownSchool,
		"dropped_duplicate_pair", roleStats.DroppedDuplicatePair,
	)

	classes, classStats := ResolveClasses(roster, scheduleRecs, cfg)
	log.Info("classes resolved",
		"classes", len(classes),
		"dropped_missing_key", classStats.DroppedMissingKey,
		"deduplicated", classStats.DroppedDuplicateKey,
		"backfilled_year", classStats.BackfilledYear,
	)

	enrollments, enrollStats := ResolveEnrollments(roster, scheduleRecs, classes)
	log.Info("enrollments resolved",
		"enrollments", len(enrollments),
		"dropped_no_class", enrollStats.DroppedNoClass,
		"dropped_unknown_teacher", enrollStats.DroppedUnknownTeacher,
		"deduplicated", enrollStats.DroppedDuplicate,
	)

	tables := []writer.Table{
		usersTable(roster.Users),
		orgsTable(orgs),
		rolesTable(roles),
		classesTable(classes),
		enrollmentsTable(enrollments),
	}
	if err := writer.WriteAll(cfg.OutputDir, tables); err != nil {
		return fmt.Errorf("write output tables: %w", err)
	}
	log.Info("roster files written", "dir", cfg.OutputDir, "files", len(tables))
	return nil
}

// warnParseIssues surfaces repaired and skipped rows in aggregate; the rows
// themselves stay silently excluded.
func warnParseIssues(log *logger.Logger, table string, t *parser.Table) {
	if len(t.Warnings) == 0 {
		return
	}
	log.Warn("rows repaired or skipped during load",
		"table", table,
		"count", len(t.Warnings),
		"first", t.Warnings[0].Message,
	)
}

func usersTable(users []schema.User) writer.Table {
	t := writer.Table{
		Name:    "users.csv",
		Columns: []string{"sourcedId", "username", "givenName", "familyName"},
		Rows:    make([][]string, 0, len(users)),
	}
	for _, u := range users {
		t.Rows = append(t.Rows, []string{u.SourcedID, u.Username, u.GivenName, u.FamilyName})
	}
	return t
}

func orgsTable(orgs []schema.Org) writer.Table {
	t := writer.Table{
		Name:    "orgs.csv",
		Columns: []string{"sourcedId", "name", "type"},
		Rows:    make([][]string, 0, len(orgs)),
	}
	for _, o := range orgs {
		t.Rows = append(t.Rows, []string{o.SourcedID, o.Name, o.Type})
	}
	return t
}

func rolesTable(roles []schema.Role) writer.Table {
	t := writer.Table{
		Name:    "roles.csv",
		Columns: []string{"sourcedId", "userSourcedId", "orgSourcedId", "role", "isPrimary"},
		Rows:    make([][]string, 0, len(roles)),
	}
	for _, r := range roles {
		t.Rows = append(t.Rows, []string{r.SourcedID, r.UserSourcedID, r.OrgSourcedID, r.Role, r.IsPrimary})
	}
	return t
}

func classesTable(classes []schema.Class) writer.Table {
	t := writer.Table{
		Name:    "classes.csv",
		Columns: []string{"sourcedId", "title", "orgSourcedId"},
		Rows:    make([][]string, 0, len(classes)),
	}
	for _, c := range classes {
		t.Rows = append(t.Rows, []string{c.SourcedID, c.Title, c.OrgSourcedID})
	}
	return t
}

func enrollmentsTable(enrollments []schema.Enrollment) writer.Table {
	t := writer.Table{
		Name:    "enrollments.csv",
		Columns: []string{"sourcedId", "classSourcedId", "userSourcedId", "role"},
		Rows:    make([][]string, 0, len(enrollments)),
	}
	for _, e := range enrollments {
		t.Rows = append(t.Rows, []string{e.SourcedID, e.ClassSourcedID, e.UserSourcedID, e.Role})
	}
	return t
}
