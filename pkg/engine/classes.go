package engine

import (
	"fmt"

	"sdsgen/pkg/config"
	"sdsgen/pkg/schema"
)

// classKey is the composite natural key identifying a class across the two
// source tables. The emitted sourcedId is the class code alone (the source
// system treats it as globally unique); the index stays school-scoped so
// joins are correct even if that assumption fails.
type classKey struct {
	SchoolID  string
	ClassCode string
}

// ClassStats counts row-level drops during class construction.
type ClassStats struct {
	Candidates          int
	DroppedMissingKey   int
	DroppedDuplicateKey int
	BackfilledYear      int
}

// ResolveClasses builds the master class table from the union of student
// and schedule rows. Dedup is by (school, class code), first occurrence
// wins, so the student-table version of a class takes precedence over the
// schedule's when their descriptive fields disagree. Schedule rows carry no
// academic year; missing years are back-filled with the modal year observed
// across all student rows.
func ResolveClasses(r *Roster, schedule []schema.ScheduleRecord, cfg *config.Config) ([]schema.Class, ClassStats) {
	type candidate struct {
		schoolID  string
		gradeName string
		className string
		year      string
		classCode string
	}

	candidates := make([]candidate, 0, len(r.Students)+len(schedule))
	for _, s := range r.Students {
		candidates = append(candidates, candidate{s.SchoolID, s.GradeName, s.ClassName, s.AcademicYear, s.ClassCode})
	}
	for _, rec := range schedule {
		candidates = append(candidates, candidate{rec.SchoolID, rec.GradeName, rec.ClassName, "", rec.ClassCode})
	}

	defaultYear := modalYear(r.Students)

	var classes []schema.Class
	var stats ClassStats
	seen := make(map[classKey]bool)
	for _, c := range candidates {
		stats.Candidates++
		if c.schoolID == "" || c.classCode == "" {
			stats.DroppedMissingKey++
			continue
		}
		key := classKey{c.schoolID, c.classCode}
		if seen[key] {
			stats.DroppedDuplicateKey++
			continue
		}
		seen[key] = true

		year := c.year
		if year == "" {
			year = defaultYear
			stats.BackfilledYear++
		}
		classes = append(classes, schema.Class{
			SourcedID:    c.classCode,
			Title:        c.className + " - " + c.gradeName + " " + year,
			OrgSourcedID: cfg.SchoolOrgs[c.schoolID],
			SchoolID:     c.schoolID,
			ClassCode:    c.classCode,
		})
	}

	return classes, stats
}

// modalYear returns the most frequent non-empty academic year among student
// rows; ties go to the lexicographically smallest value. No years at all
// yields the empty string.
func modalYear(students []schema.StudentRecord) string {
	counts := make(map[string]int)
	for _, s := range students {
		if s.AcademicYear != "" {
			counts[s.AcademicYear]++
		}
	}

	best, bestCount := "", 0
	for year, n := range counts {
		if n > bestCount || (n == bestCount && year < best) {
			best, bestCount = year, n
		}
	}
	return best
}

// EnrollmentStats counts row-level drops during enrollment resolution.
type EnrollmentStats struct {
	DroppedNoClass        int
	DroppedNotRetained    int
	DroppedUnknownTeacher int
	DroppedDuplicate      int
}

// ResolveEnrollments inner-joins retained students and scheduled teachers to
// the class master table on (school, class code). Student links come first,
// then teacher links; exact duplicate (user, class, role) links collapse to
// one, and the survivors get sequential ENROLL_<n> surrogate ids counted
// over the final deduplicated order.
func ResolveEnrollments(r *Roster, schedule []schema.ScheduleRecord, classes []schema.Class) ([]schema.Enrollment, EnrollmentStats) {
	classByKey := make(map[classKey]string, len(classes))
	for _, c := range classes {
		classByKey[classKey{c.SchoolID, c.ClassCode}] = c.SourcedID
	}
	teacherByCode := r.TeacherByCode()

	type link struct {
		userID  string
		classID string
		role    string
	}
	var links []link
	var stats EnrollmentStats

	for _, s := range r.Students {
		if !r.Retained[s.SourcedID] {
			stats.DroppedNotRetained++
			continue
		}
		classID, ok := classByKey[classKey{s.SchoolID, s.ClassCode}]
		if !ok {
			stats.DroppedNoClass++
			continue
		}
		links = append(links, link{s.SourcedID, classID, schema.RoleStudent})
	}

	for _, rec := range schedule {
		userID, ok := teacherByCode[rec.TeacherCode]
		if !ok {
			stats.DroppedUnknownTeacher++
			continue
		}
		if !r.Retained[userID] {
			stats.DroppedNotRetained++
			continue
		}
		classID, ok := classByKey[classKey{rec.SchoolID, rec.ClassCode}]
		if !ok {
			stats.DroppedNoClass++
			continue
		}
		links = append(links, link{userID, classID, schema.RoleTeacher})
	}

	seen := make(map[link]bool)
	enrollments := make([]schema.Enrollment, 0, len(links))
	for _, l := range links {
		if seen[l] {
			stats.DroppedDuplicate++
			continue
		}
		seen[l] = true
		enrollments = append(enrollments, schema.Enrollment{
			SourcedID:      fmt.Sprintf("ENROLL_%d", len(enrollments)),
			ClassSourcedID: l.classID,
			UserSourcedID:  l.userID,
			Role:           l.role,
		})
	}

	return enrollments, stats
}
