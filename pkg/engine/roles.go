package engine

import (
	"sdsgen/pkg/config"
	"sdsgen/pkg/schema"
)

// Organizations materializes the statically configured organization rows.
func Organizations(cfg *config.Config) []schema.Org {
	orgs := make([]schema.Org, 0, len(cfg.Orgs))
	for _, o := range cfg.Orgs {
		orgs = append(orgs, schema.Org{
			SourcedID: o.SourcedID,
			Name:      o.Name,
			Type:      schema.OrgTypeSchool,
		})
	}
	return orgs
}

// RoleStats counts row-level drops during role resolution.
type RoleStats struct {
	DroppedUnknownSchool int
	DroppedDuplicatePair int
}

// ResolveRoles links each retained person to an organization. Students map
// through the configured school-to-org table. Teachers are placed in a
// school only by the schedule: the distinct (staff code, school) pairs are
// joined to teacher candidates by staff code, so an admin-only teacher who
// is never scheduled gets no role at all. Candidates with an unmapped
// school are dropped, never emitted with a dangling org reference.
func ResolveRoles(r *Roster, schedule []schema.ScheduleRecord, cfg *config.Config) ([]schema.Role, RoleStats) {
	var roles []schema.Role
	var stats RoleStats
	seen := make(map[string]bool)

	add := func(userID, schoolID, role string) {
		orgID, ok := cfg.SchoolOrgs[schoolID]
		if !ok {
			stats.DroppedUnknownSchool++
			return
		}
		key := userID + "\x00" + orgID
		if seen[key] {
			stats.DroppedDuplicatePair++
			return
		}
		seen[key] = true
		roles = append(roles, schema.Role{
			SourcedID:     "ROLE_" + userID + "_" + orgID,
			UserSourcedID: userID,
			OrgSourcedID:  orgID,
			Role:          role,
			IsPrimary:     "true",
		})
	}

	for _, s := range r.Students {
		if !r.Retained[s.SourcedID] {
			continue
		}
		add(s.SourcedID, s.SchoolID, schema.RoleStudent)
	}

	teacherByCode := r.TeacherByCode()
	seenPair := make(map[string]bool)
	for _, rec := range schedule {
		pair := rec.TeacherCode + "\x00" + rec.SchoolID
		if seenPair[pair] {
			continue
		}
		seenPair[pair] = true

		userID, ok := teacherByCode[rec.TeacherCode]
		if !ok || !r.Retained[userID] {
			continue
		}
		add(userID, rec.SchoolID, schema.RoleTeacher)
	}

	return roles, stats
}
