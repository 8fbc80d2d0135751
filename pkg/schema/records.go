package schema

// Column names of the three SIS export files. The SIS contract fixes these;
// a column that is absent simply reads as empty and the affected rows fall
// out through the required-field drops.
const (
	ColJobTitle      = "NomeCargo"
	ColStaffCode     = "CodigoFuncionario"
	ColStaffName     = "NomeFuncionario"
	ColEnrollmentNum = "NumeroMatricula"
	ColStudentName   = "NomeCompleto"
	ColSchoolID      = "EscolaID"
	ColGradeName     = "NomeSerie"
	ColClassName     = "NomeTurma"
	ColAcademicYear  = "AnoLetivo"
	ColClassCode     = "CodigoTurma"
	ColTeacherCode   = "CodigoProfessor"
)

// JobTitleTeacher is the admin-table job title that marks a teaching position.
const JobTitleTeacher = "Professor(a)"

const (
	TeacherIDPrefix = "PROF_"
	StudentIDPrefix = "ALUNO_"

	RoleTeacher = "teacher"
	RoleStudent = "student"

	OrgTypeSchool = "school"
)

// User is one users.csv row.
type User struct {
	SourcedID  string
	Username   string
	GivenName  string
	FamilyName string
}

// Org is one orgs.csv row. Organizations are statically configured, never
// derived from source data.
type Org struct {
	SourcedID string
	Name      string
	Type      string
}

// Role is one roles.csv row linking a person to an organization.
type Role struct {
	SourcedID     string
	UserSourcedID string
	OrgSourcedID  string
	Role          string
	IsPrimary     string
}

// Class is one classes.csv row. SchoolID and ClassCode carry the composite
// natural key for joins; only SourcedID, Title and OrgSourcedID are written.
type Class struct {
	SourcedID    string
	Title        string
	OrgSourcedID string
	SchoolID     string
	ClassCode    string
}

// Enrollment is one enrollments.csv row linking a person to a class.
type Enrollment struct {
	SourcedID      string
	ClassSourcedID string
	UserSourcedID  string
	Role           string
}

// TeacherRecord is a cleaned admin-table teacher row carrying the fields
// later joins need.
type TeacherRecord struct {
	StaffCode string
	FullName  string
	SourcedID string
	Username  string
}

// StudentRecord is a cleaned student-table row.
type StudentRecord struct {
	EnrollmentNumber string
	FullName         string
	SchoolID         string
	GradeName        string
	ClassName        string
	AcademicYear     string
	ClassCode        string
	SourcedID        string
	Username         string
}

// ScheduleRecord is a cleaned class-schedule row.
type ScheduleRecord struct {
	TeacherCode string
	SchoolID    string
	GradeName   string
	ClassName   string
	ClassCode   string
}
