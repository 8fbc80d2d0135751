package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sdsgen/pkg/config"
	"sdsgen/pkg/logger"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	// Admin export ships semicolon-delimited, the others comma-delimited;
	// the loader sniffs each file independently.
	cfg.AdminFile = writeFixture(t, dir, "admin.csv",
		"NomeCargo;CodigoFuncionario;NomeFuncionario\n"+
			"Professor(a);10;Ana Souza\n")
	cfg.StudentFile = writeFixture(t, dir, "students.csv",
		"NumeroMatricula,NomeCompleto,EscolaID,NomeSerie,NomeTurma,AnoLetivo,CodigoTurma\n"+
			"100,Beto Lima,1,5º Ano,Turma A,2024,C1\n")
	cfg.ScheduleFile = writeFixture(t, dir, "schedule.csv",
		"CodigoProfessor,EscolaID,NomeSerie,NomeTurma,CodigoTurma\n"+
			"10,1,5º Ano,Turma A,C1\n")
	cfg.OutputDir = filepath.Join(dir, "out")
	return cfg
}

func readOutput(t *testing.T, dir, name string) [][]string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatalf("%s: missing UTF-8 BOM", name)
	}
	var rows [][]string
	for _, line := range strings.Split(strings.TrimRight(string(data[3:]), "\n"), "\n") {
		rows = append(rows, strings.Split(line, ","))
	}
	return rows
}

func TestRunEndToEnd(t *testing.T) {
	cfg := fixtureConfig(t)
	if err := Run(cfg, logger.Nop()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	users := readOutput(t, cfg.OutputDir, "users.csv")
	if len(users) != 3 {
		t.Fatalf("users.csv rows incl header: want=3 got=%d", len(users))
	}
	wantUsersHeader := []string{"sourcedId", "username", "givenName", "familyName"}
	for i, col := range wantUsersHeader {
		if users[0][i] != col {
			t.Fatalf("users.csv header[%d]: want=%q got=%q", i, col, users[0][i])
		}
	}
	if users[1][0] != "PROF_10" || users[1][1] != "ana.souza@dominio" {
		t.Fatalf("users.csv teacher row: got=%v", users[1])
	}
	if users[2][0] != "ALUNO_100" || users[2][1] != "beto.lima@dominio2" {
		t.Fatalf("users.csv student row: got=%v", users[2])
	}

	orgs := readOutput(t, cfg.OutputDir, "orgs.csv")
	if len(orgs) != 3 {
		t.Fatalf("orgs.csv rows incl header: want=3 got=%d", len(orgs))
	}
	if orgs[1][0] != "unidade1" || orgs[1][2] != "school" {
		t.Fatalf("orgs.csv row: got=%v", orgs[1])
	}

	roles := readOutput(t, cfg.OutputDir, "roles.csv")
	if len(roles) != 3 {
		t.Fatalf("roles.csv rows incl header: want=3 got=%d", len(roles))
	}
	for _, row := range roles[1:] {
		if row[2] != "unidade1" {
			t.Fatalf("roles.csv org: want=unidade1 got=%v", row)
		}
		if row[4] != "true" {
			t.Fatalf("roles.csv isPrimary: got=%v", row)
		}
	}
	if roles[1][1] != "ALUNO_100" || roles[1][3] != "student" {
		t.Fatalf("roles.csv student row: got=%v", roles[1])
	}
	if roles[2][1] != "PROF_10" || roles[2][3] != "teacher" {
		t.Fatalf("roles.csv teacher row: got=%v", roles[2])
	}

	classes := readOutput(t, cfg.OutputDir, "classes.csv")
	if len(classes) != 2 {
		t.Fatalf("classes.csv rows incl header: want=2 got=%d", len(classes))
	}
	if classes[1][0] != "C1" || classes[1][1] != "Turma A - 5º Ano 2024" || classes[1][2] != "unidade1" {
		t.Fatalf("classes.csv row: got=%v", classes[1])
	}

	enrollments := readOutput(t, cfg.OutputDir, "enrollments.csv")
	if len(enrollments) != 3 {
		t.Fatalf("enrollments.csv rows incl header: want=3 got=%d", len(enrollments))
	}
	if enrollments[1][0] != "ENROLL_0" || enrollments[1][1] != "C1" ||
		enrollments[1][2] != "ALUNO_100" || enrollments[1][3] != "student" {
		t.Fatalf("enrollments.csv student row: got=%v", enrollments[1])
	}
	if enrollments[2][0] != "ENROLL_1" || enrollments[2][1] != "C1" ||
		enrollments[2][2] != "PROF_10" || enrollments[2][3] != "teacher" {
		t.Fatalf("enrollments.csv teacher row: got=%v", enrollments[2])
	}
}

func TestRunIdempotent(t *testing.T) {
	cfg := fixtureConfig(t)
	if err := Run(cfg, logger.Nop()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := make(map[string][]byte)
	names := []string{"users.csv", "orgs.csv", "roles.csv", "classes.csv", "enrollments.csv"}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		first[name] = data
	}

	if err := Run(cfg, logger.Nop()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.Equal(first[name], data) {
			t.Fatalf("%s differs between identical runs", name)
		}
	}
}

func TestRunSkipsMalformedRows(t *testing.T) {
	cfg := fixtureConfig(t)
	f, err := os.OpenFile(cfg.StudentFile, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	// Overlong row: must be skipped with a warning, never abort the run.
	if _, err := f.WriteString("999,Zeca Pinto,1,5º Ano,Turma A,2024,C9,extra\n"); err != nil {
		t.Fatalf("append fixture row: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}

	if err := Run(cfg, logger.Nop()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	users := readOutput(t, cfg.OutputDir, "users.csv")
	if len(users) != 3 {
		t.Fatalf("users.csv rows incl header: want=3 got=%d", len(users))
	}
}

func TestRunFatalOnMissingSource(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.ScheduleFile = filepath.Join(t.TempDir(), "missing.csv")
	if err := Run(cfg, logger.Nop()); err == nil {
		t.Fatalf("Run: expected error for missing source file")
	}
	// No partial output: the directory must not have been created.
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Fatalf("output dir should not exist after fatal load error")
	}
}
