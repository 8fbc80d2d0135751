package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
outputDir: out
staffDomain: escola.example
orgs:
  - sourcedId: escola9
    name: Escola Nove
schoolOrgs:
  "9": escola9
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Fatalf("OutputDir: want=%q got=%q", "out", cfg.OutputDir)
	}
	if cfg.StaffDomain != "escola.example" {
		t.Fatalf("StaffDomain: want=%q got=%q", "escola.example", cfg.StaffDomain)
	}
	// Untouched fields keep their defaults.
	if cfg.StudentDomain != "dominio2" {
		t.Fatalf("StudentDomain: want=%q got=%q", "dominio2", cfg.StudentDomain)
	}
	if cfg.AdminFile != "Sync_Administrativo_01.csv" {
		t.Fatalf("AdminFile: want default got=%q", cfg.AdminFile)
	}
	// Org list and school mapping are replaced wholesale.
	if len(cfg.Orgs) != 1 || cfg.Orgs[0].SourcedID != "escola9" {
		t.Fatalf("Orgs: got=%+v", cfg.Orgs)
	}
	if len(cfg.SchoolOrgs) != 1 || cfg.SchoolOrgs["9"] != "escola9" {
		t.Fatalf("SchoolOrgs: got=%+v", cfg.SchoolOrgs)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsDanglingSchoolMapping(t *testing.T) {
	cfg := Default()
	cfg.SchoolOrgs["3"] = "unidade3"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate: expected error for unknown organization")
	}
}

func TestValidateRejectsMissingDomains(t *testing.T) {
	cfg := Default()
	cfg.StaffDomain = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate: expected error for empty staffDomain")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("LoadFile: expected error for missing file")
	}
}
