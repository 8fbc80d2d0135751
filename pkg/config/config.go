// Package config carries the static configuration of a pipeline run:
// input/output paths, the fixed organization list, the school-to-organization
// mapping and the two login-name domains. Nothing here is derived from
// source data, so the same engine can serve a different district by swapping
// the configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OrgConfig is one statically configured school organization.
type OrgConfig struct {
	SourcedID string `yaml:"sourcedId"`
	Name      string `yaml:"name"`
}

// Config holds everything a run needs.
type Config struct {
	OutputDir    string `yaml:"outputDir"`
	AdminFile    string `yaml:"adminFile"`
	StudentFile  string `yaml:"studentFile"`
	ScheduleFile string `yaml:"scheduleFile"`

	Orgs       []OrgConfig       `yaml:"orgs"`
	SchoolOrgs map[string]string `yaml:"schoolOrgs"`

	StaffDomain   string `yaml:"staffDomain"`
	StudentDomain string `yaml:"studentDomain"`
}

// Default returns the configuration of the reference deployment: two school
// units and separate login domains for staff and students.
func Default() *Config {
	return &Config{
		OutputDir:    "sds_arquivos_final",
		AdminFile:    "Sync_Administrativo_01.csv",
		StudentFile:  "Sync_Aluno_01.csv",
		ScheduleFile: "Sync_Aula_01.csv",
		Orgs: []OrgConfig{
			{SourcedID: "unidade1", Name: "Organização"},
			{SourcedID: "unidade2", Name: "Organização 2"},
		},
		SchoolOrgs: map[string]string{
			"1": "unidade1",
			"2": "unidade2",
		},
		StaffDomain:   "dominio",
		StudentDomain: "dominio2",
	}
}

// LoadFile overlays a YAML file onto the defaults. Only fields present in
// the file replace their defaults; org list and school mapping are replaced
// wholesale, never merged.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := Default()
	if file.OutputDir != "" {
		cfg.OutputDir = file.OutputDir
	}
	if file.AdminFile != "" {
		cfg.AdminFile = file.AdminFile
	}
	if file.StudentFile != "" {
		cfg.StudentFile = file.StudentFile
	}
	if file.ScheduleFile != "" {
		cfg.ScheduleFile = file.ScheduleFile
	}
	if len(file.Orgs) > 0 {
		cfg.Orgs = file.Orgs
	}
	if len(file.SchoolOrgs) > 0 {
		cfg.SchoolOrgs = file.SchoolOrgs
	}
	if file.StaffDomain != "" {
		cfg.StaffDomain = file.StaffDomain
	}
	if file.StudentDomain != "" {
		cfg.StudentDomain = file.StudentDomain
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("outputDir is required")
	}
	if c.AdminFile == "" || c.StudentFile == "" || c.ScheduleFile == "" {
		return fmt.Errorf("adminFile, studentFile and scheduleFile are all required")
	}
	if len(c.Orgs) == 0 {
		return fmt.Errorf("at least one organization is required")
	}
	if c.StaffDomain == "" || c.StudentDomain == "" {
		return fmt.Errorf("staffDomain and studentDomain are required")
	}

	known := make(map[string]bool, len(c.Orgs))
	for i, org := range c.Orgs {
		if org.SourcedID == "" || org.Name == "" {
			return fmt.Errorf("orgs[%d]: sourcedId and name are required", i)
		}
		known[org.SourcedID] = true
	}
	for school, org := range c.SchoolOrgs {
		if !known[org] {
			return fmt.Errorf("schoolOrgs[%q]: unknown organization %q", school, org)
		}
	}
	return nil
}
