package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sdsgen/pkg/config"
	"sdsgen/pkg/engine"
	"sdsgen/pkg/logger"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath   string
		outDir       string
		adminFile    string
		studentFile  string
		scheduleFile string
		logMode      string
	)

	cmd := &cobra.Command{
		Use:          "sdsgen",
		Short:        "Convert SIS exports into SDS roster CSV files",
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if outDir != "" {
				cfg.OutputDir = outDir
			}
			if adminFile != "" {
				cfg.AdminFile = adminFile
			}
			if studentFile != "" {
				cfg.StudentFile = studentFile
			}
			if scheduleFile != "" {
				cfg.ScheduleFile = scheduleFile
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			log, err := logger.New(logMode)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			defer log.Sync()
			log = log.With("run_id", uuid.NewString())

			log.Info("starting roster generation", "version", Version, "output_dir", cfg.OutputDir)
			if err := engine.Run(cfg, log); err != nil {
				log.Error("roster generation failed", "error", err.Error())
				return err
			}
			log.Info("roster generation finished")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file (defaults apply when omitted)")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory for the five roster files")
	cmd.Flags().StringVar(&adminFile, "admin", "", "Admin/staff export file")
	cmd.Flags().StringVar(&studentFile, "students", "", "Student export file")
	cmd.Flags().StringVar(&scheduleFile, "schedule", "", "Class schedule export file")
	cmd.Flags().StringVar(&logMode, "log-mode", "dev", "Logger mode: dev or prod")
	return cmd
}
