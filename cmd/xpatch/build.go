package main

import (
	"context"
	"fmt"
	"io"

	"github.com/signadot/xmlpatch/dirbuild"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
)

func build(cfg *BuildConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Build.Parse(cc, args)
	if err != nil {
		return err
	}
	args, err = parseEnvExtras(cfg, args)
	if err != nil {
		return err
	}
	if cfg.ShowEnv && cfg.List {
		return fmt.Errorf("%w: cannot use -s and -l together", cli.ErrUsage)
	}
	dirPath := "."
	if len(args) != 0 {
		dirPath = args[0]
	}
	env, err := dirbuild.LoadEnv()
	if err != nil {
		return err
	}
	if env == nil {
		env = map[string]any{}
	}
	for k, v := range cfg.Env {
		env[k] = v
	}
	dir, err := dirbuild.OpenDir(dirPath, env)
	if err != nil {
		return err
	}
	dir.Log = theLog
	if cfg.List {
		profiles, err := dir.Profiles()
		if err != nil {
			return fmt.Errorf("error getting profiles: %w", err)
		}
		for _, profile := range profiles {
			fmt.Fprintln(cc.Out, profile)
		}
		return nil
	}
	if cfg.Profile != "" {
		if err := dir.LoadProfile(cfg.Profile, env); err != nil {
			return fmt.Errorf("error loading profile %s: %w", cfg.Profile, err)
		}
	}
	if cfg.ShowEnv {
		d, err := yaml.Marshal(map[string]any{"env": dir.Env})
		if err != nil {
			return err
		}
		fmt.Fprintln(cc.Out, "# build environment:")
		_, err = cc.Out.Write(d)
		return err
	}
	var w io.Writer = cc.Out
	if dir.DestDir != "" && cfg.Out == "" {
		w = nil
	}
	_, report, err := dir.Run(context.Background(), w, cfg.encOpts(cc.Out)...)
	if err != nil {
		return err
	}
	if cfg.Report {
		for _, o := range report.Outcomes {
			theLog.Info("operation", "phase", o.Phase.String(), "op", o.Op, "source", o.Source, "ok", o.OK)
		}
	}
	theLog.Debug("built", "dir", dirPath, "succeeded", report.Succeeded(), "failed", report.Failed())
	return nil
}

// parseEnvExtras reads the key=val arguments following "--" into the env.
func parseEnvExtras(cfg *BuildConfig, args []string) ([]string, error) {
	delim := -1
	for i, arg := range args {
		if arg == "--" {
			delim = i
			break
		}
	}
	if delim == -1 {
		return args, nil
	}
	for _, arg := range args[delim+1:] {
		if err := envFunc(cfg.Env, arg); err != nil {
			return nil, err
		}
	}
	return args[:delim], nil
}
