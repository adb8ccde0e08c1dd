package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/phazur-promo/internal/config"
	"github.com/ivlev/phazur-promo/internal/director"
)

func (a *app) initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write the built-in composition and a render config to edit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := inputDir
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(filepath.Join(dir, "audio"), 0755); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Join(dir, "assets"), 0755); err != nil {
				return err
			}

			compPath := filepath.Join(dir, "phazur.yaml")
			cfgPath := filepath.Join(dir, "render.yaml")
			for _, p := range []string{compPath, cfgPath} {
				if _, err := os.Stat(p); err == nil && !force {
					return fmt.Errorf("%s already exists (use --force to overwrite)", p)
				} else if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
			}

			if err := director.WriteComposition(director.Default(), compPath); err != nil {
				return err
			}

			cfg := config.Default()
			cfg.CompositionPath = compPath
			cfg.AssetDirs = []string{filepath.Join(dir, "assets")}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, data, 0644); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "[*] Композиция: %s\n", compPath)
			fmt.Fprintf(out, "[*] Настройки: %s\n", cfgPath)
			fmt.Fprintf(out, "[+++] Успех! Положите логотип в %s\n", filepath.Join(dir, "assets"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}
