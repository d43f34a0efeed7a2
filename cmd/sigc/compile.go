package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/sig/compiler"
)

func compileCmd(a *app) *cobra.Command {
	var (
		outDir string
		stdout bool
		name   string
	)

	cmd := &cobra.Command{
		Use:   "compile [files or directories...]",
		Short: "Compile components",
		Long: `Compile component sources into JavaScript modules.

Directories are searched for files matching build.include. Each module is
written to build.out_dir under the same relative path with a .js extension.

Examples:
  sigc compile                       # Compile every component below .
  sigc compile src/Counter.sig       # Compile one file
  sigc compile Counter.sig --stdout  # Print the module instead of writing it`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir != "" {
				a.cfg.Build.OutDir = outDir
			}
			if name != "" && len(args) != 1 {
				return errors.New("--name requires exactly one file")
			}

			files, err := sources(args, a.cfg.Build.Include, a.cfg.Build.Exclude)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("no components found")
			}

			var errs []error
			for _, file := range files {
				if err := a.compileFile(cmd.Context(), file, name, stdout); err != nil {
					report(err)
					errs = append(errs, err)
				}
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d of %d components failed to compile", len(errs), len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "output directory (overrides build.out_dir)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print modules to stdout")
	cmd.Flags().StringVar(&name, "name", "", "component name or tag")
	return cmd
}

func (a *app) options(file, name string) compiler.Options {
	return compiler.Options{
		Name:        name,
		Filename:    file,
		Prefix:      a.cfg.Compiler.Prefix,
		RuntimePath: a.cfg.Compiler.RuntimePath,
		Logger:      a.log,
	}
}

func (a *app) compileFile(ctx context.Context, s source, name string, stdout bool) error {
	file := s.Path
	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := compiler.CompileContext(ctx, string(src), a.options(file, name))
	if err != nil {
		return err
	}

	if stdout {
		fmt.Print(res.Code)
		return nil
	}

	out := output(a.cfg.Build.OutDir, s.Root, file)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(out, []byte(res.Code), 0o644); err != nil {
		return err
	}

	a.log.Debug("compiled component", "file", file, "out", out, "tag", res.Tag, "duration", time.Since(start))
	success("%s → %s <%s>", file, out, res.Tag)
	return nil
}
