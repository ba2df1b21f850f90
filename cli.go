package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mindmap/internal/config"
	"mindmap/internal/render"
	"mindmap/internal/session"
	"mindmap/internal/store"
	"mindmap/internal/store/sqlite"
)

// app holds what every command shares: settings, logger and the store.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   store.Store
	closers []io.Closer
}

func openApp(configPath string) (*app, error) {
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: discardLogger()}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		a.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Level()}))
	}

	if cfg.Database != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database), 0755); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	var st *sqlite.Store
	if cfg.Database == ":memory:" {
		st, err = sqlite.NewInMemory()
	} else {
		st, err = sqlite.New(cfg.Database)
	}
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = st
	a.closers = append(a.closers, st)
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}

// loadSession restores the stored map, or a fresh one if the slot is empty.
func (a *app) loadSession(ctx context.Context) (*session.Session, error) {
	sess := session.New(session.WithLogger(a.logger), session.WithHistoryCapacity(a.cfg.HistoryCapacity))
	blob, err := a.store.Load(ctx, a.cfg.Slot)
	if errors.Is(err, store.ErrNotFound) {
		return sess, nil
	}
	if err != nil {
		return nil, err
	}
	if err := sess.Restore(blob); err != nil {
		return nil, err
	}
	return sess, nil
}

func (a *app) saveSession(ctx context.Context, sess *session.Session) error {
	blob, err := sess.Serialize()
	if err != nil {
		return err
	}
	return a.store.Save(ctx, a.cfg.Slot, blob)
}

// withApp opens the app around a command body. Errors from closing the
// store or log file are returned along with the body's own.
func withApp(configPath *string, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(*configPath)
		if err != nil {
			return err
		}
		defer func() { err = a.finish(err) }()
		return fn(cmd, a, args)
	}
}

// finish closes the app and joins any close error onto err.
func (a *app) finish(err error) error {
	if cerr := a.Close(); cerr != nil {
		return errors.Join(err, fmt.Errorf("failed to close: %w", cerr))
	}
	return err
}

// newRootCommand creates the root command.
func newRootCommand(version string) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:     "mindmap",
		Short:   "mindmap - a terminal mind-map editor",
		Long:    "mindmap edits a tree of labeled, colored ideas in the terminal and autosaves it.",
		Version: version,
		RunE: withApp(&configPath, func(_ *cobra.Command, a *app, _ []string) error {
			return runTUI(a)
		}),
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/"+config.FileName+")")

	cmd.AddCommand(newExportCommand(&configPath))
	cmd.AddCommand(newImportCommand(&configPath))
	cmd.AddCommand(newShowCommand(&configPath))
	return cmd
}

func newExportCommand(configPath *string) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Export the saved map (or FILE) as JSON, YAML, PNG or an outline",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(configPath, func(cmd *cobra.Command, a *app, args []string) error {
			sess, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := importMap(sess, args[0]); err != nil {
					return err
				}
			}

			f := formatForPath(output)
			if format != "" {
				if f, err = parseFormat(format); err != nil {
					return err
				}
			}
			if output == "" {
				if f == formatPNG {
					return errors.New("png export needs --output")
				}
				return writeFormat(cmd.OutOrStdout(), sess, f)
			}
			if err := exportMap(sess, output, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json, yaml, png or outline (default from --output extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func writeFormat(w io.Writer, sess *session.Session, f exportFormat) error {
	var data []byte
	var err error
	switch f {
	case formatYAML:
		data, err = sess.ExportYAML()
	case formatOutline:
		data = []byte(render.Outline(sess.Root(), render.OutlineOptions{}))
	default:
		data, err = sess.ExportJSON()
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func newImportCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the saved map with a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(configPath, func(cmd *cobra.Command, a *app, args []string) error {
			sess := session.New(session.WithLogger(a.logger))
			if err := importMap(sess, args[0]); err != nil {
				return err
			}
			if err := a.saveSession(cmd.Context(), sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s into %s\n", args[0], a.cfg.Slot)
			return nil
		}),
	}
}

func newShowCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved map as an outline",
		Args:  cobra.NoArgs,
		RunE: withApp(configPath, func(cmd *cobra.Command, a *app, _ []string) error {
			sess, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Outline(sess.Root(), render.OutlineOptions{SelectedID: sess.SelectedID()}))
			return nil
		}),
	}
}
