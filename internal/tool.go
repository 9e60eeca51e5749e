/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nephio-project/o2ims-operator/internal/logging"
)

// ToolBuilder contains the data and logic needed to create an instance of the command line
// tool. Don't create instances of this directly, use the NewTool function instead.
type ToolBuilder struct {
	logger   *slog.Logger
	args     []string
	in       io.Reader
	out      io.Writer
	err      io.Writer
	commands []func() *cobra.Command
}

// Tool is an instance of the command line tool. Don't create instances of this directly, use the
// NewTool function instead.
type Tool struct {
	logger   *slog.Logger
	binary   string
	args     []string
	in       io.Reader
	out      io.Writer
	err      io.Writer
	commands []func() *cobra.Command
}

// NewTool creates a builder that can then be used to configure and create an instance of the
// command line tool.
func NewTool() *ToolBuilder {
	return &ToolBuilder{}
}

// SetLogger sets the logger that the tool will use to write messages to the log. This is optional,
// and if not specified a new one will be created from the command line flags.
func (b *ToolBuilder) SetLogger(value *slog.Logger) *ToolBuilder {
	b.logger = value
	return b
}

// AddArgs adds the command line arguments, including the name of the binary in the first position.
func (b *ToolBuilder) AddArgs(values ...string) *ToolBuilder {
	b.args = append(b.args, values...)
	return b
}

// AddCommand adds a function that creates one of the subcommands of the tool.
func (b *ToolBuilder) AddCommand(value func() *cobra.Command) *ToolBuilder {
	b.commands = append(b.commands, value)
	return b
}

// AddCommands adds a collection of functions that create the subcommands of the tool.
func (b *ToolBuilder) AddCommands(values ...func() *cobra.Command) *ToolBuilder {
	b.commands = append(b.commands, values...)
	return b
}

// SetIn sets the standard input stream. This is mandatory.
func (b *ToolBuilder) SetIn(value io.Reader) *ToolBuilder {
	b.in = value
	return b
}

// SetOut sets the standard output stream. This is mandatory.
func (b *ToolBuilder) SetOut(value io.Writer) *ToolBuilder {
	b.out = value
	return b
}

// SetErr sets the standard error stream. This is mandatory.
func (b *ToolBuilder) SetErr(value io.Writer) *ToolBuilder {
	b.err = value
	return b
}

// Build uses the data stored in the builder to create a new instance of the command line tool.
func (b *ToolBuilder) Build() (result *Tool, err error) {
	// Check the parameters:
	if len(b.args) == 0 {
		err = errors.New("at least the name of the binary is required")
		return
	}
	if b.in == nil {
		err = errors.New("standard input stream is mandatory")
		return
	}
	if b.out == nil {
		err = errors.New("standard output stream is mandatory")
		return
	}
	if b.err == nil {
		err = errors.New("standard error stream is mandatory")
		return
	}

	// Create and populate the object:
	result = &Tool{
		logger:   b.logger,
		binary:   filepath.Base(b.args[0]),
		args:     b.args[1:],
		in:       b.in,
		out:      b.out,
		err:      b.err,
		commands: b.commands,
	}
	return
}

// Run runs the tool.
func (t *Tool) Run(ctx context.Context) error {
	// Create the root command:
	root := &cobra.Command{
		Use:           t.binary,
		Long:          "O2 IMS provisioning operator",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	flags := root.PersistentFlags()
	logging.AddFlags(flags)
	for _, command := range t.commands {
		root.AddCommand(command())
	}

	// Parse the flags early so that the logger can be created from them even before the
	// command starts executing:
	err := flags.Parse(t.args)
	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		return fmt.Errorf("failed to parse command line flags: %w", err)
	}

	// Create the logger if needed:
	if t.logger == nil {
		t.logger, err = logging.NewLogger().
			SetOut(t.out).
			SetErr(t.err).
			SetFlags(flags).
			Build()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
	}
	t.logger.InfoContext(
		ctx,
		"Starting",
		slog.String("binary", t.binary),
		slog.Any("args", t.args),
	)

	// Put the tool and the logger in the context so that the commands can retrieve them:
	ctx = ToolIntoContext(ctx, t)
	ctx = LoggerIntoContext(ctx, t.logger)

	// Run the command:
	root.SetIn(t.in)
	root.SetOut(t.out)
	root.SetErr(t.err)
	root.SetArgs(t.args)
	return root.ExecuteContext(ctx) // nolint: wrapcheck
}

// In returns the standard input stream of the tool.
func (t *Tool) In() io.Reader {
	return t.in
}

// Out returns the standard output stream of the tool.
func (t *Tool) Out() io.Writer {
	return t.out
}

// Err returns the standard error stream of the tool.
func (t *Tool) Err() io.Writer {
	return t.err
}

// Logger returns the logger of the tool.
func (t *Tool) Logger() *slog.Logger {
	return t.logger
}
