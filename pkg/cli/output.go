package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	infoColor  = color.New(color.FgGreen)
)

type environment struct {
	stdout io.Writer
	stderr io.Writer

	reported bool
}

// fail reports err on stderr and returns it. Usage errors are followed by the
// command's usage banner.
func (e *environment) fail(c *cli.Command, err error) error {
	if err == nil {
		return nil
	}

	e.report(err)

	if types.IsUsageError(err) {
		_, _ = fmt.Fprintf(e.stderr, "\n%s", usage(c))
	}

	return err
}

// report prints err and its goerr values on stderr once per run
func (e *environment) report(err error) {
	if e.reported {
		return
	}
	e.reported = true

	_, _ = errorColor.Fprintln(e.stderr, err.Error())

	values := goerr.Values(err)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(e.stderr, "  %s: %v\n", k, values[k])
	}
}

func usage(c *cli.Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage:\n  %s %s [<options>] %s\n", c.Root().Name, c.Name, c.ArgsUsage)
	if c.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n  %s\n", c.Description)
	}
	fmt.Fprintf(&b, "\nRun '%s %s --help' for options.\n", c.Root().Name, c.Name)
	return b.String()
}

// requireArgs returns the positional arguments when exactly len(names) are
// given, otherwise a usage error naming each missing one
func requireArgs(c *cli.Command, names ...string) ([]string, error) {
	args := c.Args().Slice()
	if len(args) == len(names) {
		return args, nil
	}

	if len(args) > len(names) {
		return nil, goerr.New("too many arguments",
			goerr.V("given", len(args)),
			goerr.V("expected", len(names)),
			goerr.T(types.ErrTagMissingArgument),
		)
	}

	var missing []string
	for _, name := range names[len(args):] {
		missing = append(missing, name+" is required")
	}
	return nil, goerr.New(strings.Join(missing, "\n"), goerr.T(types.ErrTagMissingArgument))
}
