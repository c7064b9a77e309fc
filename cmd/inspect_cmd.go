package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/scribe"
)

// InspectParams inspect 命令参数
type InspectParams struct {
	CodecFlags
	Stats bool // 打印计数
}

var inspectParams = &InspectParams{}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the component tree and parse warnings of a calendar file",
	RunE:  inspectRun,
}

func init() {
	inspectParams.register(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectParams.Stats, "stats", false, "print codec counters")
}

func inspectRun(cmd *cobra.Command, args []string) error {
	p := inspectParams
	if p.Input == "" && len(args) > 0 {
		p.Input = args[0]
	}
	cfg, err := p.resolve(cmd)
	if err != nil {
		return err
	}
	from, err := detectFormat(p.From, p.Input)
	if err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	in, err := openInput(p.Input)
	if err != nil {
		return err
	}
	rd := newCalendarReader(from, in, s.options())
	defer rd.Close()

	cals, err := readCalendars(rd, s.warn)
	if err != nil {
		return fmt.Errorf("read %s: %w", from, err)
	}

	out := cmd.OutOrStdout()
	reg := scribe.NewRegistry()
	for i, c := range cals {
		fmt.Fprintf(out, "calendar %d (version %s)\n", i+1, sourceVersion(c, ical.VersionUnknown))
		printTree(out, reg, c, 1)
	}
	if len(s.warnings) > 0 {
		fmt.Fprintf(out, "%d warning(s)\n", len(s.warnings))
		for _, w := range s.warnings {
			fmt.Fprintf(out, "  %s\n", w)
		}
	}
	if p.Stats {
		return printStats(out, s.registry)
	}
	return nil
}

func printTree(w io.Writer, reg *scribe.Registry, c *ical.Component, depth int) {
	indent := strings.Repeat("  ", depth)
	name := c.Name
	if cs, ok := reg.Component(c.Type); ok {
		name = cs.ComponentName(c)
	}
	fmt.Fprintf(w, "%s%s\n", indent, name)
	for _, p := range c.Properties() {
		fmt.Fprintf(w, "%s  %s\n", indent, propertyName(reg, p))
	}
	for _, ch := range c.Components() {
		printTree(w, reg, ch, depth+1)
	}
}

func propertyName(reg *scribe.Registry, p ical.Property) string {
	if raw, ok := p.(*ical.Raw); ok {
		return raw.Name
	}
	return reg.PropertyOrRaw(p.PropertyType()).PropertyName(p, ical.V2_0)
}
