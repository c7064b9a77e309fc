package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/ical/parse/ical"
)

// ConvertParams convert 命令参数
type ConvertParams struct {
	CodecFlags
	Output  string // 输出文件地址, - 为 stdout
	To      string // 输出格式
	Version string // 文本格式输出版本
	Pretty  bool   // xCal/jCal 缩进
	Stats   bool   // 结束后在 stderr 打印计数
}

var convertParams = &ConvertParams{}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert calendars between iCalendar, vCalendar, xCal and jCal",
	Example: "  ical convert -i meeting.vcs -o meeting.ics --version 2.0\n" +
		"  ical convert -i meeting.ics --to jcal --pretty",
	RunE: convertRun,
}

func init() {
	convertParams.register(convertCmd)
	convertCmd.Flags().StringVarP(&convertParams.Output, "output", "o", "", "output path, - for stdout")
	convertCmd.Flags().StringVar(&convertParams.To, "to", "", "output format: ics, xcal or jcal (default from extension)")
	convertCmd.Flags().StringVar(&convertParams.Version, "version", "", "text output version: 1.0 or 2.0 (default the input version)")
	convertCmd.Flags().BoolVar(&convertParams.Pretty, "pretty", false, "indent xCal and jCal output")
	convertCmd.Flags().BoolVar(&convertParams.Stats, "stats", false, "print codec counters to stderr")
}

func convertRun(cmd *cobra.Command, args []string) error {
	p := convertParams
	cfg, err := p.resolve(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Pretty = p.Pretty
	}
	explicitVersion := false
	if p.Version != "" {
		v, ok := ical.ParseVersion(p.Version)
		if !ok {
			return fmt.Errorf("--version %q: want 1.0 or 2.0", p.Version)
		}
		cfg.Version = v
		explicitVersion = true
	}

	from, err := detectFormat(p.From, p.Input)
	if err != nil {
		return err
	}
	to, err := detectFormat(p.To, p.Output)
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

	out, err := openOutput(p.Output)
	if err != nil {
		return err
	}
	v := cfg.Version
	if !explicitVersion && len(cals) > 0 {
		v = sourceVersion(cals[0], cfg.Version)
	}
	wr := newCalendarWriter(to, out, v, s.options())
	for _, c := range cals {
		if err := wr.Write(c); err != nil {
			wr.Close()
			return fmt.Errorf("write %s: %w", to, err)
		}
	}
	if err := wr.Close(); err != nil {
		return err
	}
	s.logger.Info().Int("calendars", len(cals)).Int("warnings", len(s.warnings)).
		Str("from", from).Str("to", to).Msg("converted")

	if p.Stats {
		return printStats(os.Stderr, s.registry)
	}
	return nil
}

// sourceVersion 返回日历声明的版本, 没有声明时返回 fallback
func sourceVersion(c *ical.Component, fallback ical.Version) ical.Version {
	if vp, ok := c.Property(ical.TypeVersion).(*ical.VersionProperty); ok && vp.Version != ical.VersionUnknown {
		return vp.Version
	}
	return fallback
}
