package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/metrics"
	"github.com/dzjyyds666/ical/parse/ical/stream"
	"github.com/dzjyyds666/ical/pkg"
)

// CodecFlags 是 convert 与 inspect 共用的参数
type CodecFlags struct {
	Input    string // 输入文件路径, - 为 stdin
	From     string // 输入格式
	Config   string // toml 配置文件
	Fold     int    // 折行宽度, 0 不折行
	Caret    bool   // 参数值使用 ^ 转义
	OnError  string // skip, fail, raw
	LogLevel string
}

func (f *CodecFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&f.Input, "input", "i", "", "input file path, - for stdin")
	c.Flags().StringVar(&f.From, "from", "", "input format: ics, xcal or jcal (default from extension)")
	c.Flags().StringVarP(&f.Config, "config", "c", "", "toml config file")
	c.Flags().IntVar(&f.Fold, "fold", 75, "fold width in octets, 0 disables folding")
	c.Flags().BoolVar(&f.Caret, "caret", false, "caret-encode parameter values")
	c.Flags().StringVar(&f.OnError, "on-error", "skip", "unparseable values: skip, fail or raw")
	c.Flags().StringVar(&f.LogLevel, "log-level", "", "log level (default warn, or "+pkg.EnvLogLevel+")")
}

// resolve 合并默认值, 配置文件与显式给出的参数
func (f *CodecFlags) resolve(c *cobra.Command) (codecConfig, error) {
	cfg := defaultCodecConfig()
	if f.Config != "" {
		var err error
		if cfg, err = loadCodecConfig(f.Config, cfg); err != nil {
			return cfg, err
		}
	}
	if c.Flags().Changed("fold") {
		if f.Fold < 0 {
			return cfg, fmt.Errorf("--fold %d is negative", f.Fold)
		}
		cfg.LineLength = f.Fold
	}
	if c.Flags().Changed("caret") {
		cfg.Caret = f.Caret
	}
	if c.Flags().Changed("on-error") {
		p, ok := ical.ParseParseErrorPolicy(f.OnError)
		if !ok {
			return cfg, fmt.Errorf("--on-error %q: want skip, fail or raw", f.OnError)
		}
		cfg.OnParseError = p
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	return cfg, nil
}

// session 是一次命令执行的日志与计数
type session struct {
	cfg       codecConfig
	logger    zerolog.Logger
	registry  *prometheus.Registry
	collector *metrics.Collector
	warnings  []ical.Warning
}

func newSession(cfg codecConfig) (*session, error) {
	reg := prometheus.NewRegistry()
	col, err := metrics.NewCollector(reg)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:       cfg,
		logger:    pkg.InitLogger("ical", cfg.LogLevel),
		registry:  reg,
		collector: col,
	}, nil
}

func (s *session) options() []stream.Option {
	opts := s.cfg.options()
	return append(opts, stream.WithLogger(s.logger), stream.WithObserver(s.collector))
}

// warn 只做收集, reader 已经记录过日志
func (s *session) warn(w ical.Warning) {
	s.warnings = append(s.warnings, w)
}
