package cmd

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/stream"
)

// codecConfig 是命令行与配置文件合并后的编解码设置
type codecConfig struct {
	Version      ical.Version
	LineLength   int
	Indent       string
	Newline      string
	Caret        bool
	OnParseError ical.ParseErrorPolicy
	Pretty       bool
	DaylightFrom int
	DaylightTo   int
	LogLevel     string
}

func defaultCodecConfig() codecConfig {
	return codecConfig{
		Version:      ical.V2_0,
		LineLength:   75,
		Indent:       " ",
		Newline:      "\r\n",
		OnParseError: ical.ParseErrorSkip,
		LogLevel:     "warn",
	}
}

type fileConfig struct {
	Version      string `toml:"version"`
	LineLength   int    `toml:"line_length"`
	Indent       string `toml:"indent"`
	Newline      string `toml:"newline"`
	Caret        bool   `toml:"caret_encoding"`
	OnParseError string `toml:"on_parse_error"`
	Pretty       bool   `toml:"pretty"`
	DaylightFrom int    `toml:"daylight_from"`
	DaylightTo   int    `toml:"daylight_to"`
	LogLevel     string `toml:"log_level"`
}

// loadCodecConfig 读取 toml 配置文件, 只覆盖文件中出现的键
func loadCodecConfig(path string, cfg codecConfig) (codecConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("version") {
		v, ok := ical.ParseVersion(raw.Version)
		if !ok {
			return cfg, fmt.Errorf("config version %q: want 1.0 or 2.0", raw.Version)
		}
		cfg.Version = v
	}
	if meta.IsDefined("line_length") {
		if raw.LineLength < 0 {
			return cfg, fmt.Errorf("config line_length %d is negative", raw.LineLength)
		}
		cfg.LineLength = raw.LineLength
	}
	if meta.IsDefined("indent") {
		if err := ical.CheckFoldIndent(raw.Indent); err != nil {
			return cfg, fmt.Errorf("config indent: %w", err)
		}
		cfg.Indent = raw.Indent
	}
	if meta.IsDefined("newline") {
		cfg.Newline = unescapeNewline(raw.Newline)
	}
	if meta.IsDefined("caret_encoding") {
		cfg.Caret = raw.Caret
	}
	if meta.IsDefined("on_parse_error") {
		p, ok := ical.ParseParseErrorPolicy(raw.OnParseError)
		if !ok {
			return cfg, fmt.Errorf("config on_parse_error %q: want skip, fail or raw", raw.OnParseError)
		}
		cfg.OnParseError = p
	}
	if meta.IsDefined("pretty") {
		cfg.Pretty = raw.Pretty
	}
	if meta.IsDefined("daylight_from") {
		cfg.DaylightFrom = raw.DaylightFrom
	}
	if meta.IsDefined("daylight_to") {
		cfg.DaylightTo = raw.DaylightTo
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return cfg, nil
}

// unescapeNewline 允许在配置中写 "\\r\\n"
func unescapeNewline(s string) string {
	return strings.NewReplacer(`\r`, "\r", `\n`, "\n").Replace(s)
}

func (c codecConfig) options() []stream.Option {
	return []stream.Option{
		stream.WithLineLength(c.LineLength),
		stream.WithIndent(c.Indent),
		stream.WithNewline(c.Newline),
		stream.WithCaretEncoding(c.Caret),
		stream.WithParseErrorPolicy(c.OnParseError),
		stream.WithPretty(c.Pretty),
		stream.WithDaylightYears(c.DaylightFrom, c.DaylightTo),
	}
}
