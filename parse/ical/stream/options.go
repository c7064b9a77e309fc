// Package stream holds what the text, xCal and jCal readers and writers
// share: their options and the per-property steps of a read or write pass.
package stream

import (
	"github.com/rs/zerolog"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/scribe"
)

// Config is the resolved set of options of one reader or writer. Options
// that only concern the other direction are ignored.
type Config struct {
	Registry  *scribe.Registry
	Timezones ical.TimezoneRegistry
	Logger    zerolog.Logger
	Observer  ical.Observer

	// text reading
	InitialVersion ical.Version
	CaretDecoding  bool
	OnParseError   ical.ParseErrorPolicy

	// text writing
	CaretEncoding bool
	LineLength    int
	Indent        string
	Newline       string
	DaylightFrom  int
	DaylightTo    int

	// xCal and jCal writing
	Pretty bool

	err error
}

// Err reports the first option that could not be applied.
func (c Config) Err() error {
	return c.err
}

type Option func(*Config)

func NewConfig(opts ...Option) Config {
	c := Config{
		Registry:       scribe.NewRegistry(),
		Timezones:      ical.NewTimezoneInfo(),
		Logger:         zerolog.Nop(),
		Observer:       ical.NopObserver{},
		InitialVersion: ical.V2_0,
		CaretDecoding:  true,
		OnParseError:   ical.ParseErrorSkip,
		LineLength:     75,
		Indent:         " ",
		Newline:        "\r\n",
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func WithRegistry(r *scribe.Registry) Option {
	return func(c *Config) { c.Registry = r }
}

func WithTimezones(tz ical.TimezoneRegistry) Option {
	return func(c *Config) { c.Timezones = tz }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func WithObserver(o ical.Observer) Option {
	return func(c *Config) { c.Observer = o }
}

// WithInitialVersion sets the version assumed before a VERSION line is read.
func WithInitialVersion(v ical.Version) Option {
	return func(c *Config) { c.InitialVersion = v }
}

func WithCaretDecoding(enable bool) Option {
	return func(c *Config) { c.CaretDecoding = enable }
}

func WithParseErrorPolicy(p ical.ParseErrorPolicy) Option {
	return func(c *Config) { c.OnParseError = p }
}

func WithCaretEncoding(enable bool) Option {
	return func(c *Config) { c.CaretEncoding = enable }
}

// WithLineLength sets the folding width; n <= 0 disables folding.
func WithLineLength(n int) Option {
	return func(c *Config) { c.LineLength = n }
}

// WithIndent sets the fold indent. Anything but one space or tab is kept
// out of the config and reported by Err.
func WithIndent(indent string) Option {
	return func(c *Config) {
		if err := ical.CheckFoldIndent(indent); err != nil {
			c.err = err
			return
		}
		c.Indent = indent
	}
}

func WithNewline(nl string) Option {
	return func(c *Config) { c.Newline = nl }
}

// WithDaylightYears sets the years VTIMEZONE rules are expanded over when
// writing 1.0 DAYLIGHT properties.
func WithDaylightYears(from, to int) Option {
	return func(c *Config) { c.DaylightFrom, c.DaylightTo = from, to }
}

// WithPretty indents xCal and jCal output.
func WithPretty(enable bool) Option {
	return func(c *Config) { c.Pretty = enable }
}
