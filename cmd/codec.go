package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/jcal"
	"github.com/dzjyyds666/ical/parse/ical/stream"
	"github.com/dzjyyds666/ical/parse/ical/text"
	"github.com/dzjyyds666/ical/parse/ical/xcal"
	"github.com/dzjyyds666/ical/pkg"
)

// 支持的三种格式
const (
	formatText = "ics"
	formatXCal = "xcal"
	formatJCal = "jcal"
)

type calendarReader interface {
	ReadNext() (*ical.Component, error)
	Warnings() []ical.Warning
	Close() error
}

type calendarWriter interface {
	Write(root *ical.Component) error
	Close() error
}

// nopWriteCloser 防止关闭 stdout
type nopWriteCloser struct {
	io.Writer
}

// detectFormat 根据显式参数或文件扩展名确定格式
func detectFormat(explicit, path string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(explicit))
	if f == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xml", ".xcs":
			f = formatXCal
		case ".json", ".jcs":
			f = formatJCal
		default:
			f = formatText
		}
	}
	switch f {
	case formatText, "ical", "vcs", "text":
		return formatText, nil
	case formatXCal, "xml":
		return formatXCal, nil
	case formatJCal, "json":
		return formatJCal, nil
	}
	return "", fmt.Errorf("unknown format %q: want ics, xcal or jcal", explicit)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	exist, err := pkg.CheckFileExist(path)
	if err != nil {
		return nil, fmt.Errorf("check input file: %w", err)
	}
	if !exist {
		return nil, fmt.Errorf("input file %s does not exist", path)
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

func (nopWriteCloser) Close() error { return nil }

func newCalendarReader(format string, r io.Reader, opts []stream.Option) calendarReader {
	switch format {
	case formatXCal:
		return xcal.NewReader(r, opts...)
	case formatJCal:
		return jcal.NewReader(r, opts...)
	default:
		return text.NewReader(r, opts...)
	}
}

func newCalendarWriter(format string, w io.Writer, v ical.Version, opts []stream.Option) calendarWriter {
	switch format {
	case formatXCal:
		return xcal.NewWriter(w, opts...)
	case formatJCal:
		return jcal.NewWriter(w, opts...)
	default:
		return text.NewWriter(w, v, opts...)
	}
}

// readCalendars 读取全部日历, warn 收到每个日历的警告
func readCalendars(rd calendarReader, warn func(ical.Warning)) ([]*ical.Component, error) {
	var out []*ical.Component
	for {
		c, err := rd.ReadNext()
		for _, w := range rd.Warnings() {
			warn(w)
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
}
