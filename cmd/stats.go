package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
)

type statRow struct {
	metric string
	labels string
	value  float64
}

// gatherStats 展开 registry 中的计数器
func gatherStats(g prometheus.Gatherer) ([]statRow, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	var rows []statRow
	for _, mf := range families {
		name := strings.TrimPrefix(mf.GetName(), "ical_")
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			rows = append(rows, statRow{metric: name, labels: strings.Join(labels, ","), value: m.GetCounter().GetValue()})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].metric != rows[j].metric {
			return rows[i].metric < rows[j].metric
		}
		return rows[i].labels < rows[j].labels
	})
	return rows, nil
}

func printStats(w io.Writer, g prometheus.Gatherer) error {
	rows, err := gatherStats(g)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%g\n", r.metric, r.labels, r.value)
	}
	return tw.Flush()
}
