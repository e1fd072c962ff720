package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/sightline/internal/detect"
	"github.com/banshee-data/sightline/internal/units"
)

// Timeline renders an HTML scatter of crossings over time, one series per
// target. Y is the speed at the crossing in mph.
func Timeline(w io.Writer, title string, records []detect.Record) error {
	series := map[string][]opts.ScatterData{}
	for _, r := range records {
		name := fmt.Sprintf("%s %d", r.TargetKind, r.TargetID)
		mph := math.Round(units.ConvertSpeed(r.Speed, units.MPH)*10) / 10
		series[name] = append(series[name], opts.ScatterData{
			Name:  r.Label,
			Value: []interface{}{int64(math.Round(r.Timestamp * 1000)), mph},
		})
	}
	names := make([]string, 0, len(series))
	for n := range series {
		names = append(names, n)
	}
	sort.Strings(names)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1100px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d crossings", len(records))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "time", Name: "Time", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Speed (mph)", NameLocation: "middle", NameGap: 35}),
	)
	for _, n := range names {
		scatter.AddSeries(n, series[n], charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	}
	return scatter.Render(w)
}
