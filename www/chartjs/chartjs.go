package chartjs

import (
	"github.com/icodeforyou/spotboard-go/convert"
	"github.com/icodeforyou/spotboard-go/slice"
	"github.com/icodeforyou/spotboard-go/types/maybe"
)

const ColorYellow = "#ffc107d4"
const ColorRed = "#f44336d4"
const ColorGreen = "#4caf50d4"
const ColorGrey = "#9e9e9ed4"

func NewChart(chartType string, title string, labels []string) Chart {
	chart := Chart{
		Type: chartType,
		Data: ChartData{
			Labels:   labels,
			Datasets: []ChartDataset{},
		},
		Options: ChartOptions{
			Responsive: true,
			Plugins: ChartPlugins{
				Legend: ChartLegend{Display: true},
				Title:  ChartTitle{Display: false},
			},
			Scales: map[string]ChartScale{
				"YAxis1": {
					Type:     "linear",
					Display:  true,
					Position: "left",
					Title:    ChartScaleTitle{Display: true, Text: ""}},
			},
		},
	}

	if title != "" {
		chart.Options.Plugins.Title = ChartTitle{Display: true, Text: title}
	}

	return chart
}

func (c *Chart) AddDataset(label string, data []*float64, color string) {
	c.Data.Datasets = append(c.Data.Datasets, ChartDataset{
		Label:       label,
		Data:        data,
		BorderWidth: 1,
		Tension:     0.4,
		Fill:        c.Type == "line",
		BorderColor: color,
		YAxisID:     "YAxis1",
	})
}

func (c *Chart) AddBarDataset(label string, data []*float64, colors []string) {
	c.Data.Datasets = append(c.Data.Datasets, ChartDataset{
		Label:           label,
		Data:            data,
		BorderWidth:     1,
		BackgroundColor: colors,
		YAxisID:         "YAxis1",
	})
}

func (cs ChartScale) WithTitle(title string) ChartScale {
	cs.Title.Text = title
	return cs
}

func (cs ChartScale) WithMinAndMax(min, max float64) ChartScale {
	cs.Min = &min
	cs.Max = &max
	return cs
}

func FixedFloat64(num float64, precision int) *float64 {
	result := convert.RoundFloat64(num, precision)
	return &result
}

// Values rounds the values for a dataset, no value becomes a gap.
func Values(values []maybe.Maybe[float64], precision int) []*float64 {
	return slice.Map(values, func(v maybe.Maybe[float64]) *float64 {
		if !v.IsValid() {
			return nil
		}
		return FixedFloat64(v.Value(), precision)
	})
}
