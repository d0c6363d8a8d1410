package viz

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tanksim/internal/experiment"
)

// WriteReport prints the run summary and the A/B/C table of every step event.
func WriteReport(w io.Writer, report *experiment.Report, st Styles) error {
	var b strings.Builder
	cfg := report.Config

	b.WriteString(st.Header.Render("open-loop response") + "\n")
	row(&b, st, "setpoint", fmt.Sprintf("%.2f", cfg.Setpoint))
	row(&b, st, "initial state", fmt.Sprintf("%.2f", cfg.InitialState))
	row(&b, st, "samples", fmt.Sprintf("%d", report.Grid.Len()))
	row(&b, st, "spacing", fmt.Sprintf("%.6f", report.Grid.Spacing()))
	row(&b, st, "integrator", cfg.Integrator)
	row(&b, st, "substeps", fmt.Sprintf("%d", report.Result.Substeps))

	names := make([]string, 0, len(report.Result.Metrics))
	for name := range report.Result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		row(&b, st, name, fmt.Sprintf("%.6f", report.Result.Metrics[name]))
	}

	if len(report.Responses) > 0 {
		b.WriteString("\n" + st.Header.Render("step response (3 parameters)") + "\n")
		b.WriteString(st.Label.Render("step") + st.Muted.Render("A") + st.Muted.Render("B") + st.Muted.Render("C") + st.Muted.Render("63% seen") + "\n")
	}
	for i, resp := range report.Responses {
		name := report.Config.Events[i].Name
		if err := report.EventErrors[i]; err != nil {
			b.WriteString(st.Label.Render(name) + st.Bad.Render(err.Error()) + "\n")
			continue
		}
		crossing := st.Muted.Render("-")
		if !math.IsNaN(resp.Crossing) {
			crossing = st.Value.Render(fmt.Sprintf("%.1f", resp.Crossing))
		}
		b.WriteString(st.Good.Render(name) +
			st.Value.Render(fmt.Sprintf("%.4f", resp.A)) +
			st.Value.Render(fmt.Sprintf("%.4f", resp.B)) +
			st.Value.Render(fmt.Sprintf("%.4f", resp.C)) +
			crossing + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func row(b *strings.Builder, st Styles, label, value string) {
	b.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
}

// Chart renders values as an ASCII line chart of the given width.
func Chart(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// WriteCharts prints the output and input trajectories as ASCII charts.
func WriteCharts(w io.Writer, report *experiment.Report, width int) error {
	out := Chart(report.Result.Outputs, "Taq(t) temperature", width, 12)
	in := Chart(report.Result.Inputs, "u(t) current", width, 6)
	_, err := fmt.Fprintf(w, "%s\n\n%s\n", out, in)
	return err
}
