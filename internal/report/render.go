// Package report renders validation and simulation outputs for human
// consumption. Reports are rendered, never mutated: a renderer takes a
// completed result and produces markdown or HTML text.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"phonolab/domain/simulation"
	"phonolab/domain/verdict"
)

// ValidationMarkdown renders one validation report as markdown
func ValidationMarkdown(r *verdict.ValidationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation Report %s\n\n", r.ID)
	fmt.Fprintf(&b, "**Verdict: %s**", r.Verdict)
	if r.Validated {
		b.WriteString(" (methodology validated)\n\n")
	} else {
		b.WriteString(" (methodology not validated)\n\n")
	}

	fmt.Fprintf(&b, "- Samples: %d (train %d / held-out %d, ratio %.2f)\n",
		r.SampleSize, r.TrainSize, r.TestSize, r.SplitRatio)
	fmt.Fprintf(&b, "- Seed: %d\n\n", r.Seed)

	b.WriteString("## Held-out metrics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Accuracy | %.4f |\n", r.Metrics.Accuracy)
	fmt.Fprintf(&b, "| Precision | %.4f |\n", r.Metrics.Precision)
	fmt.Fprintf(&b, "| Recall | %.4f |\n", r.Metrics.Recall)
	fmt.Fprintf(&b, "| F1 | %.4f |\n", r.Metrics.F1)
	if r.Metrics.AUCAvailable {
		fmt.Fprintf(&b, "| AUC-ROC | %.4f |\n", r.Metrics.AUC)
	} else {
		b.WriteString("| AUC-ROC | unavailable (single-class held-out set) |\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Confusion: TP=%d TN=%d FP=%d FN=%d\n\n",
		r.Confusion.TruePositive, r.Confusion.TrueNegative,
		r.Confusion.FalsePositive, r.Confusion.FalseNegative)

	b.WriteString("## Cross-validation\n\n")
	if r.CrossVal.Available {
		fmt.Fprintf(&b, "Stratified %d-fold accuracy: %.4f ± %.4f",
			r.CrossVal.Folds, r.CrossVal.MeanAccuracy, r.CrossVal.StdDev)
		if r.CrossVal.FoldsSkipped > 0 {
			fmt.Fprintf(&b, " (%d degenerate fold(s) skipped)", r.CrossVal.FoldsSkipped)
		}
		b.WriteString("\n\n")
	} else {
		b.WriteString("unavailable (all folds degenerate)\n\n")
	}

	if len(r.Importance) > 0 {
		b.WriteString("## Feature importance\n\n")
		b.WriteString("| Rank | Feature | Weight |\n|---|---|---|\n")
		for _, fi := range r.Importance {
			fmt.Fprintf(&b, "| %d | %s | %+.4f |\n", fi.Rank, fi.Feature, fi.Weight)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// SimulationMarkdown renders one Monte Carlo result as markdown
func SimulationMarkdown(r *simulation.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Simulation %s\n\n", r.ID)
	fmt.Fprintf(&b, "Point estimate %.2f, volatility %.2f, %d trials.\n\n",
		r.PointEstimate, r.Volatility, r.Trials)

	b.WriteString("| Statistic | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Mean | %.4f |\n", r.Mean)
	fmt.Fprintf(&b, "| Std dev | %.4f |\n", r.StdDev)
	fmt.Fprintf(&b, "| Min / Max | %.4f / %.4f |\n", r.Min, r.Max)
	fmt.Fprintf(&b, "| P5 / P25 / Median / P75 / P95 | %.2f / %.2f / %.2f / %.2f / %.2f |\n",
		r.Percentiles.P5, r.Percentiles.P25, r.Percentiles.Median,
		r.Percentiles.P75, r.Percentiles.P95)
	fmt.Fprintf(&b, "| VaR 95%% / 99%% | %.4f / %.4f |\n", r.VaR95, r.VaR99)
	b.WriteString("\n")

	if len(r.Thresholds) > 0 {
		b.WriteString("## Threshold crossings\n\n")
		for _, t := range r.Thresholds {
			fmt.Fprintf(&b, "- P(outcome > %.0f) = %.4f\n", t.Threshold, t.Probability)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// ToHTML converts rendered markdown into a standalone HTML fragment
func ToHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(md))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.Render(doc, renderer))
}
