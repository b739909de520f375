package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	pkgio "github.com/pathwaylab/pathsim/pkg/io"
	"github.com/pathwaylab/pathsim/pkg/mithril"
	"github.com/pathwaylab/pathsim/pkg/phensim"
	"github.com/pathwaylab/pathsim/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleActive    = lipgloss.NewStyle().Foreground(colorGreen)
	styleInhibited = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Results
// =============================================================================

// writeResult writes v as JSON to path, or to stdout when path is empty.
// The summary is only printed alongside a file so that stdout stays valid JSON.
func (c *CLI) writeResult(cmd *cobra.Command, path string, v any, summary func()) error {
	if path == "" {
		return pkgio.WriteJSON(v, cmd.OutOrStdout())
	}
	if err := pkgio.ExportJSON(v, path); err != nil {
		return err
	}
	summary()
	printFile(path)
	return nil
}

// printRunLine prints the sizes and cache status of a run on a single line.
func printRunLine(parts []string, cached bool) {
	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line + StyleDim.Render(" · ") + statusStyle.Render(status))
}

// printAnalysisSummary lists the most significant pathways of an analysis.
func printAnalysisSummary(res *pipeline.AnalysisResult, top int) {
	r := res.Result
	printSuccess("Analyzed %s pathways", StyleNumber.Render(fmt.Sprint(len(r.Pathways))))
	printRunLine([]string{
		fmt.Sprintf("%d nodes", r.Universe),
		fmt.Sprintf("%d DE", r.DENodes),
		fmt.Sprintf("%d permutations", r.Repetitions),
		"seed " + describeSeed(res.Seed, res.CacheHit),
	}, res.CacheHit)

	ranked := slices.Clone(r.Pathways)
	ranked = slices.DeleteFunc(ranked, func(p mithril.PathwayResult) bool { return p.Skipped })
	slices.SortStableFunc(ranked, func(a, b mithril.PathwayResult) int {
		return cmp.Or(cmp.Compare(a.AdjustedPValue, b.AdjustedPValue), strings.Compare(a.ID, b.ID))
	})
	for _, p := range ranked[:max(0, min(top, len(ranked)))] {
		printKeyValue(p.ID, fmt.Sprintf("adj.p %.3g  p %.3g  IF %.3f  acc %+.3f",
			p.AdjustedPValue, p.PValue, p.ImpactFactor, p.Accumulation))
	}
}

// printSimulationSummary lists the most significant pathways of a simulation.
func printSimulationSummary(res *pipeline.SimulationResult, top int) {
	r := res.Result
	printSuccess("Simulated %s pathways", StyleNumber.Render(fmt.Sprint(len(r.Pathways))))
	printRunLine([]string{
		fmt.Sprintf("%d nodes", len(r.Nodes)),
		fmt.Sprintf("%d replicates", r.Replicates),
		fmt.Sprintf("%d simulations", r.Simulations),
		"seed " + describeSeed(res.Seed, res.CacheHit),
	}, res.CacheHit)
	if r.FailedReplicates > 0 {
		printWarning("%d of %d replicates failed", r.FailedReplicates, r.Replicates)
	}

	ranked := slices.Clone(r.Pathways)
	slices.SortStableFunc(ranked, func(a, b phensim.Entry) int {
		return cmp.Or(cmp.Compare(a.AdjustedPValue, b.AdjustedPValue), strings.Compare(a.ID, b.ID))
	})
	for _, p := range ranked[:max(0, min(top, len(ranked)))] {
		printKeyValue(p.ID, fmt.Sprintf("%s  score %+.3f  adj.p %.3g",
			renderState(p.State), p.ActivityScore, p.AdjustedPValue))
	}
}

func renderState(s phensim.State) string {
	label := fmt.Sprintf("%-9s", s)
	switch s {
	case phensim.Active:
		return styleActive.Render(label)
	case phensim.Inhibited:
		return styleInhibited.Render(label)
	}
	return StyleDim.Render(label)
}
