package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"wealth-planner/internal/models"
	"wealth-planner/internal/planner"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	profilePath string
	searchKey   string
	genaiKey    string
	rawOutput   bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a plan for a profile file and print it",
	Long: `Reads a YAML financial profile, runs validation, resource search and
plan generation, and renders the result as markdown in the terminal.

Keys not given as flags fall back to GEMINI_API_KEY and SERPAPI_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := readProfile(profilePath)
		if err != nil {
			return err
		}

		pipeline := planner.NewFromConfig(cfg, log)
		resp, err := pipeline.Run(cmd.Context(), planner.NewRequest("cli", profile, models.Credentials{
			SearchAPIKey: searchKey,
			GenAIAPIKey:  genaiKey,
		}))
		if err != nil {
			return err
		}

		report := renderReport(resp)
		if !rawOutput {
			report = renderTerminal(report)
		}
		fmt.Fprint(cmd.OutOrStdout(), report)

		if resp.Error != nil {
			return resp.Error
		}
		return nil
	},
}

func init() {
	planCmd.Flags().StringVarP(&profilePath, "profile", "p", "", "YAML profile file, or - for stdin")
	planCmd.Flags().StringVar(&searchKey, "search-key", "", "search API key")
	planCmd.Flags().StringVar(&genaiKey, "genai-key", "", "generative model API key")
	planCmd.Flags().BoolVar(&rawOutput, "raw", false, "print markdown without terminal styling")
	_ = planCmd.MarkFlagRequired("profile")
}

func readProfile(path string) (models.FinancialProfile, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return models.FinancialProfile{}, fmt.Errorf("read profile: %w", err)
	}
	return parseProfile(data)
}

func parseProfile(data []byte) (models.FinancialProfile, error) {
	var p models.FinancialProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

// renderReport lays the response out as markdown.
func renderReport(resp *planner.Response) string {
	var b strings.Builder

	for _, e := range resp.Blocking() {
		fmt.Fprintf(&b, "> **Blocked:** %s\n>\n> %s\n\n", e.Message, e.Details)
	}
	for _, e := range resp.Advisories() {
		fmt.Fprintf(&b, "> **Warning:** %s\n\n", e.Message)
	}
	for _, e := range resp.Notices {
		fmt.Fprintf(&b, "> **Note:** %s (%s)\n\n", e.Message, e.Details)
	}

	if resp.HasPlan() {
		b.WriteString(*resp.Plan)
		b.WriteString("\n\n")
	}

	if len(resp.Resources) > 0 {
		b.WriteString("## Curated Resources\n\n")
		for _, r := range resp.Resources {
			fmt.Fprintf(&b, "- [%s](%s)", r.Title, r.Link)
			if r.Snippet != "" {
				fmt.Fprintf(&b, ": %s", r.Snippet)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n*Investments are subject to market risks. Read all scheme documents carefully. ")
	b.WriteString("RBI Deposit Insurance covers up to ₹5L per depositor.*\n")
	return b.String()
}

func renderTerminal(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
