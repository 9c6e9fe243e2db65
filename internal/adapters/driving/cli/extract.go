package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// transcriptSuffix marks a transcript file name.
const transcriptSuffix = "_output.txt"

var (
	extractModel      string
	extractStructured bool
	extractJSON       bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract contacts from one transcript",
	Long: `Runs candidate extraction on a single transcript file and scores the
candidates against the benchmark.

The model id selects the extraction rules. It defaults to the file name
without the _output.txt suffix. Use --structured to also recover the full
lead record from JSON blocks or labelled sections.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var extractJSONCmd = &cobra.Command{
	Use:   "extract-json",
	Short: "Recover structured lead records from all transcripts",
	Long: `Tries structured extraction on every stored transcript and writes
<model>.json for each success plus all_models_extracted.json.`,
	Args: cobra.NoArgs,
	RunE: runExtractJSON,
}

func init() {
	extractCmd.Flags().StringVarP(&extractModel, "model", "m", "", "model id (default derived from the file name)")
	extractCmd.Flags().BoolVar(&extractStructured, "structured", false, "include the structured lead record")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(extractCmd)

	extractJSONCmd.Flags().StringVarP(&transcriptDir, "dir", "d", "", "transcript directory (default from config)")
	rootCmd.AddCommand(extractJSONCmd)
}

// modelFromPath derives a model id from a transcript file name.
func modelFromPath(path string) string {
	base := filepath.Base(path)
	if id, ok := strings.CutSuffix(base, transcriptSuffix); ok && id != "" {
		return id
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runExtract(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errNoAnalysis
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTranscriptRead, err)
	}

	model := extractModel
	if model == "" {
		model = modelFromPath(args[0])
	}

	ctx := cmd.Context()
	out, err := analysisService.ExtractTranscript(ctx, model, string(data))
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	match, score, err := analysisService.Score(ctx, model, out.Candidates)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}
	if !extractStructured {
		out.Structured = nil
	}

	if extractJSON {
		payload := struct {
			*domain.ExtractionOutput
			Score float64             `json:"score"`
			Match *domain.MatchResult `json:"match"`
		}{out, score, match}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	p := newPrinter(cmd.OutOrStdout())
	p.modelSummary(model, *match)
	p.printf("Score: %.1f\n", score)

	if extractStructured {
		p.println("")
		if out.Structured == nil {
			p.println(p.muted.Render("No structured record found."))
			return nil
		}
		printLeadRecord(p, out.Structured)
	}
	return nil
}

func runExtractJSON(cmd *cobra.Command, _ []string) error {
	if analysisService == nil {
		return errNoAnalysis
	}

	records, err := analysisService.ExtractStructured(cmd.Context())
	if err != nil {
		return fmt.Errorf("structured extraction failed: %w", err)
	}

	p := newPrinter(cmd.OutOrStdout())
	if len(records) == 0 {
		p.println("No structured records found.")
		return nil
	}

	models := make([]string, 0, len(records))
	for m := range records {
		models = append(models, m)
	}
	sort.Strings(models)

	for _, m := range models {
		r := records[m]
		name := r.Business.Name
		if name == "" {
			name = "unknown business"
		}
		p.printf("%s %s: %d contacts (%s)\n", p.success.Render("✓"), m, len(r.Contacts), name)
	}
	p.printf("\nExtracted %d structured records.\n", len(records))
	return nil
}

// printLeadRecord prints the business and contacts of a lead record.
func printLeadRecord(p *printer, r *domain.LeadResults) {
	p.println(p.header.Render("Business: " + r.Business.Name))
	if r.Business.WebsiteURL != "" {
		p.printf("  Website: %s\n", r.Business.WebsiteURL)
	}
	if r.Business.Phone != "" {
		p.printf("  Phone: %s\n", r.Business.Phone)
	}
	if r.Business.Address != "" {
		p.printf("  Address: %s\n", r.Business.Address)
	}
	p.printf("Contacts (%d, confidence %s):\n", r.ContactsFound, r.SearchConfidence)
	for _, c := range r.Contacts {
		p.printf("  - %s, %s\n", c.Name, c.Title)
		if c.Email != "" {
			p.printf("      %s %s\n", c.Email, p.muted.Render(string(c.EmailType)))
		}
		if c.Phone != "" {
			p.printf("      %s %s\n", c.Phone, p.muted.Render(string(c.PhoneType)))
		}
	}
}
