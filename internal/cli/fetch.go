package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"douyin-comments/internal/analysis"
	"douyin-comments/internal/models"
	pkgerrs "douyin-comments/pkg/errors"
)

const defaultTopTerms = 100

var (
	fetchMax     int
	fetchCursor  int64
	fetchNoDelay bool
	fetchAnalyze bool
	fetchTop     int
	fetchQuiet   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [link]",
	Short: "Retrieve every top-level comment of a video",
	Long: `Resolves the link, pages through the comment list and prints the result as JSON.
Progress is written to stderr. When the session fails after some pages the partial
result is still printed and the command exits with the error.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchMax, "max", "n", 0, "stop after this many comments (0 = all)")
	fetchCmd.Flags().Int64Var(&fetchCursor, "cursor", 0, "resume from this cursor")
	fetchCmd.Flags().BoolVar(&fetchNoDelay, "no-delay", false, "do not pause between pages")
	fetchCmd.Flags().BoolVar(&fetchAnalyze, "analyze", false, "print summary, hourly trend and cloud terms instead of the comments")
	fetchCmd.Flags().IntVar(&fetchTop, "top", defaultTopTerms, "number of cloud terms with --analyze")
	fetchCmd.Flags().BoolVarP(&fetchQuiet, "quiet", "q", false, "do not report progress")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fetchMax < 0 {
		return fmt.Errorf("--max must not be negative")
	}
	if fetchCursor < 0 {
		return fmt.Errorf("--cursor must not be negative")
	}

	env, err := environment(fetchNoDelay)
	if err != nil {
		return err
	}

	cred := credential(env)
	if cred == "" {
		return &pkgerrs.EmptyInputError{Field: "credential"}
	}

	ctx := cmd.Context()
	videoID, err := env.Service.ResolveVideoID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	var progress models.ProgressFunc
	if !fetchQuiet {
		progress = progressPrinter(cmd.ErrOrStderr())
	}

	res, sessionErr := env.Service.FetchComments(ctx, models.RetrievalRequest{
		VideoID:     videoID,
		Credential:  cred,
		StartCursor: fetchCursor,
		MaxComments: fetchMax,
	}, progress)
	if sessionErr != nil && len(res.Comments) == 0 {
		return fmt.Errorf("fetch failed: %w", sessionErr)
	}

	var out any
	if fetchAnalyze {
		a := models.AnalysisResponse{
			VideoID:  res.VideoID,
			Summary:  analysis.Summarize(res.Comments),
			Trend:    analysis.TimeTrend(res.Comments, nil),
			Terms:    analysis.CloudTerms(analysis.TermFrequency(res.Comments, nil, nil), fetchTop),
			Complete: res.Complete,
		}
		if sessionErr != nil {
			a.Error = sessionErr.Error()
		}
		out = a
	} else {
		r := models.CommentsResponse{RetrievalResult: res, Summary: analysis.Summarize(res.Comments)}
		if sessionErr != nil {
			r.Error = sessionErr.Error()
		}
		out = r
	}

	if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if sessionErr != nil {
		return fmt.Errorf("fetch incomplete after %d comments, resume with --cursor %d: %w",
			len(res.Comments), res.NextCursor, sessionErr)
	}
	return nil
}

func progressPrinter(w io.Writer) models.ProgressFunc {
	return func(p models.Progress) {
		if p.Total != nil {
			fmt.Fprintf(w, "fetched %d/%d\n", p.Fetched, *p.Total)
			return
		}
		fmt.Fprintf(w, "fetched %d (total unknown)\n", p.Fetched)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
