package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
)

var (
	queryDocs []string
	queryType string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Rank stored chunks against a query",
	Long: `Embeds the query text and returns the most similar stored chunks.
Scope the search with --doc (repeatable) or --type; with neither, all
stored documents are searched.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringArrayVarP(&queryDocs, "doc", "d", nil, "document id to search (repeatable)")
	queryCmd.Flags().StringVarP(&queryType, "type", "t", "", "search all documents of this type")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 5, "maximum number of results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if len(queryDocs) > 0 && queryType != "" {
		return errors.New("--doc and --type are mutually exclusive")
	}

	ctx := context.Background()

	var results []domain.RetrievalResult
	var err error
	switch {
	case queryType != "":
		results, err = retrievalService.RetrieveByType(ctx, query, queryType, queryTopK)
	case len(queryDocs) == 1:
		results, err = retrievalService.Retrieve(ctx, query, queryDocs[0], queryTopK)
	case len(queryDocs) > 1:
		results, err = retrievalService.RetrieveMany(ctx, query, queryDocs, queryTopK)
	default:
		var infos []domain.RecordInfo
		infos, err = retrievalService.ListDocuments(ctx)
		if err != nil {
			break
		}
		docIDs := make([]string, len(infos))
		for i, info := range infos {
			docIDs[i] = info.DocumentID
		}
		results, err = retrievalService.RetrieveMany(ctx, query, docIDs, queryTopK)
	}
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, result := range results {
		cmd.Printf("  [%d] %s chunk %d (%.4f)\n",
			i+1, result.DocumentID, result.Chunk.Position, result.Score)
		if result.Chunk.SourceFile != "" {
			cmd.Printf("      Source: %s, page %d\n", result.Chunk.SourceFile, result.Chunk.Page+1)
		}
		cmd.Printf("      %s\n", snippet(result.Chunk.Content, 160))
		cmd.Println()
	}
	return nil
}

// snippet truncates content to at most n runes for display.
func snippet(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n]) + "..."
}
