package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driven"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage stored documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	RunE:  runDocumentsList,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [id...]",
	Short: "Delete stored documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocumentsDelete,
}

var documentsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage and embedding usage",
	RunE:  runDocumentsStats,
}

func init() {
	documentsListCmd.Flags().BoolVar(&documentsJSON, "json", false, "output as JSON")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsCmd.AddCommand(documentsStatsCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	infos, err := retrievalService.ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if documentsJSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(infos) == 0 {
		cmd.Println("No documents stored.")
		return nil
	}

	for _, info := range infos {
		cmd.Printf("  %s  type=%s  chunks=%d  model=%s  %s\n",
			info.DocumentID, info.DocumentType, info.ChunkCount,
			info.Model, info.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := context.Background()
	for _, docID := range args {
		if err := retrievalService.DeleteDocument(ctx, docID); err != nil {
			return fmt.Errorf("delete %s: %w", docID, err)
		}
		cmd.Printf("Deleted %s\n", docID)
	}
	return nil
}

func runDocumentsStats(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	infos, err := retrievalService.ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	totalChunks := 0
	byType := make(map[string]int)
	for _, info := range infos {
		totalChunks += info.ChunkCount
		byType[info.DocumentType]++
	}

	cmd.Printf("Documents: %d\n", len(infos))
	cmd.Printf("Chunks:    %d\n", totalChunks)
	for docType, count := range byType {
		cmd.Printf("  %s: %d\n", docType, count)
	}

	if metered, ok := embedService.(driven.MeteredEmbeddingService); ok {
		summary := metered.CostSummary()
		cmd.Printf("Embedding usage this session: %d tokens ($%.6f at $%.5f/1K)\n",
			summary.TotalTokens, summary.TotalCost, summary.CostPer1KTokens)
	}
	return nil
}
