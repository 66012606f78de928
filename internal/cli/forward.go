package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/youmna-rabie/rag-gateway/internal/config"
	"github.com/youmna-rabie/rag-gateway/internal/rag"
	"github.com/youmna-rabie/rag-gateway/internal/types"
)

var (
	promptContent  string
	promptQuestion string
)

func init() {
	for _, cmd := range []*cobra.Command{queryCmd, addCmd} {
		cmd.Flags().StringVar(&promptContent, "content", "", "prompt content")
		cmd.Flags().StringVar(&promptQuestion, "question", "", "prompt question")
		rootCmd.AddCommand(cmd)
	}
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Send one prompt to the backend query endpoint and print the result",
	RunE:  forwardCommand(rag.OpQuery),
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Send one prompt to the backend ingestion endpoint and print the result",
	RunE:  forwardCommand(rag.OpAdd),
}

// forwardCommand runs a single forwarding operation outside the server and
// prints the result envelope as JSON. A failed result exits non-zero.
func forwardCommand(operation string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		logger, closeLog := newLogger(cfg.Logging, cmd.ErrOrStderr())
		defer closeLog.Close()

		svc := buildService(cfg.Backend, logger, nil)
		prompt := types.Prompt{Content: promptContent, Question: promptQuestion}

		var (
			out    any
			ok     bool
			status int
		)
		switch operation {
		case rag.OpQuery:
			res := svc.Query(context.Background(), prompt)
			out, ok, status = res, res.IsSuccess(), res.StatusCode()
		default:
			res := svc.Add(context.Background(), prompt)
			out, ok, status = res, res.IsSuccess(), res.StatusCode()
		}

		if err := printJSON(cmd.OutOrStdout(), out); err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s failed with status %d", operation, status)
		}
		return nil
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}
