package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/payload"
)

var (
	generateClient   string
	generateTemplate string
	generateData     string
	generateUser     string
	batchUser        string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one document for a client",
	Long: `Generates one document from a stored template and client record.

Extra data is read from a JSON file (or "-" for stdin) and overrides the
client's own fields. Without --template an interactive picker is shown when
stdin is a terminal.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var batchCmd = &cobra.Command{
	Use:   "batch [request.json]",
	Short: "Generate several documents for one client",
	Long: `Reads a batch request {"clientId": ..., "documents": [{"templateId": ...,
"extraData": {...}}]} and generates each document. Failing items are skipped
and reported; the rest are still generated.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	generateCmd.Flags().StringVar(&generateClient, "client", "", "client id")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "template id")
	generateCmd.Flags().StringVarP(&generateData, "data", "d", "", `extra data JSON file ("-" for stdin)`)
	generateCmd.Flags().StringVar(&generateUser, "user", "", "acting user id recorded with the document")
	_ = generateCmd.MarkFlagRequired("client")

	batchCmd.Flags().StringVar(&batchUser, "user", "", "acting user id recorded with the documents")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	extra, err := readExtraData(cmd, generateData)
	if err != nil {
		return err
	}

	return withApp(ctx, func(a *app) error {
		templateID := generateTemplate
		if templateID == "" {
			if !interactive() {
				return errors.New("docgen: --template is required when stdin is not a terminal")
			}
			templates, err := a.store.ListTemplates(ctx)
			if err != nil {
				return err
			}
			tpl, err := pickTemplate(ctx, templates)
			if err != nil {
				return err
			}
			templateID = tpl.ID
		}

		res, err := a.orch.Generate(ctx, orchestrator.Request{
			ClientID:     generateClient,
			TemplateID:   templateID,
			ExtraData:    extra,
			ActingUserID: generateUser,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	})
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	var req orchestrator.BatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("docgen: decode batch request: %w", err)
	}
	req.ActingUserID = batchUser

	return withApp(ctx, func(a *app) error {
		res, err := a.orch.GenerateBatch(ctx, req)
		if err != nil {
			return err
		}
		for _, s := range res.Skipped {
			cmd.PrintErrf("skipped #%d (%s): %v\n", s.Index, s.TemplateID, s.Err)
		}
		return printJSON(cmd, res)
	})
}

func readExtraData(cmd *cobra.Command, path string) (payload.Payload, error) {
	if path == "" {
		return payload.Payload{}, nil
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	p, err := payload.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("docgen: decode %s: %w", path, err)
	}
	return p, nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("docgen: read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docgen: read %s: %w", path, err)
	}
	return data, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("docgen: encode output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
