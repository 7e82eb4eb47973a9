package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-legaldocs/pkg/store"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage client records",
}

var clientsImportCmd = &cobra.Command{
	Use:   "import [clients.json]",
	Short: "Upsert clients from a JSON array",
	Long: `Reads [{"id": ..., "name": ..., "attributes": {...}}] from a file (or "-"
for stdin) and saves each client by id. Clients without an id get a new one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		var clients []store.Client
		if err := json.Unmarshal(data, &clients); err != nil {
			return fmt.Errorf("docgen: decode clients: %w", err)
		}

		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			for _, c := range clients {
				saved, err := a.store.SaveClient(ctx, c)
				if err != nil {
					return err
				}
				cmd.Printf("%s  %s\n", saved.ID, saved.Name)
			}
			cmd.Printf("Imported %d clients\n", len(clients))
			return nil
		})
	},
}

var clientsShowCmd = &cobra.Command{
	Use:   "show [client-id]",
	Short: "Show a client record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			c, err := a.store.GetClient(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, c)
		})
	},
}

func init() {
	clientsCmd.AddCommand(clientsImportCmd)
	clientsCmd.AddCommand(clientsShowCmd)
	rootCmd.AddCommand(clientsCmd)
}
