package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Provider management commands (admin)",
	}

	cmd.AddCommand(newProviderRegisterCmd())
	cmd.AddCommand(newProviderListCmd())
	cmd.AddCommand(newProviderDeleteCmd())

	return cmd
}

func newProviderRegisterCmd() *cobra.Command {
	var name, webhook, secret string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a bot provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || webhook == "" {
				return fmt.Errorf("--name and --webhook are required")
			}

			req := map[string]string{
				"name":        name,
				"webhook_url": webhook,
			}
			if secret != "" {
				req["join_secret"] = secret
			}
			var result Provider

			if err := client.Post("/api/v1/providers", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Provider display name (required)")
	cmd.Flags().StringVar(&webhook, "webhook", "", "Webhook URL notified when humans are waiting (required)")
	cmd.Flags().StringVar(&secret, "secret", "", "Join secret issued to this provider's agents")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("webhook")

	return cmd
}

func newProviderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ProviderListResult

			if err := client.Get("/api/v1/providers", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProviderDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/providers/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Provider deleted")
			return nil
		},
	}
}
