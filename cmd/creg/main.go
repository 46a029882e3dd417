package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"creg/internal/app"
	"creg/internal/config"
	"creg/internal/registry"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Exit codes.
const (
	exitFailure = 1
	exitConfig  = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(exitCode(err))
	}
}

// configError marks failures to locate, read or validate configuration.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// formatError renders err as "error: <kind>: <message>".
func formatError(err error) string {
	kind := "Internal"
	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		kind = "Config"
	} else if k, ok := registry.KindOf(err); ok {
		kind = k.String()
	}
	return fmt.Sprintf("error: %s: %v", kind, err)
}

func exitCode(err error) int {
	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		return exitConfig
	}
	return exitFailure
}

func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, &configError{fmt.Errorf("getting defaults: %w", err)}
	}
	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, &configError{fmt.Errorf("reading config: %w", err)}
	}
	return cfg, nil
}

// newApp reads the config and creates a CregApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Publish", "Pay").
func newApp(operation string, args []string) (*app.CregApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewCregApp(cfg, operation, strings.Join(args, " "), readPassphrase)
	if errors.Is(err, app.ErrInvalidConfig) {
		return nil, &configError{fmt.Errorf("initializing app: %w", err)}
	}
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// readPassphrase takes the passphrase from CREG_PASSPHRASE, or prompts for it
// on the terminal.
func readPassphrase() (string, error) {
	if p := os.Getenv("CREG_PASSPHRASE"); p != "" {
		return p, nil
	}
	return promptPassphrase("Passphrase: ")
}

func promptPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal; set CREG_PASSPHRASE")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, registry.ErrInvalidAmount)
	}
	return amount, nil
}

var rootCmd = &cobra.Command{
	Use:           "creg",
	Short:         "Creator and content registry",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return &configError{fmt.Errorf("getting defaults: %w", err)}
		}

		instanceID := uuid.New().String()
		cfg := config.NewConfig(instanceID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return &configError{err}
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Instance ID: %s\n", instanceID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Instance ID: %s\n", cfg.InstanceID)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Log Level:   %s\n", cfg.LogLevel)
		fmt.Printf("Store:       %s (sealed: %t)\n", cfg.Store.Type, cfg.Store.Sealed)
		fmt.Printf("Ledger:      %s (notes: %t)\n", cfg.Ledger.Type, cfg.Ledger.RecordNotes)
		if len(cfg.Moderation.BannedTerms) > 0 {
			fmt.Printf("Extra banned terms: %s\n", strings.Join(cfg.Moderation.BannedTerms, ", "))
		}
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var configKeysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the key pair used to seal the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		passphrase, err := promptPassphrase("New passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := app.SetupKeys(cfg, passphrase); err != nil {
			return err
		}
		fmt.Printf("Keys written to %s and %s\n", cfg.Encryption.PublicKeyPath, cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

// creator command
var creatorCmd = &cobra.Command{
	Use:   "creator",
	Short: "Manage creators",
}

var creatorRegisterCmd = &cobra.Command{
	Use:   "register WALLET",
	Short: "Register a creator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")

		a, err := newApp("RegisterCreator", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RegisterCreator(args[0], name, email); err != nil {
			return err
		}
		fmt.Printf("Registered creator %s\n", args[0])
		return nil
	},
}

var creatorRemoveCmd = &cobra.Command{
	Use:   "remove WALLET",
	Short: "Remove a creator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")

		a, err := newApp("RemoveCreator", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveCreator(args[0], confirm); err != nil {
			return err
		}
		fmt.Printf("Removed creator %s\n", args[0])
		return nil
	},
}

var creatorUpdateCmd = &cobra.Command{
	Use:   "update WALLET",
	Short: "Replace a creator's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		var social *string
		if cmd.Flags().Changed("social") {
			s, _ := cmd.Flags().GetString("social")
			social = &s
		}

		a, err := newApp("UpdateCreator", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.UpdateCreator(args[0], name, email, social); err != nil {
			return err
		}
		fmt.Printf("Updated creator %s\n", args[0])
		return nil
	},
}

var creatorShowCmd = &cobra.Command{
	Use:   "show WALLET",
	Short: "Show a creator's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ShowCreator", args)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.ShowCreator(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Wallet:   %s\n", args[0])
		fmt.Printf("Username: %s\n", c.Username)
		fmt.Printf("Email:    %s\n", c.Email)
		if c.SocialLinks != nil {
			fmt.Printf("Social:   %s\n", *c.SocialLinks)
		}
		return nil
	},
}

var creatorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered creators",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListCreators", args)
		if err != nil {
			return err
		}
		defer a.Close()

		creators, err := a.ListCreators()
		if err != nil {
			return err
		}
		if len(creators) == 0 {
			fmt.Println("No creators registered.")
			return nil
		}
		for _, c := range creators {
			fmt.Printf("%s\t%s\t%s\n", c.WalletID, c.Creator.Username, c.Creator.Email)
		}
		return nil
	},
}

// content command
var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage published content",
}

var contentPublishCmd = &cobra.Command{
	Use:   "publish WALLET",
	Short: "Publish a content item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		url, _ := cmd.Flags().GetString("url")

		a, err := newApp("Publish", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Publish(args[0], title, description, url); err != nil {
			return err
		}
		fmt.Printf("Published %q\n", title)
		return nil
	},
}

var contentUnpublishCmd = &cobra.Command{
	Use:   "unpublish WALLET",
	Short: "Remove a content item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		confirm, _ := cmd.Flags().GetBool("confirm")

		a, err := newApp("Unpublish", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Unpublish(args[0], title, confirm); err != nil {
			return err
		}
		fmt.Printf("Unpublished %q\n", title)
		return nil
	},
}

var contentUpdateCmd = &cobra.Command{
	Use:   "update WALLET",
	Short: "Replace a content item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		newTitle, _ := cmd.Flags().GetString("new-title")
		newDescription, _ := cmd.Flags().GetString("new-description")
		newURL, _ := cmd.Flags().GetString("new-url")

		a, err := newApp("UpdateContent", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.UpdateContent(args[0], title, newTitle, newDescription, newURL); err != nil {
			return err
		}
		fmt.Printf("Updated %q\n", title)
		return nil
	},
}

var contentListCmd = &cobra.Command{
	Use:   "list WALLET",
	Short: "List a creator's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListContent", args)
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.ListContent(args[0])
		if err != nil {
			return err
		}
		printItems(items)
		return nil
	},
}

var contentSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search titles and descriptions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Search", args)
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.Search(args[0])
		if err != nil {
			return err
		}
		printItems(items)
		return nil
	},
}

var contentReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Check a description against the moderation filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")

		a, err := newApp("Review", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Review(description) {
			fmt.Println("approved")
		} else {
			fmt.Println("rejected")
		}
		return nil
	},
}

func printItems(items []registry.ContentItem) {
	if len(items) == 0 {
		fmt.Println("No content found.")
		return
	}
	for _, item := range items {
		fmt.Printf("%s\t%s\t%s\tauthenticated=%t\n", item.Title, item.Description, item.FileURL, item.Authenticated)
	}
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View version and deletion history",
}

var historyVersionsCmd = &cobra.Command{
	Use:   "versions WALLET",
	Short: "Show previous versions of updated content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Versions", args)
		if err != nil {
			return err
		}
		defer a.Close()

		versions, err := a.Versions(args[0])
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			fmt.Println("No versions recorded.")
			return nil
		}
		for _, v := range versions {
			fmt.Printf("%s\t%s\t%s\t%s\n", v.Timestamp.Format("2006-01-02 15:04:05"), v.Title, v.Description, v.FileURL)
		}
		return nil
	},
}

var historyDeletionsCmd = &cobra.Command{
	Use:   "deletions WALLET",
	Short: "Show unpublished content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Deletions", args)
		if err != nil {
			return err
		}
		defer a.Close()

		deletions, err := a.Deletions(args[0])
		if err != nil {
			return err
		}
		if len(deletions) == 0 {
			fmt.Println("No deletions recorded.")
			return nil
		}
		for _, d := range deletions {
			fmt.Printf("%s\t%s\t%s\n", d.Timestamp.Format("2006-01-02 15:04:05"), d.Title, d.Description)
		}
		return nil
	},
}

// pay command
var payCmd = &cobra.Command{
	Use:   "pay CONSUMER CREATOR AMOUNT",
	Short: "Compensate a creator for consumed content",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[2])
		if err != nil {
			return err
		}

		a, err := newApp("Pay", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Pay(args[0], args[1], amount); err != nil {
			return err
		}
		fmt.Printf("Paid %d from %s to %s\n", amount, args[0], args[1])
		return nil
	},
}

// ledger command
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and fund the local token ledger",
}

var ledgerBalanceCmd = &cobra.Command{
	Use:   "balance ADDRESS",
	Short: "Show an account balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Balance", args)
		if err != nil {
			return err
		}
		defer a.Close()

		balance, err := a.Balance(args[0])
		if err != nil {
			return err
		}
		fmt.Println(balance)
		return nil
	},
}

var ledgerFundCmd = &cobra.Command{
	Use:   "fund ADDRESS AMOUNT",
	Short: "Mint tokens into an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}

		a, err := newApp("Fund", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Fund(args[0], amount); err != nil {
			return err
		}
		fmt.Printf("Funded %s with %d\n", args[0], amount)
		return nil
	},
}

var ledgerHistoryCmd = &cobra.Command{
	Use:   "history ADDRESS",
	Short: "List transfers and notes for an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("LedgerHistory", args)
		if err != nil {
			return err
		}
		defer a.Close()

		transfers, notes, err := a.LedgerHistory(args[0])
		if err != nil {
			return err
		}
		for _, t := range transfers {
			fmt.Printf("transfer\t%s\t%s\t%s\t%d\n", t.ID, t.From, t.To, t.Amount)
		}
		for _, n := range notes {
			fmt.Printf("note\t%s\t%s\t%s\t%d\t%s\n", n.ID, n.From, n.To, n.Amount, n.Note)
		}
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeysCmd)
	configKeysCmd.AddCommand(configKeysInitCmd)

	// creator subcommands
	creatorCmd.AddCommand(creatorRegisterCmd)
	creatorRegisterCmd.Flags().String("name", "", "Display name")
	creatorRegisterCmd.Flags().String("email", "", "Contact email")
	creatorCmd.AddCommand(creatorRemoveCmd)
	creatorRemoveCmd.Flags().Bool("confirm", false, "Confirm removal")
	creatorCmd.AddCommand(creatorUpdateCmd)
	creatorUpdateCmd.Flags().String("name", "", "Display name")
	creatorUpdateCmd.Flags().String("email", "", "Contact email")
	creatorUpdateCmd.Flags().String("social", "", "Social links")
	creatorCmd.AddCommand(creatorShowCmd)
	creatorCmd.AddCommand(creatorListCmd)

	// content subcommands
	contentCmd.AddCommand(contentPublishCmd)
	contentPublishCmd.Flags().String("title", "", "Content title")
	contentPublishCmd.Flags().String("description", "", "Content description")
	contentPublishCmd.Flags().String("url", "", "File URL")
	contentCmd.AddCommand(contentUnpublishCmd)
	contentUnpublishCmd.Flags().String("title", "", "Content title")
	contentUnpublishCmd.Flags().Bool("confirm", false, "Confirm removal")
	contentCmd.AddCommand(contentUpdateCmd)
	contentUpdateCmd.Flags().String("title", "", "Title of the item to replace")
	contentUpdateCmd.Flags().String("new-title", "", "New title")
	contentUpdateCmd.Flags().String("new-description", "", "New description")
	contentUpdateCmd.Flags().String("new-url", "", "New file URL")
	contentCmd.AddCommand(contentListCmd)
	contentCmd.AddCommand(contentSearchCmd)
	contentCmd.AddCommand(contentReviewCmd)
	contentReviewCmd.Flags().String("description", "", "Description to check")

	// history subcommands
	historyCmd.AddCommand(historyVersionsCmd)
	historyCmd.AddCommand(historyDeletionsCmd)

	// ledger subcommands
	ledgerCmd.AddCommand(ledgerBalanceCmd)
	ledgerCmd.AddCommand(ledgerFundCmd)
	ledgerCmd.AddCommand(ledgerHistoryCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(creatorCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(ledgerCmd)
}
