package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modenalabs/zonda-intel/internal/access"
	"github.com/modenalabs/zonda-intel/internal/answer"
)

var (
	askRole   string
	askStream bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a question",
	Long: `Ask answers a question from the indexed knowledge base. The --role flag
sets the caller's access tier (viewer, engineer, admin); documents above
that tier are invisible to the query.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askRole, "role", "viewer", "access tier: viewer, engineer or admin")
	askCmd.Flags().BoolVar(&askStream, "stream", false, "stream the answer as it is generated")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	role, err := access.ParseRole(askRole)
	if err != nil {
		return fmt.Errorf("invalid --role %q: %w", askRole, err)
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	if err := a.assistant.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing index: %w", err)
	}

	question := strings.Join(args, " ")
	caller := access.Identity{Subject: "cli", Role: role}

	if askStream {
		return streamAnswer(ctx, a, question, caller)
	}

	result, err := a.assistant.Ask(ctx, question, caller)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func streamAnswer(ctx context.Context, a *app, question string, caller access.Identity) error {
	var done *answer.Result
	for ev := range a.assistant.AskStream(ctx, question, caller) {
		switch {
		case ev.Err != nil:
			fmt.Println()
			return ev.Err
		case ev.Done != nil:
			done = ev.Done
		default:
			fmt.Print(ev.Text)
		}
	}
	fmt.Println()
	printProvenance(done)
	return nil
}

func printResult(result *answer.Result) {
	fmt.Println(result.Answer)
	printProvenance(result)
}

func printProvenance(result *answer.Result) {
	if result == nil {
		return
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Confidence: %s\n", result.Confidence)
	if len(result.Sources) > 0 {
		fmt.Fprintf(os.Stderr, "Sources: %s\n", strings.Join(result.Sources, ", "))
	}
}
