package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scribe/internal/assistant"
)

// assistantCmd runs the admin assistant in the terminal, either as a
// one-shot message or an interactive loop.
var assistantCmd = &cobra.Command{
	Use:   "assistant [message]",
	Short: "Chat with the admin assistant",
	Long: `Sends a message to the natural-language admin assistant. With no
arguments, starts an interactive session; type "exit" to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		conv := assistant.NewConversation()

		if len(args) > 0 {
			return assistantTurn(cmd, appInstance.Assistant, conv, strings.Join(args, " "))
		}

		fmt.Println("Interactive assistant session. Type \"exit\" to quit.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(color.CyanString("you> "))
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}
			if err := assistantTurn(cmd, appInstance.Assistant, conv, line); err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("ERROR"), err)
			}
		}
	},
}

func assistantTurn(cmd *cobra.Command, router *assistant.Router, conv *assistant.Conversation, message string) error {
	result, err := router.Handle(cmd.Context(), conv, message)
	if err != nil {
		return fmt.Errorf("assistant request failed: %w", err)
	}

	fmt.Printf("%s %s\n", color.GreenString("assistant>"), result.Reply)
	if result.ActionTaken != assistant.ActionNone {
		fmt.Printf("%s %s\n", color.YellowString("action:"), result.ActionTaken)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(assistantCmd)
}
