package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"ia-papeleria/internal/chatbot"

	"github.com/spf13/cobra"
)

var (
	chatSender string
	showIntent bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to PapelBot from the terminal",
	Long: `Send one message and print the reply, or start an interactive session
when no message is given. Sales recorded here change the real stock.`,
	Example: `  papelbot chat "¿Tienen cuadernos?"
  papelbot chat --sender caja-1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if len(args) > 0 {
			return say(cmd.Context(), a.Router, out, strings.Join(args, " "))
		}
		return converse(cmd.Context(), a.Router, cmd.InOrStdin(), out)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatSender, "sender", "terminal", "Sender id used for the transcript")
	chatCmd.Flags().BoolVar(&showIntent, "intent", false, "Print the matched intent before each reply")
}

func converse(ctx context.Context, router *chatbot.Router, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "💬 PapelBot. Escribe 'salir' para terminar.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "salir" || line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}
		if err := say(ctx, router, out, line); err != nil {
			return err
		}
	}
}

func say(ctx context.Context, router *chatbot.Router, out io.Writer, message string) error {
	res, err := router.Route(ctx, chatbot.Inbound{Message: message, Sender: chatSender})
	if showIntent {
		fmt.Fprintf(out, "[%s]\n", res.Intent)
	}
	fmt.Fprintln(out, res.Reply)
	return err
}
