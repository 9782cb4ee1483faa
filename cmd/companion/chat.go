package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/career-companion/backend/internal/model/chat"
	chatService "github.com/zhouzirui/career-companion/backend/internal/service/chat"
)

var replyDelay time.Duration

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with the career companion.

Type a question and press enter. While the starter prompts are shown, enter
their number to send one. Type /quit to leave; the transcript is discarded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		conv := chatService.NewConversation(uuid.NewString(), catalog, chatService.WithReplyDelay(replyDelay))
		defer conv.Close()

		return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), conv)
	},
}

func init() {
	chatCmd.Flags().DurationVar(&replyDelay, "delay", chatService.DefaultReplyDelay, "Simulated thinking time before the assistant replies")
	rootCmd.AddCommand(chatCmd)
}

func runChat(ctx context.Context, in io.Reader, out io.Writer, conv *chatService.Conversation) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintln(out, headerStyle.Render("Career Chat"))
	for _, msg := range conv.Transcript() {
		renderMessage(out, msg)
	}

	scanner := bufio.NewScanner(in)
	for {
		prompts := conv.SuggestedPrompts()
		if len(prompts) > 0 {
			fmt.Fprintln(out, hintStyle.Render("Try asking:"))
			printPrompts(out, prompts)
		}
		fmt.Fprint(out, userStyle.Render("> "))

		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" || line == "/exit" {
			return nil
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(prompts) {
			line = prompts[n-1]
		}

		turn, err := conv.Submit(ctx, line)
		if errors.Is(err, chatService.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return err
		}

		renderMessage(out, turn.User)
		fmt.Fprintln(out, hintStyle.Render("  typing..."))

		reply, err := turn.Wait(ctx)
		if err != nil {
			return err
		}
		renderMessage(out, reply)
	}
}

func renderMessage(w io.Writer, msg chat.Message) {
	label := assistantStyle.Render("Companion")
	if msg.Sender == chat.SenderUser {
		label = userStyle.Render("You")
	}
	fmt.Fprintf(w, "%s %s\n  %s\n\n", label, hintStyle.Render(msg.CreatedAt.Local().Format("15:04")), msg.Text)
}
