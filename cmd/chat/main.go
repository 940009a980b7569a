// Command chat is a terminal client for the /chat endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"portfolio-chat/internal/chatclient"
	"portfolio-chat/internal/config"
	"portfolio-chat/internal/domain"
	"portfolio-chat/internal/portfolio"
)

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	transport, err := chatclient.NewHTTPTransport(cfg.ChatServerURL, nil)
	if err != nil {
		slog.Error("failed to create transport", "err", err)
		os.Exit(1)
	}
	session, err := chatclient.NewSession(transport, chatclient.Greeting(cfg.DeveloperName))
	if err != nil {
		slog.Error("failed to create session", "err", err)
		os.Exit(1)
	}

	// Markdown is only rendered for an interactive terminal.
	var renderer *glamour.TermRenderer
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80)); err == nil {
			renderer = r
		}
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	historyFile := filepath.Join(os.TempDir(), "portfolio-chat_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.OpenFile(historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
		line.Close()
	}()

	fmt.Println(dimStyle.Render("Connected to " + cfg.ChatServerURL + ". Type /portfolio to list projects, /quit to exit."))
	printAssistant(renderer, session.Messages()[0].Content)

	for {
		input, err := line.Prompt(promptStyle.Render("you> "))
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println()
			}
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		switch input {
		case "/quit", "/exit":
			return
		case "/portfolio":
			showPortfolio(renderer, transport)
			continue
		}

		fmt.Println(dimStyle.Render("Thinking..."))
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		err = session.Submit(ctx, input)
		cancel()
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}

		msgs := session.Messages()
		printAssistant(renderer, lastAssistant(msgs))
		if e := session.LastError(); e != "" {
			fmt.Println(errorStyle.Render("Error: " + e))
		}
	}
}

func showPortfolio(renderer *glamour.TermRenderer, transport *chatclient.HTTPTransport) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	items, err := transport.PortfolioItems(ctx)
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}
	md := portfolio.RenderMarkdown(items)
	if renderer != nil {
		if out, err := renderer.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func lastAssistant(msgs []domain.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if !msgs[i].IsUser() {
			return msgs[i].Content
		}
	}
	return ""
}

func printAssistant(renderer *glamour.TermRenderer, text string) {
	fmt.Println(assistantStyle.Render("assistant>"))
	if renderer != nil {
		if out, err := renderer.Render(text); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(text)
}
