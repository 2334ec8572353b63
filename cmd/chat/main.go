package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ai-docchat-be/internal/bootstrap"
	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/dto"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

var (
	searchMode = flag.String("mode", "hybrid", "Search mode: hybrid, sparse or lexical")
	maxResults = flag.Int("max-results", 5, "Number of passages fed to the model")
	noRerank   = flag.Bool("no-rerank", false, "Disable re-ranking of retrieved passages")
)

func main() {
	flag.Parse()

	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nShutting down...")
		cancel()
		os.Exit(0)
	}()

	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)
	sessionID := uuid.NewString()

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Println(boldGreen("📄 Document Chat"))
	fmt.Printf("Model: %s, search mode: %s, session: %s\n", boldCyan(cfg.Ai.LLMModel), *searchMode, dim(sessionID))
	fmt.Println("Type your question and press Enter. Type 'clear' to reset the session, 'exit' or Ctrl+C to quit.")
	fmt.Println()

	enableReranking := !*noRerank
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "exit", "quit":
			return
		case "clear":
			container.QueryService.ClearSession(sessionID)
			sessionID = uuid.NewString()
			fmt.Printf("Session reset: %s\n\n", dim(sessionID))
			continue
		case "":
			continue
		}

		res := container.QueryService.ProcessQuery(ctx, &dto.ProcessQueryRequest{
			Query:           input,
			SessionID:       sessionID,
			SearchMode:      *searchMode,
			MaxResults:      *maxResults,
			EnableReranking: &enableReranking,
		})

		fmt.Print(boldCyan("Assistant: "))
		fmt.Println(res.Answer)
		if len(res.Sources) > 0 {
			fmt.Println(dim(fmt.Sprintf("(%d sources, re-ranked: %v, cached: %v)",
				len(res.Sources), res.Reranked, res.Cached)))
		}
		fmt.Println()
	}
}
