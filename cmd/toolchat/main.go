package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/btang/toolchat/internal/config"
	"github.com/btang/toolchat/internal/entities"
	"github.com/btang/toolchat/internal/provider"
	"github.com/btang/toolchat/internal/runner"
	"github.com/btang/toolchat/internal/windowing"
	"github.com/btang/toolchat/memory"
	"github.com/btang/toolchat/tools"
)

func main() {
	// Basic env check (SDK also reads API key)
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		fmt.Println("Missing ANTHROPIC_API_KEY; export it before running.")
		os.Exit(1)
	}

	cfgPath := os.Getenv("TC_CONFIG")
	if cfgPath == "" {
		cfgPath = "toolchat.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	model := provider.DefaultModel
	if cfg.Model != "" {
		model = anthropic.Model(cfg.Model)
	}

	var counter windowing.TokenCounter = windowing.HeuristicCounter{}
	if cfg.Counter == "tiktoken" {
		counter = windowing.NewTiktokenCounter()
	}

	// Seed the conversation from the persisted text transcript if present.
	conv := memory.NewConversation()
	entries, err := memory.LoadTranscript(cfg.TranscriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load transcript: %v\n", err)
	}
	conv.RestoreTranscript(entries)

	store := entities.NewStore()
	r := runner.New(provider.NewAnthropicClient(), tools.Registry(store, cfg.CEOFile), conv, store, counter, runner.Config{
		SystemPrompt:       cfg.SystemPrompt,
		TokenBudget:        cfg.TokenBudget,
		MaxOutputTokens:    int64(cfg.MaxOutputTokens),
		MaxIterations:      cfg.MaxIterations,
		RepeatCap:          cfg.RepeatCap,
		TurnTimeout:        cfg.TurnTimeout,
		OutputTokenCeiling: int64(cfg.OutputTokenCeiling),
	})

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Chat with Claude (Ctrl-C to quit, /entities to inspect tracked people)")

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("[94mYou[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		if user == "" {
			continue
		}
		if user == "/entities" {
			if ec := store.RenderContext(""); ec != "" {
				fmt.Println(ec)
			} else {
				fmt.Println("(no entities tracked yet)")
			}
			continue
		}

		if _, err := r.RunTurn(ctx, model, user); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		// Persist the minimal text-only transcript; tool blocks stay transient.
		if err := memory.SaveTranscript(cfg.TranscriptPath, conv.Transcript()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save transcript: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}
