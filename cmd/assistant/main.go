package main

import (
	"bufio"
	"clima/internal/app"
	"clima/internal/config"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

const (
	prompt      = "Digite sua pergunta sobre o clima ou 'sair' para encerrar: "
	exitCommand = "sair"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to the config file")
	mode := flag.String("mode", "", "answer mode: rules or llm (overrides the config file)")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	a, err := app.New(ctx, cfg, *mode)
	if err != nil {
		log.Fatalf("Failed to start assistant: %v", err)
	}
	defer a.Close()

	ask := func(question string) (string, error) {
		entry, err := a.Service.Ask(ctx, question, "")
		return entry.Answer, err
	}

	if err := run(os.Stdin, os.Stdout, ask); err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
}

// run reads one question per line until "sair" or end of input. Errors
// while answering are printed and the loop goes on.
func run(in io.Reader, out io.Writer, ask func(string) (string, error)) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(question, exitCommand) {
			return nil
		}

		answer, err := ask(question)
		if err != nil {
			fmt.Fprintf(out, "Erro: %v\n", err)
			continue
		}
		fmt.Fprintln(out, answer)
	}
}
