package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/refinline"
	"github.com/erraggy/refinline/cmd/refinline/commands"
	"github.com/erraggy/refinline/internal/mcpserver"
)

// validCommands lists all recognized top-level commands for typo suggestions.
var validCommands = []string{"resolve", "locate", "render", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("refinline v%s\n", refinline.Version())
		fmt.Printf("commit: %s\n", refinline.Commit())
		fmt.Printf("built: %s\n", refinline.BuildTime())
		fmt.Printf("go: %s\n", refinline.GoVersion())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "resolve":
		err = commands.HandleResolve(ctx, args)
	case "locate":
		err = commands.HandleLocate(args)
	case "render":
		err = commands.HandleRender(ctx, args)
	case "mcp":
		err = mcpserver.Run(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		stop()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// suggestCommand returns the closest valid command within edit distance 2,
// or "" if nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, cmd := range validCommands {
		if d := editDistance(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	usage := `refinline - Inline $ref references across JSON, YAML, TOML, GraphQL and XML documents

Usage:
  refinline <command> [options]

Commands:
  resolve     Inline every $ref and print the self-contained document
  locate      Show where a $ref points without loading anything
  render      Resolve a document and execute a Go template against it
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  refinline resolve api.yaml
  refinline resolve -format yaml -o resolved.yaml api.yaml
  refinline locate -base specs/api.yaml common.yaml#/Pet
  refinline render -t models.tmpl -gofmt -o models.go schemas.yaml

Run 'refinline <command> --help' for more information on a command.`

	fmt.Println(usage)
}
