package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func shellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session that keeps store changes until exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			runShell(a)
			return nil
		},
	}
}

func runShell(a *app) {
	a.inShell = true
	defer func() { a.inShell = false }()

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to the Travel Portal!")
	fmt.Println("Type any portal command without the leading \"portal\", e.g.:")
	fmt.Println("  login admin@travel.com -p admin123")
	fmt.Println("  packages | book 1 2025-03-01 2025-03-08 | bookings")
	fmt.Println("  help, exit")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return
		}

		args, err := splitArgs(line)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		// A fresh tree per line so flag values never leak between commands.
		root := newRootCmd(a)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

// splitArgs splits a shell line on spaces, keeping double-quoted runs together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		pending bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			pending = true
		case r == ' ' && !inQuote:
			if pending {
				args = append(args, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if pending {
		args = append(args, cur.String())
	}
	return args, nil
}
