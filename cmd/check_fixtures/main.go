// Command check_fixtures loads a fixture file the same way the portal does
// and reports what it would start with, including any references that do
// not resolve.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"travel-portal/portal"
)

func main() {
	strict := flag.Bool("strict", false, "exit non-zero when dangling references are found")
	flag.Parse()

	path := flag.Arg(0)
	source := path
	if source == "" {
		source = "built-in fixtures"
	}
	fmt.Printf("Loading %s...\n", source)

	fx, err := portal.LoadFixtures(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-20s %s\n", "Collection", "Records")
	fmt.Println(strings.Repeat("-", 30))
	for _, c := range fx.Counts() {
		fmt.Printf("%-20s %d\n", c.Collection, c.Count)
	}

	store := portal.NewStore(fx)
	defer store.Close()

	if dupes := duplicateEmails(store.Users()); len(dupes) > 0 {
		fmt.Printf("\nWarning: emails used by more than one user: %s\n", strings.Join(dupes, ", "))
	}

	dangling := store.DanglingReferences()
	if len(dangling) == 0 {
		fmt.Println("\nAll references resolve.")
		return
	}

	fmt.Printf("\nDangling references: %d\n", len(dangling))
	for _, d := range dangling {
		fmt.Printf("  %s\n", d)
	}
	if *strict {
		os.Exit(1)
	}
}

func duplicateEmails(users []portal.User) []string {
	seen := make(map[string]int)
	var dupes []string
	for _, u := range users {
		key := strings.ToLower(u.Email)
		seen[key]++
		if seen[key] == 2 {
			dupes = append(dupes, u.Email)
		}
	}
	return dupes
}
