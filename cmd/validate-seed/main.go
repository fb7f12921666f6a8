package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/book-tracker/seed"
)

/* validate-seed - Standalone CLI tool to validate books.yaml
 * Usage: go run cmd/validate-seed/main.go [books.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	// Get seed file path from args or use default
	seedFile := "books.yaml"
	if len(os.Args) > 1 {
		seedFile = os.Args[1]
	}

	fmt.Printf("Validating seed file: %s\n", seedFile)
	fmt.Println(strings.Repeat("-", 50))

	loader := seed.NewLoader()
	if err := loader.Load(seedFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	entries := loader.List()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d book(s):\n", len(entries))

	for i, e := range entries {
		b, err := e.Preview()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n%d. %s\n", i+1, b.Title)
		fmt.Printf("   Author:       %s\n", b.Author)
		fmt.Printf("   Status:       %s\n", b.Status)
		fmt.Printf("   Format:       %s\n", b.Format)
		fmt.Printf("   Pages:        %d/%d (%d%%)\n", b.PagesRead, b.NumberOfPages, b.ProgressPercent())
		fmt.Printf("   Price:        %.2f\n", b.Price)
		fmt.Printf("   Suggested by: %s\n", b.SuggestedBy)
	}

	fmt.Printf("\n✓ All books are valid!\n")
	os.Exit(0)
}
