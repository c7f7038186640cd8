package main

import (
	"fmt"
	"os"

	"github.com/kdeal/misc/internal/aoc"
)

func run(problem, filePath string) (int, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: puzzle input path from argv
	if err != nil {
		return 0, err
	}
	contents := string(data)

	switch problem {
	case "1a":
		return aoc.Day1A(contents), nil
	case "1b":
		return aoc.Day1B(contents), nil
	case "2a":
		return aoc.Day2A(contents)
	case "2b":
		return aoc.Day2B(contents)
	case "3a":
		return aoc.Day3A(contents), nil
	case "4a":
		return aoc.Day4A(contents)
	default:
		return 0, fmt.Errorf("unknown problem %q", problem)
	}
}

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: aoc <problem> <input-file>")
		os.Exit(2)
	}
	result, err := run(os.Args[1], os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(result)
}
