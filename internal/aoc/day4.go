package aoc

import (
	"fmt"
	"strconv"
	"strings"
)

type scratchCard struct {
	id             int
	winningNumbers []int
	cardNumbers    []int
}

func parseNumberList(numbersStr string) ([]int, error) {
	var numbers []int
	for _, field := range strings.Fields(numbersStr) {
		number, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, number)
	}
	return numbers, nil
}

func parseCard(line string) (scratchCard, error) {
	cardStr, numbersStr, found := strings.Cut(line, ":")
	if !found {
		return scratchCard{}, fmt.Errorf("malformed card line %q", line)
	}
	id, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(cardStr, "Card ")))
	if err != nil {
		return scratchCard{}, err
	}

	cardNumbersStr, winningNumbersStr, found := strings.Cut(numbersStr, "|")
	if !found {
		return scratchCard{}, fmt.Errorf("malformed card numbers %q", numbersStr)
	}
	cardNumbers, err := parseNumberList(cardNumbersStr)
	if err != nil {
		return scratchCard{}, err
	}
	winningNumbers, err := parseNumberList(winningNumbersStr)
	if err != nil {
		return scratchCard{}, err
	}
	return scratchCard{id: id, winningNumbers: winningNumbers, cardNumbers: cardNumbers}, nil
}

func cardScore(card scratchCard) int {
	matching := 0
	for _, number := range card.cardNumbers {
		for _, winning := range card.winningNumbers {
			if number == winning {
				matching++
				break
			}
		}
	}
	if matching == 0 {
		return 0
	}
	return 1 << (matching - 1)
}

// Day4A sums the scratch card scores: one point for the first matching
// number, doubled for each further match.
func Day4A(contents string) (int, error) {
	total := 0
	for _, line := range strings.Split(contents, "\n") {
		if line == "" {
			continue
		}
		card, err := parseCard(line)
		if err != nil {
			return 0, err
		}
		total += cardScore(card)
	}
	return total, nil
}
