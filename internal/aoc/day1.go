// Package aoc holds Advent of Code 2023 solutions. Each problem is a
// pure function from puzzle input to answer.
package aoc

import "strings"

var spelledDigits = []struct {
	word  string
	value int
}{
	{"one", 1},
	{"two", 2},
	{"three", 3},
	{"four", 4},
	{"five", 5},
	{"six", 6},
	{"seven", 7},
	{"eight", 8},
	{"nine", 9},
}

func firstDigit(line string, reversed bool) (int, bool) {
	for i := 0; i < len(line); i++ {
		c := line[i]
		if reversed {
			c = line[len(line)-1-i]
		}
		if c >= '0' && c <= '9' {
			return int(c - '0'), true
		}
	}
	return 0, false
}

func calibrationValue(line string) int {
	first, ok := firstDigit(line, false)
	if !ok {
		return 0
	}
	last, _ := firstDigit(line, true)
	return first*10 + last
}

// Day1A sums the calibration values formed by the first and last digit
// of each line.
func Day1A(contents string) int {
	total := 0
	for _, line := range strings.Split(contents, "\n") {
		total += calibrationValue(line)
	}
	return total
}

func firstDigitOrSpelled(line string, reversed bool) (int, bool) {
	for i := 0; i < len(line); i++ {
		pos := i
		if reversed {
			pos = len(line) - 1 - i
		}
		c := line[pos]
		if c >= '0' && c <= '9' {
			return int(c - '0'), true
		}
		for _, spelled := range spelledDigits {
			var seen bool
			if reversed {
				seen = strings.HasPrefix(line[pos:], spelled.word)
			} else {
				seen = strings.HasSuffix(line[:i+1], spelled.word)
			}
			if seen {
				return spelled.value, true
			}
		}
	}
	return 0, false
}

func calibrationValueWithSpelled(line string) int {
	first, ok := firstDigitOrSpelled(line, false)
	if !ok {
		return 0
	}
	last, _ := firstDigitOrSpelled(line, true)
	return first*10 + last
}

// Day1B is Day1A with spelled-out digits ("one" through "nine")
// counting as digits.
func Day1B(contents string) int {
	total := 0
	for _, line := range strings.Split(contents, "\n") {
		total += calibrationValueWithSpelled(line)
	}
	return total
}
