package aoc

import (
	"strconv"
	"strings"
)

type gridPoint struct {
	row    int
	column int
}

type partNumber struct {
	end    gridPoint // position of the last digit
	length int
	value  int
}

func isSchematicSymbol(c rune) bool {
	return !(c == '.' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'))
}

func parseSchematic(contents string) (map[gridPoint]bool, []partNumber) {
	symbols := make(map[gridPoint]bool)
	var parts []partNumber

	for row, line := range strings.Split(contents, "\n") {
		current := ""
		flush := func(endColumn int) {
			if current == "" {
				return
			}
			value, _ := strconv.Atoi(current)
			parts = append(parts, partNumber{
				end:    gridPoint{row: row, column: endColumn},
				length: len(current),
				value:  value,
			})
			current = ""
		}

		for column, c := range line {
			if c >= '0' && c <= '9' {
				current += string(c)
				continue
			}
			flush(column - 1)
			if isSchematicSymbol(c) {
				symbols[gridPoint{row: row, column: column}] = true
			}
		}
		flush(len(line) - 1)
	}

	return symbols, parts
}

func touchesSymbol(part partNumber, symbols map[gridPoint]bool) bool {
	columnStart := part.end.column - part.length
	columnEnd := part.end.column + 1

	for column := columnStart; column <= columnEnd; column++ {
		if symbols[gridPoint{row: part.end.row - 1, column: column}] ||
			symbols[gridPoint{row: part.end.row + 1, column: column}] {
			return true
		}
	}
	return symbols[gridPoint{row: part.end.row, column: columnStart}] ||
		symbols[gridPoint{row: part.end.row, column: columnEnd}]
}

// Day3A sums the part numbers adjacent to a symbol in the engine
// schematic.
func Day3A(contents string) int {
	symbols, parts := parseSchematic(contents)
	total := 0
	for _, part := range parts {
		if touchesSymbol(part, symbols) {
			total += part.value
		}
	}
	return total
}
