package aoc

import (
	"fmt"
	"strconv"
	"strings"
)

type cubeSet struct {
	red   int
	green int
	blue  int
}

type cubeGame struct {
	id     int
	rounds []cubeSet
}

func parseRound(roundStr string) (cubeSet, error) {
	var round cubeSet
	for _, colorStr := range strings.Split(roundStr, ",") {
		numberStr, color, found := strings.Cut(strings.TrimSpace(colorStr), " ")
		if !found {
			return round, fmt.Errorf("malformed cube count %q", colorStr)
		}
		number, err := strconv.Atoi(strings.TrimSpace(numberStr))
		if err != nil {
			return round, err
		}
		switch color {
		case "red":
			round.red = number
		case "green":
			round.green = number
		case "blue":
			round.blue = number
		default:
			return round, fmt.Errorf("unrecognized color %q", color)
		}
	}
	return round, nil
}

func parseGame(line string) (cubeGame, error) {
	gameStr, roundsStr, found := strings.Cut(line, ":")
	if !found {
		return cubeGame{}, fmt.Errorf("malformed game line %q", line)
	}
	id, err := strconv.Atoi(strings.TrimPrefix(gameStr, "Game "))
	if err != nil {
		return cubeGame{}, err
	}

	game := cubeGame{id: id}
	for _, roundStr := range strings.Split(roundsStr, ";") {
		round, err := parseRound(roundStr)
		if err != nil {
			return cubeGame{}, err
		}
		game.rounds = append(game.rounds, round)
	}
	return game, nil
}

func parseGames(contents string) ([]cubeGame, error) {
	var games []cubeGame
	for _, line := range strings.Split(contents, "\n") {
		if line == "" {
			continue
		}
		game, err := parseGame(line)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

// Day2A sums the ids of games possible with a bag of 12 red, 13 green,
// and 14 blue cubes.
func Day2A(contents string) (int, error) {
	games, err := parseGames(contents)
	if err != nil {
		return 0, err
	}

	bag := cubeSet{red: 12, green: 13, blue: 14}
	total := 0
	for _, game := range games {
		possible := true
		for _, round := range game.rounds {
			if round.red > bag.red || round.green > bag.green || round.blue > bag.blue {
				possible = false
				break
			}
		}
		if possible {
			total += game.id
		}
	}
	return total, nil
}

func cubePower(game cubeGame) int {
	var maxSet cubeSet
	for _, round := range game.rounds {
		maxSet.red = max(maxSet.red, round.red)
		maxSet.green = max(maxSet.green, round.green)
		maxSet.blue = max(maxSet.blue, round.blue)
	}
	return maxSet.red * maxSet.green * maxSet.blue
}

// Day2B sums the power of the minimal cube set for each game.
func Day2B(contents string) (int, error) {
	games, err := parseGames(contents)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, game := range games {
		total += cubePower(game)
	}
	return total, nil
}
