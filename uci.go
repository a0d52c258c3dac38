package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"minimax-chess/board"
	"minimax-chess/engine"
)

func main() {
	depth := flag.Int("depth", engine.DefaultConfig().MaxDepth, "default search depth for \"go\" without a depth")
	workers := flag.Int("workers", engine.DefaultConfig().Workers, "parallel root workers")
	level := flag.String("log-level", "warn", "zerolog level for stderr logging")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	// stdout belongs to the GUI.
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	cfg := engine.DefaultConfig()
	cfg.MaxDepth = *depth
	cfg.Workers = *workers
	cfg.Logger = log.Logger
	uciLoop(os.Stdin, os.Stdout, cfg)
}

func uciLoop(in io.Reader, out io.Writer, cfg engine.Config) {
	scanner := bufio.NewScanner(in)
	b := board.New() // the game board
	eng := engine.New(cfg)

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Fprintln(out, "id name MinimaxChess 1.0")
			fmt.Fprintln(out, "id author MinimaxChess developers")
			fmt.Fprintf(out, "option name Depth type spin default %d min 1 max 8\n", cfg.MaxDepth)
			fmt.Fprintf(out, "option name Workers type spin default %d min 1 max 64\n", cfg.Workers)
			fmt.Fprintln(out, "uciok")
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "ucinewgame":
			b = board.New()
			eng = engine.New(cfg)
		case "quit":
			return
		case "d":
			fmt.Fprint(out, b.String())
			fmt.Fprintln(out, "Fen:", b.ToFEN())
			fmt.Fprintln(out, "Status:", b.Status())
		case "setoption":
			name, value, ok := parseSetOption(tokens[1:])
			if !ok {
				fmt.Fprintln(out, "info string Malformed setoption command")
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				fmt.Fprintln(out, "info string Invalid value for option", name)
				continue
			}
			switch strings.ToLower(name) {
			case "depth":
				cfg.MaxDepth = n
			case "workers":
				cfg.Workers = n
			default:
				fmt.Fprintln(out, "info string Unknown option", name)
				continue
			}
			eng = engine.New(cfg)
		case "position":
			next, err := parsePosition(tokens[1:])
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			b = next
		case "go":
			depth := cfg.MaxDepth
			for i := 1; i < len(tokens); i++ {
				switch strings.ToLower(tokens[i]) {
				case "depth":
					if i+1 >= len(tokens) {
						fmt.Fprintln(out, "info string Malformed go command option depth")
						continue
					}
					i++
					d, err := strconv.Atoi(tokens[i])
					if err != nil || d < 1 {
						fmt.Fprintln(out, "info string Malformed go command option; could not convert depth")
						continue
					}
					depth = d
				case "infinite":
					continue
				default:
					fmt.Fprintln(out, "info string Unknown go subcommand", tokens[i])
				}
			}
			searcher := eng
			if depth != cfg.MaxDepth {
				goCfg := cfg
				goCfg.MaxDepth = depth
				searcher = engine.New(goCfg)
			}
			res, err := searcher.Search(b)
			if err != nil {
				log.Error().Err(err).Msg("search failed")
				fmt.Fprintln(out, "bestmove 0000")
				continue
			}
			fmt.Fprintf(out, "info depth %d score %s nodes %d\n", depth, engine.ScoreString(res.Score), res.Nodes)
			fmt.Fprintln(out, "bestmove", res.Move)
		default:
			fmt.Fprintln(out, "info string Unknown command:", line)
		}
	}
}

// parseSetOption splits "name <id...> value <x>".
func parseSetOption(tokens []string) (name, value string, ok bool) {
	if len(tokens) < 4 || strings.ToLower(tokens[0]) != "name" {
		return "", "", false
	}
	for i := 1; i < len(tokens); i++ {
		if strings.ToLower(tokens[i]) == "value" && i > 1 && i+1 < len(tokens) {
			return strings.Join(tokens[1:i], " "), tokens[i+1], true
		}
	}
	return "", "", false
}

// parsePosition handles "startpos [moves ...]" and "fen <fen> [moves ...]".
func parsePosition(tokens []string) (*board.Board, error) {
	if len(tokens) == 0 {
		return nil, errors.New("malformed position command")
	}
	var b *board.Board
	rest := tokens[1:]
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		b = board.New()
	case "fen":
		end := len(rest)
		for i, tok := range rest {
			if strings.ToLower(tok) == "moves" {
				end = i
				break
			}
		}
		var err error
		b, err = board.ParseFEN(strings.Join(rest[:end], " "))
		if err != nil {
			return nil, err
		}
		rest = rest[end:]
	default:
		return nil, fmt.Errorf("invalid position subcommand %q", tokens[0])
	}

	if len(rest) == 0 {
		return b, nil
	}
	if strings.ToLower(rest[0]) != "moves" {
		return nil, errors.New("malformed position command")
	}
	for _, text := range rest[1:] {
		m, err := b.ParseMove(text)
		if err != nil {
			return nil, fmt.Errorf("move %s not found for position %s: %w", text, b.ToFEN(), err)
		}
		b.ApplyMoveAndUpdate(m)
	}
	return b, nil
}
