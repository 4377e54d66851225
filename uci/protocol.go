// Package uci implements the UCI protocol driver: stdin command
// dispatch, position/go/ucinewgame handling, and info-line formatting.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/blackbriarchess/corvid/board"
	"github.com/blackbriarchess/corvid/search"
)

// Engine is the search collaborator the protocol drives.
type Engine interface {
	Prepare()
	Clear()
	Search(ctx context.Context, params search.SearchParams) search.SearchInfo
}

type Protocol struct {
	name, author, version string
	options               []Option
	engine                Engine

	positions []board.Position
	thinking  bool
	output    chan search.SearchInfo
	cancel    context.CancelFunc
}

func New(name, author, version string, engine Engine, options []Option) *Protocol {
	initPos, err := board.NewPositionFromFEN(board.InitialPositionFEN)
	if err != nil {
		panic(err)
	}
	return &Protocol{
		name:      name,
		author:    author,
		version:   version,
		engine:    engine,
		options:   options,
		positions: []board.Position{initPos},
	}
}

func (p *Protocol) Run(logger *log.Logger) {
	commands := make(chan string)
	go func() {
		defer close(commands)
		readCommands(commands)
	}()

	var lastResult search.SearchInfo
	for {
		select {
		case si, ok := <-p.output:
			if ok {
				fmt.Println(searchInfoToUci(si))
				lastResult = si
				continue
			}
			// An empty main line (mate or stalemate at the root) prints
			// the null move, "bestmove 0000".
			fmt.Printf("bestmove %v\n", lastResult.BestMove())
			p.thinking = false
			p.cancel = nil
			p.output = nil
			lastResult = search.SearchInfo{}
		case line, ok := <-commands:
			if !ok {
				return
			}
			if err := p.handle(line); err != nil {
				logger.Println(err)
			}
		}
	}
}

func readCommands(commands chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "quit" {
			return
		}
		if line != "" {
			commands <- line
		}
	}
}

func (p *Protocol) handle(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, fields := fields[0], fields[1:]

	if p.thinking {
		switch name {
		case "stop":
			p.cancel()
			return nil
		case "isready":
			fmt.Println("readyok")
			return nil
		}
		return errors.New("search still running")
	}

	var h func([]string) error
	switch name {
	case "uci":
		h = p.uciCommand
	case "setoption":
		h = p.setOptionCommand
	case "isready":
		h = p.isReadyCommand
	case "position":
		h = p.positionCommand
	case "go":
		h = p.goCommand
	case "ucinewgame":
		h = p.uciNewGameCommand
	case "ponderhit":
		h = p.ponderhitCommand
	}
	if h == nil {
		return errors.New("command not found: " + name)
	}
	return h(fields)
}

func (p *Protocol) uciCommand([]string) error {
	fmt.Printf("id name %s %s\n", p.name, p.version)
	fmt.Printf("id author %s\n", p.author)
	for _, opt := range p.options {
		fmt.Println(opt.UciString())
	}
	fmt.Println("uciok")
	return nil
}

func (p *Protocol) setOptionCommand(fields []string) error {
	if len(fields) < 4 {
		return errors.New("invalid setoption arguments")
	}
	name, value := fields[1], fields[3]
	for _, opt := range p.options {
		if strings.EqualFold(opt.UciName(), name) {
			return opt.Set(value)
		}
	}
	return errors.New("unhandled option: " + name)
}

func (p *Protocol) isReadyCommand([]string) error {
	p.engine.Prepare()
	fmt.Println("readyok")
	return nil
}

func (p *Protocol) positionCommand(args []string) error {
	if len(args) == 0 {
		return errors.New("missing position arguments")
	}
	var fen string
	movesIndex := findIndex(args, "moves")
	switch args[0] {
	case "startpos":
		fen = board.InitialPositionFEN
	case "fen":
		if movesIndex == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIndex], " ")
		}
	default:
		return errors.New("unknown position command")
	}

	pos, err := board.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}
	positions := []board.Position{pos}
	if movesIndex >= 0 && movesIndex+1 < len(args) {
		for _, lan := range args[movesIndex+1:] {
			next, ok := positions[len(positions)-1].MakeMoveUCI(lan)
			if !ok {
				return errors.New("illegal move in position command: " + lan)
			}
			positions = append(positions, next)
		}
	}
	p.positions = positions
	return nil
}

func (p *Protocol) goCommand(fields []string) error {
	limits := parseLimits(fields)
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.thinking = true
	p.output = make(chan search.SearchInfo, 3)

	positions := append([]board.Position(nil), p.positions...)
	go func() {
		result := p.engine.Search(ctx, search.SearchParams{
			Positions: positions,
			Limits:    limits,
			Progress: func(si search.SearchInfo) {
				select {
				case p.output <- si:
				default:
				}
			},
		})
		p.output <- result
		close(p.output)
	}()
	return nil
}

func (p *Protocol) uciNewGameCommand([]string) error {
	p.engine.Clear()
	return nil
}

func (p *Protocol) ponderhitCommand([]string) error {
	return errors.New("ponder not implemented")
}

func searchInfoToUci(si search.SearchInfo) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v seldepth %v", si.Depth, si.SelDepth)
	if si.Score.Mate != 0 {
		fmt.Fprintf(sb, " score mate %v", si.Score.Mate)
	} else {
		fmt.Fprintf(sb, " score cp %v", si.Score.Centipawns)
	}
	timeMs := si.Time.Milliseconds()
	nps := si.Nodes * 1000 / (timeMs + 1)
	fmt.Fprintf(sb, " nodes %v nps %v hashfull %v time %v", si.Nodes, nps, si.HashFull, timeMs)
	if len(si.MainLine) != 0 {
		sb.WriteString(" pv")
		for _, m := range si.MainLine {
			sb.WriteString(" ")
			sb.WriteString(m.String())
		}
	}
	return sb.String()
}

func parseLimits(args []string) search.LimitsType {
	var result search.LimitsType
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "ponder":
			result.Ponder = true
		case "infinite":
			result.Infinite = true
		case "wtime":
			i++
			result.WhiteTime, _ = strconv.Atoi(valueAt(args, i))
		case "btime":
			i++
			result.BlackTime, _ = strconv.Atoi(valueAt(args, i))
		case "winc":
			i++
			result.WhiteIncrement, _ = strconv.Atoi(valueAt(args, i))
		case "binc":
			i++
			result.BlackIncrement, _ = strconv.Atoi(valueAt(args, i))
		case "movestogo":
			i++
			result.MovesToGo, _ = strconv.Atoi(valueAt(args, i))
		case "depth":
			i++
			result.Depth, _ = strconv.Atoi(valueAt(args, i))
		case "nodes":
			i++
			n, _ := strconv.ParseInt(valueAt(args, i), 10, 64)
			result.Nodes = n
		case "mate":
			i++
			result.Mate, _ = strconv.Atoi(valueAt(args, i))
		case "movetime":
			i++
			result.MoveTime, _ = strconv.Atoi(valueAt(args, i))
		}
	}
	return result
}

func valueAt(args []string, i int) string {
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i]
}

func findIndex(args []string, value string) int {
	for i, v := range args {
		if v == value {
			return i
		}
	}
	return -1
}
