package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/blackbriarchess/corvid/search"
	"github.com/blackbriarchess/corvid/uci"
)

const (
	name   = "Corvid"
	author = "Corvid contributors"
)

var version = "dev"

func main() {
	var hashMB int
	flag.IntVar(&hashMB, "hash", 64, "transposition table size in megabytes")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)
	logger.Println(name, "version", version, "GOARCH", runtime.GOARCH, "GOOS", runtime.GOOS)

	engine := search.NewEngine(hashMB)

	protocol := uci.New(name, author, version, engine, []uci.Option{
		&uci.IntOption{Name: "Hash", Min: 1, Max: 1 << 16, Value: &hashMB},
	})
	protocol.Run(logger)
}
