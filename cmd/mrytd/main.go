package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	mrytd "github.com/iov-one/mryt/cmd/mrytd/app"
	"github.com/iov-one/mryt/commands"
	"github.com/iov-one/mryt/commands/server"
	"github.com/iov-one/weave"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".mryt")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("mrytd")
	fmt.Println("          Yield bearing staking vault node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server and the HTTP API")
	fmt.Println("validate  Check that genesis files can be loaded")
	fmt.Println("getblock  Extract a block from blockchain.db")
	fmt.Println("retry     Run last block again to ensure it produces same result")
	fmt.Println("testgen   Write example encodings for client tests")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.mryt")

Settings are read from <home>/config/mrytd.toml and MRYTD_* environment
variables: abci_bind, http_addr, db_dir, debug, log_file, log_level,
log_max_size.`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	conf, err := loadConfig(*varHome)
	if err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}
	logger, closer, err := newLogger(conf)
	if err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(mrytd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = startCmd(conf, logger, rest)
	case "validate":
		err = server.ValidateGenesis(mrytd.Initializers(), rest)
	case "getblock":
		err = server.GetBlockCmd(os.Stdout, rest)
	case "retry":
		err = server.RetryCmd(mrytd.InlineApp, logger, os.Stdout, rest)
	case "testgen":
		err = commands.TestGenCmd(mrytd.Examples(), rest)
	case "version":
		fmt.Println(weave.Version)
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		closer.Close()
		os.Exit(1)
	}
}
