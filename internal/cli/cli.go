package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Start  *StartCommand
	Status *StatusCommand
	Search *SearchCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "recall"
	parser.LongDescription = "Personal screen memory: continuous capture, OCR, and semantic search over everything you have seen."

	cmds := &commands{
		Start:  &StartCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Search: &SearchCommand{globals: &globals, version: version},
	}

	parser.AddCommand("start", "Start capturing and serving", "Start the capture loop and the dashboard server, until interrupted.", cmds.Start)
	parser.AddCommand("status", "Show archive statistics", "Show entry counts, date range, top applications, and storage usage.", cmds.Status)
	parser.AddCommand("search", "Search captured entries", "Rank captured entries against a query by embedding similarity.", cmds.Search)

	return parser, &globals, cmds
}

// Run is the main entry point for the recall CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("recall %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
