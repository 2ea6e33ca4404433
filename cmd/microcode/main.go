package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"

	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/compiler"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/tac"
)

func readSource(filename string) (string, error) {
	if filename == "-" {
		code, err := io.ReadAll(os.Stdin)
		return string(code), err
	}

	code, err := os.ReadFile(filename)
	return string(code), err
}

func compileAndReport(source string, verbose bool) bool {
	result := compiler.Compile(source, compiler.Options{KeepArtifacts: verbose})

	if verbose && result.Artifacts != nil {
		dumpArtifacts(result.Artifacts)
	}

	for _, line := range result.Output {
		fmt.Println(line)
	}

	for _, d := range result.Diagnostics {
		if d.Pos != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %d:%d: %s\n", d.Phase, d.Kind, d.Pos.Line, d.Pos.Column, d.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", d.Phase, d.Kind, d.Message)
		}
	}

	return result.Success
}

func dumpArtifacts(a *compiler.Artifacts) {
	fmt.Println("== tokens ==")
	for _, t := range a.Tokens {
		fmt.Printf("  %s %q %d:%d\n", t.Type, t.Lexeme, t.Pos.Line, t.Pos.Column)
	}

	fmt.Println("== ast ==")
	repr.Println(a.Program)

	fmt.Println("== symbols ==")
	for _, s := range a.Symbols.Symbols() {
		fmt.Printf("  %s: %s (initialized=%t)\n", s.Name, s.Type, s.Initialized)
	}

	fmt.Println("== tac ==")
	fmt.Print(tac.Dump(a.TAC))

	fmt.Printf("== optimized tac (%d -> %d instructions) ==\n", len(a.TAC), len(a.OptimizedTAC))
	fmt.Print(tac.Dump(a.OptimizedTAC))
}

func run(filename string, verbose bool) error {
	source, err := readSource(filename)
	if err != nil {
		return err
	}

	if !compileAndReport(source, verbose) {
		return cli.Exit("", 1)
	}
	return nil
}

// repl buffers lines until a lone `end`, compiles the buffer, and starts
// over. EOF compiles whatever is buffered and exits.
func repl(verbose bool) error {
	fmt.Println("microcode repl - finish a program with `end` on its own line")

	scanner := bufio.NewScanner(os.Stdin)
	var lines []string

	flush := func() {
		if len(lines) == 0 {
			return
		}
		compileAndReport(strings.Join(lines, "\n"), verbose)
		lines = lines[:0]
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), "end") {
			flush()
			continue
		}
		lines = append(lines, line)
	}

	flush()
	return scanner.Err()
}

// watch recompiles the file whenever it changes. The watch is on the
// directory since most editors replace the file on save.
func watch(filename string, verbose bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	_ = run(filename, verbose)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Fprintf(os.Stderr, "-- %s changed, recompiling\n", filename)
			if source, err := readSource(filename); err == nil {
				compileAndReport(source, verbose)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "watch error:", err)
		}
	}
}

func sourceArgument(c *cli.Context) (string, error) {
	if c.Args().Len() > 1 {
		return "", errors.New("too many arguments, expected a single source file")
	}

	filename := c.Args().First()
	if filename == "" {
		return "", errors.New("source file not provided")
	}
	return filename, nil
}

func main() {
	verboseFlag := &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Show each phase's intermediate output (tokens, AST, symbols, TAC).",
	}

	app := &cli.App{
		Name:  "microcode",
		Usage: "Compile and run MicroCode programs.",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Compiles and runs the provided source file (`-` reads stdin).",
				Flags: []cli.Flag{verboseFlag},
				Action: func(c *cli.Context) error {
					filename, err := sourceArgument(c)
					if err != nil {
						return err
					}
					return run(filename, c.Bool("verbose"))
				},
			},
			{
				Name:  "repl",
				Usage: "Reads programs from stdin interactively, compiling at each `end`.",
				Flags: []cli.Flag{verboseFlag},
				Action: func(c *cli.Context) error {
					return repl(c.Bool("verbose"))
				},
			},
			{
				Name:  "watch",
				Usage: "Recompiles and reruns the source file whenever it changes.",
				Flags: []cli.Flag{verboseFlag},
				Action: func(c *cli.Context) error {
					filename, err := sourceArgument(c)
					if err != nil {
						return err
					}
					return watch(filename, c.Bool("verbose"))
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
