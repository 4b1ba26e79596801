// Command aspic is the CLI entry point for the Aspic scripting language:
// an interactive prompt, a file interpreter, and a one-shot `-c` mode,
// per spec.md §6's external-interface contract.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"runtime/debug"
	"strings"

	"aspic/internal/chunk"
	"aspic/internal/replio"
	"aspic/internal/value"
	"aspic/internal/vm"
)

const versionString = "0.1.0"

func main() {
	showVersion := flag.Bool("v", false, "Show version information")
	showDisasm := flag.Bool("disassemble", false, "Disassemble compiled bytecode before running it")
	source := flag.String("c", "", "Interpret the given source string")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [path]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(versionBanner())
		os.Exit(0)
	}

	machine := vm.New()

	if *source != "" {
		os.Exit(statusCode(runSource(machine, *source, *showDisasm)))
	}

	args := flag.Args()
	if len(args) == 0 {
		repl(machine)
		return
	}

	content, err := ioutil.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "aspic: cannot open %s (%s)\n", args[0], err)
		os.Exit(1)
	}

	os.Exit(statusCode(runSource(machine, string(content), *showDisasm)))
}

func versionBanner() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fmt.Sprintf("Aspic %s", versionString)
	}
	return fmt.Sprintf("Aspic %s (%s)", versionString, info.GoVersion)
}

func statusCode(status vm.Status) int {
	if status != vm.Ok {
		return 1
	}
	return 0
}

// runSource compiles and runs source against machine, optionally
// disassembling the compiled chunk (and every nested function chunk) to
// stdout first.
func runSource(machine *vm.VM, source string, disasm bool) vm.Status {
	fn, ok := machine.Compile(source)
	if !ok {
		return vm.CompileError
	}
	if disasm {
		fn.Chunk.(*chunk.Chunk).DisassembleAll("main")
	}
	return machine.Run(fn)
}

// repl runs Aspic's interactive prompt: line editing/history via
// internal/replio, persistent globals and string interning across
// lines (machine is reused for the whole session), and the three
// special line commands spec.md §6 names (exit, strings, globals).
func repl(machine *vm.VM) {
	fmt.Println(versionBanner())
	fmt.Println("  * exit: exit current session")
	fmt.Println("  * strings: print list of interned strings")
	fmt.Println("  * globals: print list of global identifiers")

	session, err := replio.New(">> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "aspic: cannot start REPL: %s\n", err)
		os.Exit(1)
	}
	defer session.Close()

	for {
		line, err := session.ReadLine()
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "aspic: %s\n", err)
			return
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case "exit":
			return
		case "strings":
			machine.DumpStrings(os.Stdout)
			continue
		case "globals":
			machine.DumpGlobals(os.Stdout)
			continue
		}

		if machine.Interpret(line) == vm.Ok {
			if last := machine.LastValue(); last.Type != value.Null {
				fmt.Println(last.Repr())
			}
		}
	}
}
