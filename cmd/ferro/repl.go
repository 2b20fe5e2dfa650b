package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ferrolang/ferro/pkg/ferro"
)

func printBanner() {
	fmt.Println("ferro REPL (Ctrl+D or :quit to exit)")
	fmt.Println("Type :help for commands")
	fmt.Println()
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  :help          show this help")
	fmt.Println("  :history [n]   show the last n history entries (default 20)")
	fmt.Println("  :save <name>   save the last input as a named snippet")
	fmt.Println("  :load <name>   load and evaluate a named snippet")
	fmt.Println("  :quit          exit")
	fmt.Println()
	fmt.Println("End a line with \\ to continue on the next line.")
}

func runREPL(runtime *ferro.Runtime) {
	printBanner()

	reader := bufio.NewReader(os.Stdin)
	var multiline strings.Builder
	inMultiline := false
	lastInput := ""

	for {
		if inMultiline {
			fmt.Print("... ")
		} else {
			fmt.Print(">>> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}

		line = strings.TrimRight(line, "\r\n")

		if strings.HasSuffix(line, "\\") {
			multiline.WriteString(strings.TrimSuffix(line, "\\"))
			multiline.WriteString("\n")
			inMultiline = true
			continue
		}

		var input string
		if inMultiline {
			multiline.WriteString(line)
			input = multiline.String()
			multiline.Reset()
			inMultiline = false
		} else {
			input = line
		}

		if strings.TrimSpace(input) == "" {
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(input), ":") {
			if quit := runCommand(runtime, strings.TrimSpace(input), lastInput); quit {
				return
			}
			continue
		}

		if s := runtime.Store(); s != nil {
			s.AppendHistory(input)
		}
		lastInput = input

		result, err := runtime.Eval(input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		if result != "" {
			fmt.Println(result)
		}
	}
}

// runCommand handles a colon command. Returns true if the REPL should
// exit.
func runCommand(runtime *ferro.Runtime, input, lastInput string) bool {
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case ":quit", ":q":
		return true

	case ":help":
		printHelp()

	case ":history":
		s := runtime.Store()
		if s == nil {
			fmt.Println("No history store configured (use -db)")
			return false
		}
		limit := 20
		if len(args) > 0 {
			fmt.Sscanf(args[0], "%d", &limit)
		}
		entries, err := s.History(limit)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		for _, e := range entries {
			fmt.Printf("%4d  %s\n", e.ID, e.Line)
		}

	case ":save":
		s := runtime.Store()
		if s == nil {
			fmt.Println("No store configured (use -db)")
			return false
		}
		if len(args) != 1 {
			fmt.Println("Usage: :save <name>")
			return false
		}
		if lastInput == "" {
			fmt.Println("Nothing to save yet")
			return false
		}
		if err := s.SaveSnippet(args[0], lastInput); err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		fmt.Printf("Saved %s\n", args[0])

	case ":load":
		s := runtime.Store()
		if s == nil {
			fmt.Println("No store configured (use -db)")
			return false
		}
		if len(args) != 1 {
			fmt.Println("Usage: :load <name>")
			return false
		}
		source, ok, err := s.GetSnippet(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		if !ok {
			fmt.Printf("No snippet named %s\n", args[0])
			return false
		}
		result, err := runtime.Eval(source)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		if result != "" {
			fmt.Println(result)
		}

	default:
		fmt.Printf("Unknown command %s (try :help)\n", cmd)
	}
	return false
}
