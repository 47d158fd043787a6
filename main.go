package main

import (
	"fmt"
	"os"
	"strings"

	"yatube/service"
)

// CliVersion is reported by the version command.
const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args. Everything except version goes to the
// service commands.
func RealMain() {
	if len(os.Args) < 2 {
		service.PrintHelp()
		exit(1)
		return
	}

	switch cmd := strings.ToLower(os.Args[1]); cmd {
	case "version":
		fmt.Printf("yatube version %s\n", CliVersion)
	default:
		args := append([]string{cmd}, os.Args[2:]...)
		if code := service.HandleCommand(args); code != 0 {
			exit(code)
		}
	}
}
