package service

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"yatube/app/config"
	"yatube/app/repositories"
)

// loadConfig is a variable so tests can point commands at a temporary
// database.
var loadConfig = func() (*config.Config, error) {
	return config.Load()
}

// confirm asks a yes/no question on stdout and reads the answer from stdin.
func confirm(question string) bool {
	fmt.Print(question + " [y/N] ")
	response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}

func dbExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// openStore opens the on-disk store, refusing to create one implicitly.
func openStore(cfg *config.Config) (*repositories.Store, error) {
	if !dbExists(cfg.DBPath) {
		return nil, fmt.Errorf("no database at %s, run 'yatube init' first", cfg.DBPath)
	}
	return repositories.NewStore(cfg.DBPath)
}

// hasFlag removes flag from args and reports whether it was present.
func hasFlag(args []string, flag string) ([]string, bool) {
	rest := make([]string, 0, len(args))
	found := false
	for _, a := range args {
		if a == flag {
			found = true
			continue
		}
		rest = append(rest, a)
	}
	return rest, found
}
