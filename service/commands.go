package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"yatube/app/config"
	"yatube/app/repositories"
	"yatube/app/services"

	"github.com/dgraph-io/badger/v4"
)

// HandleCommand runs a yatube subcommand and returns its exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		PrintHelp()
		return 1
	}

	cmd := args[0]
	if cmd == "help" {
		PrintHelp()
		return 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		return 1
	}

	switch cmd {
	case "serve":
		return RunAppServer(cfg, args[1:])
	case "clean":
		_, yes := hasFlag(args[1:], "--yes")
		return clean(cfg, yes)
	case "init":
		return initDb(cfg)
	case "backup":
		target := ""
		if len(args) > 1 {
			target = args[1]
		}
		return backup(cfg, target)
	case "restore":
		rest, yes := hasFlag(args[1:], "--yes")
		if len(rest) < 1 {
			fmt.Println("Error: backup file path required for restore")
			return 1
		}
		return restore(cfg, rest[0], yes)
	case "users":
		return usersCommand(cfg, args[1:])
	case "groups":
		return groupsCommand(cfg, args[1:])
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		PrintHelp()
		return 1
	}
}

// PrintHelp prints the command overview.
func PrintHelp() {
	helpText := `Usage: yatube <command>

Commands:
  serve [--addr <address>]              Run the blog server
  init                                  Initialize a new empty database
  clean [--yes]                         Remove the database
  backup [file]                         Create a backup of the database
  restore [--yes] <file>                Restore database from backup
  users add <username> [first] [last]   Create an author
  groups add <slug> <title> [desc]      Create a community
  groups list                           List communities
  version                               Print the version
  help                                  Display this help message
`
	fmt.Println(helpText)
}

// clean removes the database.
func clean(cfg *config.Config, yes bool) int {
	if !dbExists(cfg.DBPath) {
		fmt.Println("Database is already clean (does not exist)")
		return 0
	}

	if !yes && !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return 0
	}

	if err := os.RemoveAll(cfg.DBPath); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Println("Database cleaned successfully")
	return 0
}

// initDb initializes a new empty database.
func initDb(cfg *config.Config) int {
	if dbExists(cfg.DBPath) {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return 0
	}

	if err := os.MkdirAll(cfg.DBPath, 0o755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	store, err := repositories.NewStore(cfg.DBPath)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return 1
	}
	defer store.Close()

	fmt.Println("Database initialized successfully")
	return 0
}

// backup writes a full badger backup to target, or to a timestamped file
// next to the database when target is empty.
func backup(cfg *config.Config, target string) int {
	if !dbExists(cfg.DBPath) {
		fmt.Println("No database exists to backup")
		return 1
	}

	if target == "" {
		backupDir := filepath.Join(filepath.Dir(cfg.DBPath), "backups")
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			fmt.Printf("Failed to create backup directory: %v\n", err)
			return 1
		}
		target = filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	}

	store, err := repositories.NewStore(cfg.DBPath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	f, err := os.Create(target)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if _, err := store.DB.Backup(f, 0); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return 1
	}

	fmt.Printf("Database backed up successfully to %s\n", target)
	return 0
}

// restore replaces the database with the contents of a backup.
func restore(cfg *config.Config, backupFile string, yes bool) int {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if dbExists(cfg.DBPath) {
		if !yes && !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(cfg.DBPath); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if err := os.MkdirAll(cfg.DBPath, 0o755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	db, err := badger.Open(repositories.Options(cfg.DBPath))
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return db.Load(f, 4)
	}()
	if err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}

func usersCommand(cfg *config.Config, args []string) int {
	if len(args) < 2 || args[0] != "add" {
		fmt.Println("Usage: yatube users add <username> [first name] [last name]")
		return 1
	}
	var first, last string
	if len(args) > 2 {
		first = args[2]
	}
	if len(args) > 3 {
		last = args[3]
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Println(err)
		return 1
	}
	defer store.Close()

	user, err := services.NewUserService(store.Users).CreateUser(args[1], first, last)
	if err != nil {
		reportCreateError("user", err)
		return 1
	}
	fmt.Printf("Created user %s (id %d)\n", user.Username, user.ID)
	return 0
}

func groupsCommand(cfg *config.Config, args []string) int {
	usage := "Usage: yatube groups add <slug> <title> [description] | yatube groups list"
	if len(args) < 1 {
		fmt.Println(usage)
		return 1
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Println(err)
		return 1
	}
	defer store.Close()
	groups := services.NewGroupService(store.Groups)

	switch {
	case args[0] == "list":
		list, err := groups.ListGroups()
		if err != nil {
			fmt.Printf("Failed to list groups: %v\n", err)
			return 1
		}
		if len(list) == 0 {
			fmt.Println("No groups yet")
		}
		for _, g := range list {
			fmt.Printf("%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
		}
		return 0
	case args[0] == "add" && len(args) >= 3:
		desc := ""
		if len(args) > 3 {
			desc = args[3]
		}
		group, err := groups.CreateGroup(args[2], args[1], desc)
		if err != nil {
			reportCreateError("group", err)
			return 1
		}
		fmt.Printf("Created group %s (id %d)\n", group.Slug, group.ID)
		return 0
	default:
		fmt.Println(usage)
		return 1
	}
}

func reportCreateError(kind string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Printf("Invalid %s: %v\n", kind, verr)
	case errors.Is(err, repositories.ErrConflict):
		fmt.Printf("The %s already exists\n", kind)
	default:
		fmt.Printf("Failed to create %s: %v\n", kind, err)
	}
}
