// Command admin is an operator tool for account management: it creates
// accounts and flips their verification flag directly against the database,
// without going through the HTTP endpoint.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"thesisarchive/internal/server/config"
	"thesisarchive/internal/server/repositories/repomanager"
	"thesisarchive/internal/server/services"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: admin [-d dsn] <command> [args]\n")
	fmt.Fprintf(os.Stderr, "commands:\n")
	fmt.Fprintf(os.Stderr, "  register <email> [display name]   create an account (prompts for password)\n")
	fmt.Fprintf(os.Stderr, "  verify <email>                    mark an account as verified\n")
	os.Exit(2)
}

func main() {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	dsn := flag.String("d", cfg.DatabaseDSN, "database DSN")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
	}

	cfg.DatabaseDSN = *dsn

	ctx := context.Background()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	identity := services.NewIdentityService(db, m, cfg)

	switch args[0] {
	case "register":
		if len(args) < 2 {
			usage()
		}
		email := args[1]
		displayName := ""
		if len(args) > 2 {
			displayName = args[2]
		}

		password, err := readPassword()
		if err != nil {
			log.Fatalf("password read error: %v", err)
		}

		account, err := identity.Register(ctx, email, password, displayName)
		if err != nil {
			log.Fatalf("register error: %v", err)
		}
		fmt.Printf("created account %s (%s)\n", account.ID, account.Email)

	case "verify":
		if len(args) < 2 {
			usage()
		}
		if err := identity.MarkVerified(ctx, args[1]); err != nil {
			log.Fatalf("verify error: %v", err)
		}
		fmt.Printf("account %s marked as verified\n", args[1])

	default:
		usage()
	}
}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}
