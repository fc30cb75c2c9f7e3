// Package main provides the database migration CLI tool.
// This command-line utility manages database schema migrations using goose.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/yegamble/licensevault/internal/config"
)

const migrationsDir = "migrations"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [up|down|status|redo|version]\n", os.Args[0])
	}
	flag.Parse()

	cmd := "up"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("set goose dialect: %v", err)
	}

	args := flag.Args()
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	if err := goose.Run(cmd, db, migrationsDir, rest...); err != nil {
		log.Fatalf("goose %s: %v", cmd, err)
	}
}
