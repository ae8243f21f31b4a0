// Command useradd creates an account directly in the configured database.
//
//	useradd -u admin -e admin@example.com          # prompts for the password
//	echo "$PW" | useradd -u admin -e a@x.com -password-stdin
//
// Database and hashing settings come from the same sources as the server
// (.env, environment, -c config file, -d/-b flags).
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/authboard/internal/flagx"
	"github.com/dmitrijs2005/authboard/internal/server"
	"github.com/dmitrijs2005/authboard/internal/server/config"
	"github.com/dmitrijs2005/authboard/internal/useradd"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	var opts useradd.Options
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.Username, "u", "", "username")
	fs.StringVar(&opts.Email, "e", "", "email")
	fs.BoolVar(&opts.PasswordStdin, "password-stdin", false, "read the password from stdin")
	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-u", "-e", "-password-stdin"})); err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()

	db, rm, err := server.OpenStore(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	if _, err := useradd.Run(ctx, server.NewUserService(db, rm, cfg), opts, os.Stdin, os.Stdout); err != nil {
		log.Printf("%v", err)
		db.Close()
		os.Exit(1)
	}
}
