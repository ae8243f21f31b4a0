// Package useradd implements the account provisioning command used to create
// users, typically the admin, without going through the HTTP API.
package useradd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/authboard/internal/server/models"
)

var ErrPasswordsDiffer = errors.New("passwords do not match")

// Registrar creates accounts; services.UserService satisfies it.
type Registrar interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
}

// Options carries values given on the command line. Empty fields are prompted for.
type Options struct {
	Username string
	Email    string
	// PasswordStdin reads the password as the next line of input instead
	// of prompting on the terminal.
	PasswordStdin bool
}

// Run collects the account details and registers the user.
func Run(ctx context.Context, users Registrar, opts Options, in io.Reader, out io.Writer) (*models.User, error) {
	reader := bufio.NewReader(in)

	username := strings.TrimSpace(opts.Username)
	if username == "" {
		v, err := GetSimpleText(reader, "Username", out)
		if err != nil {
			return nil, fmt.Errorf("read username: %w", err)
		}
		username = v
	}

	email := strings.TrimSpace(opts.Email)
	if email == "" {
		v, err := GetSimpleText(reader, "Email", out)
		if err != nil {
			return nil, fmt.Errorf("read email: %w", err)
		}
		email = v
	}

	var (
		password string
		err      error
	)
	if opts.PasswordStdin {
		password, err = reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && password != "") {
			return nil, fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(password, "\r\n")
	} else {
		password, err = GetNewPassword(out)
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
	}

	user, _, err := users.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "created user %s (id=%d)\n", user.Username, user.ID)
	return user, nil
}
