// Command adduser creates an account from the terminal. The password is read
// without echo when stdin is a terminal, otherwise from the first line of stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rongwang/fintrack/internal/auth"
	"github.com/rongwang/fintrack/internal/config"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/repository"
	"github.com/rongwang/fintrack/internal/service"
	"golang.org/x/term"
)

func main() {
	username := flag.String("username", "", "username of the new account")
	email := flag.String("email", "", "email of the new account")
	flag.Parse()

	if err := run(*username, *email); err != nil {
		fmt.Fprintf(os.Stderr, "adduser: %v\n", err)
		os.Exit(1)
	}
}

func run(username, email string) error {
	if len(username) < 3 || !strings.Contains(email, "@") {
		return fmt.Errorf("usage: adduser -username NAME -email ADDRESS")
	}

	password, err := readPassword()
	if err != nil {
		return err
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	db, err := config.SetupDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := service.NewDefaultService(repository.NewSQLRepository(db), service.Dependencies{
		Tokens: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL),
	})

	resp, err := svc.SignUp(ctx, models.SignUpRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return err
	}

	fmt.Printf("created user %s (%s)\n", resp.Username, resp.UserID)
	return nil
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
