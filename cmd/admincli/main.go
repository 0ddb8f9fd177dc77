// Command admincli creates an administrator account. It is the trusted
// internal caller for admin registration: the public HTTP endpoint never
// grants the admin flag, this tool talks to the database directly.
//
// Usage:
//
//	admincli -d <dsn> -name "Root" -email root@store.com -national-id 12345678900
//
// The password is prompted on the terminal and never echoed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/rmachado/storeauth/internal/common"
	"github.com/rmachado/storeauth/internal/flagx"
	"github.com/rmachado/storeauth/internal/server/config"
	"github.com/rmachado/storeauth/internal/server/shared/db"
	"github.com/rmachado/storeauth/internal/server/users"
)

type adminFlags struct {
	name       string
	email      string
	nationalID string
	contact    string
	birthDate  string
}

func parseAdminFlags() *adminFlags {
	args := flagx.FilterArgs(os.Args[1:], []string{"-name", "-email", "-national-id", "-contact", "-birth-date"})

	f := &adminFlags{}
	fs := flag.NewFlagSet("admincli", flag.ContinueOnError)
	fs.StringVar(&f.name, "name", "", "display name")
	fs.StringVar(&f.email, "email", "", "login email")
	fs.StringVar(&f.nationalID, "national-id", "", "national id (any formatting)")
	fs.StringVar(&f.contact, "contact", "", "contact phone number")
	fs.StringVar(&f.birthDate, "birth-date", "", "birth date (YYYY-MM-DD)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	return f
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}

	fmt.Fprint(os.Stderr, "Repeat password: ")
	confirmation, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		common.WipeByteArray(password)
		return "", err
	}

	defer common.WipeByteArray(password)
	defer common.WipeByteArray(confirmation)

	if string(password) != string(confirmation) {
		return "", fmt.Errorf("passwords do not match")
	}

	return string(password), nil
}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	flags := parseAdminFlags()

	if flags.email == "" || flags.nationalID == "" {
		log.Fatal("both -email and -national-id are required")
	}

	password, err := readPassword()
	if err != nil {
		log.Fatalf("reading password: %v", err)
	}

	m, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer m.Close()

	service := users.NewService(m.Users(), cfg)

	res, err := service.RegisterAdmin(ctx, users.RegisterInput{
		Name:       flags.name,
		Email:      flags.email,
		Password:   password,
		NationalID: flags.nationalID,
		Contact:    flags.contact,
		BirthDate:  flags.birthDate,
	})
	if err != nil {
		log.Fatalf("creating admin: %v", err)
	}

	fmt.Printf("created admin account %s (%s)\n", res.User.Email, res.User.ID)
}
