// cmd/hashpass/main.go
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Prints the bcrypt hash of a password, for seeding users by hand.
// Usage: hashpass <password> [cost]
func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("Usage: go run ./cmd/hashpass <password> [cost]")
	}

	password := os.Args[1]
	cost := 12
	if len(os.Args) > 2 {
		c, err := strconv.Atoi(os.Args[2])
		if err != nil {
			logrus.WithError(err).Fatal("cost must be a number")
		}
		cost = c
	}

	passwords := auth.NewPasswordManager(cost)
	hash, err := passwords.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Fatal("Error generating hash")
	}
	if err := passwords.VerifyPassword(password, hash); err != nil {
		logrus.WithError(err).Fatal("Hash verification failed")
	}

	fmt.Println(hash)
}
