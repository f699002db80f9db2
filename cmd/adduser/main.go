// Create a user account with the starting cash balance
package main

import (
	"fmt"
	"os"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/env"
	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/dense-analysis/stockwarp/internal/route/auth"
)

func main() {
	env.LoadEnvironmentVariables()

	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: adduser <username> <password>\n")
		os.Exit(1)
	}

	conn, err := database.Connect()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %s\n", err)
		os.Exit(1)
	}

	defer conn.Close()

	var user model.User

	if err := auth.CreateUser(conn, os.Args[1], os.Args[2], &user); err != nil {
		if auth.IsDuplicateUsername(err) {
			fmt.Fprintf(os.Stderr, "Username already taken: %s\n", os.Args[1])
		} else {
			fmt.Fprintf(os.Stderr, "Query error: %s\n", err)
		}

		os.Exit(1)
	}

	fmt.Printf("Created user %s with id %d\n", user.Username, user.ID)
}
