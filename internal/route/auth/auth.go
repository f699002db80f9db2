// Package auth defines routes for registration, login, and logout
package auth

import (
	"errors"
	"net/http"
	"os"

	"github.com/jackc/pgconn"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/dense-analysis/stockwarp/internal/route/util"
	"github.com/dense-analysis/stockwarp/internal/session"
	"github.com/dense-analysis/stockwarp/internal/template"
)

// BcryptCost is the work factor for hashing account passwords.
const BcryptCost = 14

var defaultStartingCash = decimal.NewFromInt(10000)

// StartingCash returns the cash balance given to every new account.
//
// STARTING_CASH overrides the default of 10000.00.
func StartingCash() decimal.Decimal {
	if value := os.Getenv("STARTING_CASH"); len(value) > 0 {
		if cash, err := decimal.NewFromString(value); err == nil && !cash.IsNegative() {
			return cash
		}
	}

	return defaultStartingCash
}

// CreateUser inserts a new user with a hashed password and the starting balance.
//
// database rows are never deleted for users, and usernames are unique.
func CreateUser(conn database.Queryable, username string, password string, user *model.User) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)

	if err != nil {
		return err
	}

	user.Username = username
	user.Cash = StartingCash()

	row := conn.QueryRow(
		"insert into stock_user(username, password, cash) values ($1, $2, $3) returning id",
		username,
		string(passwordHash),
		user.Cash,
	)

	return row.Scan(&user.ID)
}

// IsDuplicateUsername reports whether an insert failed the username uniqueness constraint.
func IsDuplicateUsername(err error) bool {
	var pgError *pgconn.PgError

	return errors.As(err, &pgError) && pgError.Code == "23505"
}

func HandleViewRegisterForm(_ *database.Conn, writer http.ResponseWriter, _ *http.Request) {
	template.Render(template.Register, writer, nil)
}

func HandleRegister(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	request.ParseForm()
	username := request.Form.Get("username")
	password := request.Form.Get("password")
	confirmation := request.Form.Get("confirmation")

	if len(username) == 0 {
		util.RespondValidationError(writer, "must provide username")

		return
	}

	if len(password) == 0 {
		util.RespondValidationError(writer, "must provide password")

		return
	}

	if len(confirmation) == 0 {
		util.RespondValidationError(writer, "must verify password")

		return
	}

	if password != confirmation {
		util.RespondValidationError(writer, "passwords must match")

		return
	}

	var user model.User

	if err := CreateUser(conn, username, password, &user); err != nil {
		if IsDuplicateUsername(err) {
			util.RespondValidationError(writer, "username is not available")
		} else {
			util.RespondInternalServerError(writer, err)
		}

		return
	}

	session.SaveUserInSession(writer, request, &user)
	session.AddFlash(writer, request, "You were successfully registered!")
	http.Redirect(writer, request, "/", http.StatusFound)
}

func HandleViewLoginForm(_ *database.Conn, writer http.ResponseWriter, _ *http.Request) {
	template.Render(template.Login, writer, nil)
}

func HandleLogin(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	request.ParseForm()
	username := request.Form.Get("username")
	password := request.Form.Get("password")

	user := model.User{Username: username}
	loginValid := false

	if len(username) > 0 && len(password) > 0 {
		row := conn.QueryRow(
			"select id, cash, password from stock_user where username = $1",
			username,
		)

		var passwordHash string

		if err := row.Scan(&user.ID, &user.Cash, &passwordHash); err == nil {
			if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil {
				loginValid = true
			}
		}
	}

	// The same response covers unknown usernames and wrong passwords, so the
	// two cases cannot be told apart from outside.
	if !loginValid {
		util.RespondApology(writer, "invalid username and/or password", http.StatusForbidden)

		return
	}

	session.SaveUserInSession(writer, request, &user)
	session.AddFlash(writer, request, "You were successfully logged in!")
	http.Redirect(writer, request, "/", http.StatusFound)
}

func HandleLogout(_ *database.Conn, writer http.ResponseWriter, request *http.Request) {
	session.ClearSession(writer, request)
	http.Redirect(writer, request, "/login", http.StatusFound)
}
