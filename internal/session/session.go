// Package session handles saving/loading users to/from sessions
package session

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/sessions"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/model"
)

var sessionStore *sessions.CookieStore

// InitSessionStorage starts up session storage or crashes the program with an error
func InitSessionStorage() {
	secretKey := os.Getenv("SECRET_KEY")

	if len(secretKey) == 0 {
		fmt.Fprintf(os.Stderr, "No SECRET_KEY variable set!\n")
		os.Exit(1)
	}

	sessionStore = sessions.NewCookieStore([]byte(secretKey))
}

// LoadUserFromSession loads the logged in user for a request, if there is one.
//
// The boolean result is true only when a valid session points at a user row
// that still exists.
func LoadUserFromSession(conn *database.Conn, request *http.Request, user *model.User) (bool, error) {
	session, sessionError := sessionStore.Get(request, "sessionid")

	if sessionError != nil {
		return false, nil
	}

	if userID, ok := session.Values["userID"].(int); ok {
		row := conn.QueryRow(
			"select id, username, cash from stock_user where id = $1",
			userID,
		)

		if err := row.Scan(&user.ID, &user.Username, &user.Cash); err != nil {
			if err == database.ErrNoRows {
				return false, nil
			}

			return false, err
		}

		return true, nil
	}

	return false, nil
}

// SaveUserInSession marks a user as logged in for subsequent requests.
func SaveUserInSession(writer http.ResponseWriter, request *http.Request, user *model.User) error {
	session, _ := sessionStore.Get(request, "sessionid")
	session.Values["userID"] = user.ID

	return session.Save(request, writer)
}

// ClearSession logs a user out by removing all session values.
func ClearSession(writer http.ResponseWriter, request *http.Request) error {
	session, _ := sessionStore.Get(request, "sessionid")

	for key := range session.Values {
		delete(session.Values, key)
	}

	return session.Save(request, writer)
}

// AddFlash queues a one-off notice to show the user on the next page view.
func AddFlash(writer http.ResponseWriter, request *http.Request, message string) {
	session, _ := sessionStore.Get(request, "sessionid")
	session.AddFlash(message)
	_ = session.Save(request, writer)
}

// Flashes pops all queued notices for the user.
func Flashes(writer http.ResponseWriter, request *http.Request) []string {
	session, _ := sessionStore.Get(request, "sessionid")
	flashes := session.Flashes()

	if len(flashes) == 0 {
		return nil
	}

	_ = session.Save(request, writer)
	messageList := make([]string, 0, len(flashes))

	for _, flash := range flashes {
		if message, ok := flash.(string); ok {
			messageList = append(messageList, message)
		}
	}

	return messageList
}
