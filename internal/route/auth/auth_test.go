package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/template"
)

func TestMain(m *testing.M) {
	// Templates load relative to the repository root.
	if err := os.Chdir("../../.."); err != nil {
		panic(err)
	}

	template.Init()
	os.Exit(m.Run())
}

func postForm(
	handler func(*database.Conn, http.ResponseWriter, *http.Request),
	path string,
	values url.Values,
) *httptest.ResponseRecorder {
	request := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	// A nil connection proves validation failures never touch the database.
	handler(nil, recorder, request)

	return recorder
}

func TestRegisterValidationOrder(t *testing.T) {
	cases := []struct {
		name    string
		values  url.Values
		message string
	}{
		{
			"missing username",
			url.Values{"password": {"a"}, "confirmation": {"a"}},
			"must provide username",
		},
		{
			"missing password",
			url.Values{"username": {"kate"}, "confirmation": {"a"}},
			"must provide password",
		},
		{
			"missing confirmation",
			url.Values{"username": {"kate"}, "password": {"a"}},
			"must verify password",
		},
		{
			"mismatched passwords",
			url.Values{"username": {"kate"}, "password": {"a"}, "confirmation": {"b"}},
			"passwords must match",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := postForm(HandleRegister, "/register", testCase.values)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), testCase.message)
		})
	}
}

func TestLoginWithMissingFields(t *testing.T) {
	for _, values := range []url.Values{
		{},
		{"username": {"kate"}},
		{"password": {"hunter2!"}},
	} {
		recorder := postForm(HandleLogin, "/login", values)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "invalid username and/or password")
	}
}

func TestStartingCash(t *testing.T) {
	t.Setenv("STARTING_CASH", "")
	assert.Equal(t, "10000", StartingCash().String())

	t.Setenv("STARTING_CASH", "2500.50")
	assert.Equal(t, "2500.5", StartingCash().String())

	t.Setenv("STARTING_CASH", "-100")
	assert.Equal(t, "10000", StartingCash().String())

	t.Setenv("STARTING_CASH", "not a number")
	assert.Equal(t, "10000", StartingCash().String())
}
