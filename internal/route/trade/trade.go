// Package trade defines routes for quoting, buying, and selling stock
package trade

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/dense-analysis/stockwarp/internal/quote"
	"github.com/dense-analysis/stockwarp/internal/route/util"
	"github.com/dense-analysis/stockwarp/internal/session"
	"github.com/dense-analysis/stockwarp/internal/template"
)

var tradeQuery = `
select id, symbol, shares, price, name, time
from stock_trade
`

func scanTrade(row database.Row, trade *model.Trade) error {
	return row.Scan(
		&trade.ID,
		&trade.Symbol,
		&trade.Shares,
		&trade.Price,
		&trade.Name,
		&trade.Time,
	)
}

var insertTradeSQL = `
insert into stock_trade(user_id, symbol, shares, price, name)
values ($1, $2, $3, $4, $5)
`

// LoadHeldShares sums the ledger entries for one user and symbol.
func LoadHeldShares(conn database.Queryable, userID int, symbol string) (int, error) {
	row := conn.QueryRow(
		"select coalesce(sum(shares), 0) from stock_trade where user_id = $1 and symbol = $2",
		userID,
		symbol,
	)

	var held int
	err := row.Scan(&held)

	return held, err
}

func scanHolding(row database.Row, holding *model.Holding) error {
	return row.Scan(&holding.Symbol, &holding.Shares)
}

// LoadHoldingList loads each symbol a user holds a nonzero number of shares in.
func LoadHoldingList(conn database.Queryable, userID int, holdingList *[]model.Holding) error {
	return model.LoadList(
		conn,
		holdingList,
		10,
		scanHolding,
		`
		select symbol, sum(shares) as shares
		from stock_trade
		where user_id = $1
		group by symbol
		having sum(shares) <> 0
		order by symbol
		`,
		userID,
	)
}

func loadUser(conn *database.Conn, writer http.ResponseWriter, request *http.Request, user *model.User) bool {
	found, err := session.LoadUserFromSession(conn, request, user)

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return false
	}

	return found
}

func lookupSymbol(quotes quote.Client, writer http.ResponseWriter, symbol string, message string) *quote.Quote {
	result, err := quotes.Lookup(symbol)

	if err != nil {
		if errors.Is(err, quote.ErrUnknownSymbol) {
			util.RespondValidationError(writer, message)
		} else {
			// A dead quote API rejects the request rather than filling
			// trades at a stale or made-up price.
			util.RespondInternalServerError(writer, err)
		}

		return nil
	}

	return result
}

type QuotePageData struct {
	User model.User
}

type QuotedPageData struct {
	User  model.User
	Quote quote.Quote
}

func HandleViewQuoteForm(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	data := QuotePageData{}

	if !loadUser(conn, writer, request, &data.User) {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return
	}

	template.Render(template.Quote, writer, data)
}

func HandleQuote(conn *database.Conn, quotes quote.Client, writer http.ResponseWriter, request *http.Request) {
	data := QuotedPageData{}

	if !loadUser(conn, writer, request, &data.User) {
		util.RespondForbidden(writer)

		return
	}

	request.ParseForm()
	result := lookupSymbol(quotes, writer, request.Form.Get("symbol"), "incorrect symbol")

	if result == nil {
		return
	}

	data.Quote = *result
	template.Render(template.Quoted, writer, data)
}

type BuyPageData struct {
	User model.User
}

func HandleViewBuyForm(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	data := BuyPageData{}

	if !loadUser(conn, writer, request, &data.User) {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return
	}

	template.Render(template.Buy, writer, data)
}

func HandleBuy(conn *database.Conn, quotes quote.Client, writer http.ResponseWriter, request *http.Request) {
	var user model.User

	if !loadUser(conn, writer, request, &user) {
		util.RespondForbidden(writer)

		return
	}

	request.ParseForm()
	symbol := request.Form.Get("symbol")

	if len(symbol) == 0 {
		util.RespondValidationError(writer, "invalid symbol")

		return
	}

	result := lookupSymbol(quotes, writer, symbol, "invalid symbol")

	if result == nil {
		return
	}

	shares, formErr := ParseShareCount(request.Form.Get("shares"))

	if formErr != nil {
		util.RespondValidationError(writer, formErr.Error())

		return
	}

	cost := result.Price.Mul(decimal.NewFromInt(int64(shares)))
	tx, err := conn.Begin()

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	defer tx.Rollback()

	if err := tx.Exec(insertTradeSQL, user.ID, result.Symbol, shares, result.Price, result.Name); err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	// The cash check and decrement are one conditional update, so two
	// concurrent buys cannot both spend the same cash.
	row := tx.QueryRow(
		"update stock_user set cash = cash - $1 where id = $2 and cash >= $1 returning cash",
		cost,
		user.ID,
	)

	var remainingCash decimal.Decimal

	if err := row.Scan(&remainingCash); err != nil {
		if err == database.ErrNoRows {
			util.RespondValidationError(writer, "can't afford")
		} else {
			util.RespondInternalServerError(writer, err)
		}

		return
	}

	if err := tx.Commit(); err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	session.AddFlash(writer, request, "Bought!")
	http.Redirect(writer, request, "/", http.StatusFound)
}

type SellPageData struct {
	User        model.User
	HoldingList []model.Holding
}

func HandleViewSellForm(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	data := SellPageData{}

	if !loadUser(conn, writer, request, &data.User) {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return
	}

	if err := LoadHoldingList(conn, data.User.ID, &data.HoldingList); err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	template.Render(template.Sell, writer, data)
}

func HandleSell(conn *database.Conn, quotes quote.Client, writer http.ResponseWriter, request *http.Request) {
	var user model.User

	if !loadUser(conn, writer, request, &user) {
		util.RespondForbidden(writer)

		return
	}

	request.ParseForm()
	symbol := request.Form.Get("symbol")

	if len(symbol) == 0 {
		util.RespondValidationError(writer, "missing symbol")

		return
	}

	shares, formErr := ParseShareCount(request.Form.Get("shares"))

	if formErr != nil {
		util.RespondValidationError(writer, formErr.Error())

		return
	}

	// A symbol the quote API no longer recognises cannot be sold, even if
	// ledger entries for it exist.
	result := lookupSymbol(quotes, writer, symbol, "incorrect symbol")

	if result == nil {
		return
	}

	proceeds := result.Price.Mul(decimal.NewFromInt(int64(shares)))
	tx, err := conn.Begin()

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	defer tx.Rollback()

	// Lock the user row so concurrent sells for one user serialise, then
	// recompute held shares inside the transaction. Without this, two sells
	// racing past the same read could drive the holding negative.
	var lockedCash decimal.Decimal

	if err := tx.QueryRow(
		"select cash from stock_user where id = $1 for update",
		user.ID,
	).Scan(&lockedCash); err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	held, heldErr := LoadHeldShares(tx, user.ID, result.Symbol)

	if heldErr != nil {
		util.RespondInternalServerError(writer, heldErr)

		return
	}

	if shares > held {
		util.RespondValidationError(writer, "too many shares")

		return
	}

	if err := tx.Exec(insertTradeSQL, user.ID, result.Symbol, -shares, result.Price, result.Name); err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	if err := tx.Exec(
		"update stock_user set cash = cash + $1 where id = $2",
		proceeds,
		user.ID,
	); err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	if err := tx.Commit(); err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	session.AddFlash(writer, request, "Sold!")
	http.Redirect(writer, request, "/", http.StatusFound)
}

type HistoryPageData struct {
	User      model.User
	TradeList []model.Trade
}

// HandleHistory lists every ledger entry for the user in insertion order.
func HandleHistory(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	data := HistoryPageData{}

	if !loadUser(conn, writer, request, &data.User) {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return
	}

	if err := model.LoadList(
		conn,
		&data.TradeList,
		20,
		scanTrade,
		tradeQuery+"where user_id = $1 order by id",
		data.User.ID,
	); err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	template.Render(template.History, writer, data)
}
