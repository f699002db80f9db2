// Package portfolio defines the index route showing what a user holds
package portfolio

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/dense-analysis/stockwarp/internal/quote"
	"github.com/dense-analysis/stockwarp/internal/route/trade"
	"github.com/dense-analysis/stockwarp/internal/route/util"
	"github.com/dense-analysis/stockwarp/internal/session"
	"github.com/dense-analysis/stockwarp/internal/template"
)

func loadUser(conn *database.Conn, writer http.ResponseWriter, request *http.Request, user *model.User) bool {
	found, err := session.LoadUserFromSession(conn, request, user)

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return false
	}

	return found
}

type IndexPageData struct {
	User        model.User
	HoldingList []model.Holding
	TotalValue  decimal.Decimal
	Flashes     []string
}

// PriceHoldings fills in the current price and value for each holding and
// returns the grand total including cash.
//
// This makes one quote lookup per held symbol, which is fine at this scale.
func PriceHoldings(quotes quote.Client, cash decimal.Decimal, holdingList []model.Holding) (decimal.Decimal, error) {
	total := cash

	for i := range holdingList {
		holding := &holdingList[i]
		result, err := quotes.Lookup(holding.Symbol)

		if err != nil {
			return decimal.Zero, err
		}

		holding.Name = result.Name
		holding.Price = result.Price
		holding.Value = result.Price.Mul(decimal.NewFromInt(int64(holding.Shares)))
		total = total.Add(holding.Value)
	}

	return total, nil
}

// HandleIndex shows the cash, holdings, and total value for a user.
func HandleIndex(conn *database.Conn, quotes quote.Client, writer http.ResponseWriter, request *http.Request) {
	data := IndexPageData{}

	if !loadUser(conn, writer, request, &data.User) {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return
	}

	if err := trade.LoadHoldingList(conn, data.User.ID, &data.HoldingList); err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	total, err := PriceHoldings(quotes, data.User.Cash, data.HoldingList)

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	data.TotalValue = total
	data.Flashes = session.Flashes(writer, request)
	template.Render(template.Index, writer, data)
}
