package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/env"
	"github.com/dense-analysis/stockwarp/internal/quote"
	"github.com/dense-analysis/stockwarp/internal/route/auth"
	"github.com/dense-analysis/stockwarp/internal/route/portfolio"
	"github.com/dense-analysis/stockwarp/internal/route/trade"
	"github.com/dense-analysis/stockwarp/internal/route/util"
	"github.com/dense-analysis/stockwarp/internal/session"
	"github.com/dense-analysis/stockwarp/internal/template"
)

type connHandler func(*database.Conn, http.ResponseWriter, *http.Request)
type quoteHandler func(*database.Conn, quote.Client, http.ResponseWriter, *http.Request)

func withConn(conn *database.Conn, handler connHandler) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		handler(conn, writer, request)
	}
}

func withQuotes(conn *database.Conn, quotes quote.Client, handler quoteHandler) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		handler(conn, quotes, writer, request)
	}
}

// noCacheMiddleware stops browsers from serving trading pages from cache.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		header := writer.Header()
		header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		header.Set("Pragma", "no-cache")
		header.Set("Expires", "0")
		next.ServeHTTP(writer, request)
	})
}

func main() {
	env.LoadEnvironmentVariables()
	session.InitSessionStorage()
	template.Init()

	quotes := quote.NewClientFromEnvironment()
	conn, connectionErr := database.Connect()

	if connectionErr != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %s\n", connectionErr)
		os.Exit(1)
	}

	defer conn.Close()

	router := mux.NewRouter().StrictSlash(true)
	router.Use(noCacheMiddleware)
	router.NotFoundHandler = noCacheMiddleware(http.HandlerFunc(util.HandleNotFound))
	router.MethodNotAllowedHandler = noCacheMiddleware(http.HandlerFunc(util.HandleMethodNotAllowed))

	router.HandleFunc("/", withQuotes(conn, quotes, portfolio.HandleIndex)).Methods("GET")
	router.HandleFunc("/register", withConn(conn, auth.HandleViewRegisterForm)).Methods("GET")
	router.HandleFunc("/register", withConn(conn, auth.HandleRegister)).Methods("POST")
	router.HandleFunc("/login", withConn(conn, auth.HandleViewLoginForm)).Methods("GET")
	router.HandleFunc("/login", withConn(conn, auth.HandleLogin)).Methods("POST")
	router.HandleFunc("/logout", withConn(conn, auth.HandleLogout)).Methods("GET")
	router.HandleFunc("/quote", withConn(conn, trade.HandleViewQuoteForm)).Methods("GET")
	router.HandleFunc("/quote", withQuotes(conn, quotes, trade.HandleQuote)).Methods("POST")
	router.HandleFunc("/buy", withConn(conn, trade.HandleViewBuyForm)).Methods("GET")
	router.HandleFunc("/buy", withQuotes(conn, quotes, trade.HandleBuy)).Methods("POST")
	router.HandleFunc("/sell", withConn(conn, trade.HandleViewSellForm)).Methods("GET")
	router.HandleFunc("/sell", withQuotes(conn, quotes, trade.HandleSell)).Methods("POST")
	router.HandleFunc("/history", withConn(conn, trade.HandleHistory)).Methods("GET")

	// TODO: Only enable static files if a DEBUG flag is true
	fileServer := http.FileServer(http.Dir("./static/"))
	router.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", fileServer))

	server := http.Server{
		Addr:    ":" + env.Default("PORT", "8000"),
		Handler: router,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %s \n", err)
		}
	}()

	log.Println("Server started")
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer func() {
		cancel()
	}()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shut down failed: %+v", err)
	}

	log.Println("Server shut down successfully")
}
