package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"Firebox/internal/auth"
	"Firebox/internal/calc/batch"
	"Firebox/internal/calc/heater"
	"Firebox/internal/calc/importer"
	"Firebox/internal/calc/psychro"
	"Firebox/internal/calc/report"
	"Firebox/internal/calc/sweep"
	"Firebox/internal/config"
	"Firebox/internal/history"
	"Firebox/internal/repo"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

type Deps struct {
	Config config.Config
	Env    config.Env
	Lookup psychro.Lookup
	Runs   repo.RunRepository
}

func HandleList(mux *mux.Router, d Deps) {
	heaterH := &heater.Handler{Defaults: d.Config.Defaults, Lookup: d.Lookup}
	if d.Runs != nil {
		heaterH.Runs = d.Runs
	}
	runner := batch.Runner{Base: d.Config.Defaults, Lookup: d.Lookup}
	batchH := &batch.Handler{Runner: runner}
	importH := &importer.Handler{Runner: runner}
	reportH := &report.Handler{Calc: heaterH}
	sweepH := &sweep.Handler{Defaults: d.Config.Defaults, Lookup: d.Lookup}

	limiter := auth.NewIPRateLimiter(rate.Limit(d.Config.Server.Rate), d.Config.Server.Burst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	api.HandleFunc("/heater/calc", heaterH.Calc).Methods("POST")
	api.HandleFunc("/heater/fields", heaterH.Fields).Methods("GET")
	api.HandleFunc("/heater/batch", batchH.Calc).Methods("POST")
	api.HandleFunc("/heater/import", importH.Import).Methods("POST")
	api.HandleFunc("/heater/report", reportH.Generate).Methods("POST")
	api.HandleFunc("/heater/sweep", sweepH.ServeWS).Methods("GET")

	if d.Env.TokenKey == "" || d.Runs == nil {
		log.Info("run history disabled: TOKEN_KEY or DATABASE_URL not set")
		return
	}
	authEnv := &auth.Authenv{
		JWTkey:       []byte(d.Env.TokenKey),
		Login:        d.Env.OperatorLogin,
		PasswordHash: d.Env.OperatorPasswordHash,
	}
	historyH := &history.HistoryHandler{Repo: d.Runs}

	api.HandleFunc("/login", authEnv.LoginHandler).Methods("POST")

	secureApi := api.PathPrefix("/runs").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)
	secureApi.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	secureApi.HandleFunc("", historyH.List).Methods("GET")
	secureApi.HandleFunc("/{id:[0-9]+}", historyH.Get).Methods("GET")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	env := config.LoadEnv()
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	log.SetLevel(cfg.Server.Level())
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	lookup, err := cfg.Lookup()
	if err != nil {
		log.WithError(err).Fatal("psychrometrics")
	}

	d := Deps{Config: cfg, Env: env, Lookup: lookup}
	if env.DatabaseURL != "" {
		db, err := repo.InitDB(ctx, env.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("database")
		}
		defer db.Close()
		runs := repo.NewPostgresRunDB(db)
		if err := runs.Migrate(ctx); err != nil {
			log.WithError(err).Fatal("database")
		}
		d.Runs = runs
	}

	mux := mux.NewRouter()
	HandleList(mux, d)
	handler := CORS(mux)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithField("addr", server.Addr).Info("starting server")
		var err error
		if cfg.Server.Cert != "" && cfg.Server.Key != "" {
			err = server.ListenAndServeTLS(cfg.Server.Cert, cfg.Server.Key)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTTL)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	wg.Wait()
	log.Info("server stopped")
}
