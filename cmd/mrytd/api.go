package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/iov-one/mryt/x/token"
	"github.com/iov-one/mryt/x/vault"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/app"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/orm"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const apiRequestTimeout = 10 * time.Second

// api serves a read only view of the committed application state. All reads
// go through the ABCI query interface, so they never observe a block that is
// being executed.
type api struct {
	app     abci.Application
	db      weave.ReadOnlyKVStore
	vault   *vault.Controller
	wallets orm.ModelBucket
	logger  log.Logger
}

// newAPI returns the HTTP handler exposing the vault state of given
// application.
func newAPI(application abci.Application, logger log.Logger) http.Handler {
	a := &api{
		app:     application,
		db:      app.NewABCIStore(application),
		vault:   vault.NewController(token.NewController()),
		wallets: token.NewWalletBucket(),
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Get("/info", a.info)
	r.Get("/ledger", a.ledger)
	r.Get("/rate", a.rate)
	r.Get("/positions/{address}", a.position)
	r.Get("/wallets/{address}", a.wallet)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.jsonErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	return r
}

func (a *api) info(w http.ResponseWriter, r *http.Request) {
	res := a.app.Info(abci.RequestInfo{})
	a.jsonResp(w, http.StatusOK, struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Height  int64  `json:"height"`
	}{
		Name:    res.Data,
		Version: weave.Version,
		Height:  res.LastBlockHeight,
	})
}

func (a *api) ledger(w http.ResponseWriter, r *http.Request) {
	l, err := a.vault.Ledger(a.db)
	if err != nil {
		a.storeErr(w, err)
		return
	}
	a.jsonResp(w, http.StatusOK, l)
}

func (a *api) rate(w http.ResponseWriter, r *http.Request) {
	rate, err := a.vault.ReportRate(a.db)
	if err != nil {
		a.storeErr(w, err)
		return
	}
	a.jsonResp(w, http.StatusOK, vault.YieldRate{Rate: rate})
}

func (a *api) position(w http.ResponseWriter, r *http.Request) {
	addr, err := weave.ParseAddress(chi.URLParam(r, "address"))
	if err != nil || addr == nil {
		a.jsonErr(w, http.StatusBadRequest, "invalid address")
		return
	}
	p, err := a.vault.Position(a.db, addr)
	if err != nil {
		a.storeErr(w, err)
		return
	}
	a.jsonResp(w, http.StatusOK, p)
}

func (a *api) wallet(w http.ResponseWriter, r *http.Request) {
	addr, err := weave.ParseAddress(chi.URLParam(r, "address"))
	if err != nil || addr == nil {
		a.jsonErr(w, http.StatusBadRequest, "invalid address")
		return
	}
	var wallet token.Wallet
	if err := a.wallets.One(a.db, addr, &wallet); err != nil {
		a.storeErr(w, err)
		return
	}
	a.jsonResp(w, http.StatusOK, wallet)
}

// storeErr maps an error returned while reading the state to a response
// status.
func (a *api) storeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.ErrNotFound.Is(err):
		a.jsonErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	case errors.ErrInput.Is(err):
		a.jsonErr(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error("cannot read state", "err", err)
		a.jsonErr(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// jsonResp write content as JSON encoded response.
func (a *api) jsonResp(w http.ResponseWriter, code int, content interface{}) {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		a.logger.Error("cannot JSON serialize response", "err", err)
		code = http.StatusInternalServerError
		b = []byte(`{"errors":["Internal Server Error"]}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

func (a *api) jsonErr(w http.ResponseWriter, code int, errText string) {
	a.jsonResp(w, code, struct {
		Errors []string `json:"errors"`
	}{
		Errors: []string{errText},
	})
}

// newHTTPServer returns a server for the API with timeouts applied.
func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  apiRequestTimeout,
		WriteTimeout: apiRequestTimeout,
		IdleTimeout:  2 * apiRequestTimeout,
	}
}
