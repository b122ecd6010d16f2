/*
Package mrytd assembles the vault node: transaction decoding, the decorator
chain, message routing and genesis initialization.
*/
package mrytd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/mryt/x/token"
	"github.com/iov-one/mryt/x/vault"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/app"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/orm"
	"github.com/iov-one/weave/store/iavl"
	"github.com/iov-one/weave/x"
	"github.com/iov-one/weave/x/sigs"
	"github.com/iov-one/weave/x/utils"
)

// Authenticator accepts the signers of the transaction.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns the decorators every transaction passes through before
// reaching the router.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// failed checks are discarded
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator().AllowMissingSigs(),
		utils.NewActionTagger(),
		// on DeliverTx, bad tx will increment nonce even if the
		// message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a default router dispatching token and vault messages.
func Router(authFn x.Authenticator, tokens *token.BaseController, metrics *vault.Metrics) *app.Router {
	r := app.NewRouter()
	token.RegisterRoutes(r, authFn, tokens)
	vault.RegisterRoutes(r, authFn, vault.NewController(tokens).WithMetrics(metrics))
	return r
}

// QueryRouter exposes the raw store under "/", user nonces, schema versions,
// token buckets and the vault state.
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		migration.RegisterQuery,
		token.RegisterQuery,
		vault.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack is the transaction handler of the node: the decorator chain in
// front of the token and vault router.
func Stack(metrics *vault.Metrics) weave.Handler {
	authFn := Authenticator()
	return Chain().
		WithHandler(Router(authFn, token.NewController(), metrics))
}

// Application returns the ABCI application backed by the store at dbPath.
// An empty path keeps the state in memory.
func Application(name string, h weave.Handler,
	tx weave.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, nil, debug)
	return base, nil
}

// CommitKVStore opens the iavl store at dbPath.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	// tests
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// leveldb appends the ".db" extension itself
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
