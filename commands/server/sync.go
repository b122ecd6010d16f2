package server

import (
	"sync"

	abci "github.com/tendermint/tendermint/abci/types"
)

// Synchronized returns an application that executes at most one ABCI call at
// a time. The socket server serializes the calls it makes, but the HTTP API
// queries the same application from other goroutines.
func Synchronized(app abci.Application) abci.Application {
	return &syncApp{app: app}
}

type syncApp struct {
	mu  sync.Mutex
	app abci.Application
}

var _ abci.Application = (*syncApp)(nil)

func (s *syncApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Info(req)
}

func (s *syncApp) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.SetOption(req)
}

func (s *syncApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Query(req)
}

func (s *syncApp) CheckTx(tx []byte) abci.ResponseCheckTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.CheckTx(tx)
}

func (s *syncApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.InitChain(req)
}

func (s *syncApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.BeginBlock(req)
}

func (s *syncApp) DeliverTx(tx []byte) abci.ResponseDeliverTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.DeliverTx(tx)
}

func (s *syncApp) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.EndBlock(req)
}

func (s *syncApp) Commit() abci.ResponseCommit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Commit()
}
