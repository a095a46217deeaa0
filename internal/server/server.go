// Package server exposes the settlement core over a JSON HTTP API.
//
// The layering keeps transport concerns out of the core: handlers decode and
// validate requests, call into the service layer, and translate domain
// errors to status codes. No settlement rule lives here.
package server

import (
	"github.com/TanishaMaheshwari/vc-manager/internal/auth"
	"github.com/TanishaMaheshwari/vc-manager/internal/service"
	"github.com/TanishaMaheshwari/vc-manager/internal/storage"
)

// Server wires the HTTP handlers to the service layer.
type Server struct {
	store       storage.Store
	pools       *service.PoolService
	settlements *service.SettlementService
	ledger      *service.LedgerService
	authn       auth.Authenticator
	jwt         *auth.JWTManager
}

// New creates a Server with the given services.
func New(store storage.Store, pools *service.PoolService, settlements *service.SettlementService,
	ledger *service.LedgerService, authn auth.Authenticator, jwt *auth.JWTManager) *Server {
	return &Server{
		store:       store,
		pools:       pools,
		settlements: settlements,
		ledger:      ledger,
		authn:       authn,
		jwt:         jwt,
	}
}
