package handler

import (
	"net/http"
	"openrate/core"
	"openrate/handler/render"
	"openrate/handler/rest"

	"github.com/go-chi/chi"
	"github.com/twitchtv/twirp"
)

// Server server
type Server struct {
	cfg        *core.Config
	ledgers    core.ILedgerStore
	ledgerSrv  core.ILedgerService
	custodySrv core.ICustodyService
	auditSrv   core.IAuditService
}

// New new server function
func New(
	cfg *core.Config,
	ledgers core.ILedgerStore,
	ledgerSrv core.ILedgerService,
	custodySrv core.ICustodyService,
	auditSrv core.IAuditService,
) Server {
	return Server{
		cfg:        cfg,
		ledgers:    ledgers,
		ledgerSrv:  ledgerSrv,
		custodySrv: custodySrv,
		auditSrv:   auditSrv,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, twirp.NotFoundError("not found"))
	})

	r.Mount("/", rest.Handle(s.cfg, s.ledgers, s.ledgerSrv, s.custodySrv, s.auditSrv))
	return r
}
