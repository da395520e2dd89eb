package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/iurnickita/debtreport/internal/auth"
	"github.com/iurnickita/debtreport/internal/gzip"
	"github.com/iurnickita/debtreport/internal/handler/config"
	"github.com/iurnickita/debtreport/internal/logger"
	"github.com/iurnickita/debtreport/internal/service"
)

func Serve(cfg config.Config, auth auth.Auth, service service.Service, zaplog *zap.Logger) error {
	h := newHandler(auth, service, zaplog)
	router := h.newRouter()

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	zaplog.Info("server started", zap.String("addr", cfg.ServerAddr))
	return srv.ListenAndServe()
}

type handler struct {
	auth    auth.Auth
	service service.Service
	zaplog  *zap.Logger
}

func newHandler(auth auth.Auth, service service.Service, zaplog *zap.Logger) *handler {
	return &handler{
		auth:    auth,
		service: service,
		zaplog:  zaplog,
	}
}

func (h *handler) newRouter() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /paymentsBalances", h.wrap(h.GetPaymentsBalances))
	mux.HandleFunc("GET /paymentsBalances/{from}/{to}", h.wrap(h.GetBalancesInRange))
	mux.HandleFunc("GET /unpaidDebt", h.wrap(h.GetUnpaidDebt))
	mux.HandleFunc("GET /lastPayment/weekAgo", h.wrap(h.GetLastPaymentWeekAgo))
	mux.HandleFunc("GET /lastPayment/monthAgo", h.wrap(h.GetLastPaymentMonthAgo))
	mux.HandleFunc("GET /authorization/{login}/{password}", h.wrap(h.GetAuthorization))
	mux.HandleFunc("GET /adminInfo/{token}", h.wrap(h.GetAdminInfo))

	return mux
}

func (h *handler) wrap(hf http.HandlerFunc) http.HandlerFunc {
	return gzip.GzipMiddleware(logger.RequestLogMdlw(hf, h.zaplog))
}

func (h *handler) GetPaymentsBalances(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.service.PaymentsBalances())
}

// GetBalancesInRange: /paymentsBalances/from={n}/to={n}.
// Нечисловая граница игнорируется.
func (h *handler) GetBalancesInRange(w http.ResponseWriter, r *http.Request) {
	from, ok := pathParam(r, "from")
	if !ok {
		http.NotFound(w, r)
		return
	}
	to, ok := pathParam(r, "to")
	if !ok {
		http.NotFound(w, r)
		return
	}

	h.writeJSON(w, h.service.BalancesInRange(service.ParseBound(from), service.ParseBound(to)))
}

func (h *handler) GetUnpaidDebt(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.service.UnpaidDebt())
}

func (h *handler) GetLastPaymentWeekAgo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.service.LastPaymentWeekAgo())
}

func (h *handler) GetLastPaymentMonthAgo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.service.LastPaymentMonthAgo())
}

// GetAuthorization отдаёт токен строкой JSON, при несовпадении - null.
func (h *handler) GetAuthorization(w http.ResponseWriter, r *http.Request) {
	login, ok := pathParam(r, "login")
	if !ok {
		http.NotFound(w, r)
		return
	}
	password, ok := pathParam(r, "password")
	if !ok {
		http.NotFound(w, r)
		return
	}

	token, ok := h.auth.Login(login, password)
	if !ok {
		h.zaplog.Debug("authorization failed", zap.String("login", login))
		h.writeJSON(w, nil)
		return
	}
	h.writeJSON(w, token)
}

func (h *handler) GetAdminInfo(w http.ResponseWriter, r *http.Request) {
	token, ok := pathParam(r, "token")
	if !ok {
		http.NotFound(w, r)
		return
	}

	admin, ok := h.auth.AdminByToken(token)
	if !ok {
		h.writeJSON(w, nil)
		return
	}
	h.writeJSON(w, admin)
}

// pathParam разбирает сегмент вида name=value.
func pathParam(r *http.Request, name string) (string, bool) {
	return strings.CutPrefix(r.PathValue(name), name+"=")
}

func (h *handler) writeJSON(w http.ResponseWriter, v any) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		h.zaplog.Error("marshal response", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(responseJSON)
}
