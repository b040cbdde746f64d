package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"

	"payments-sdk/config"
	"payments-sdk/models"
	"payments-sdk/services/hosted"
	"payments-sdk/services/payment"
	"payments-sdk/utils"
)

const (
	sessionName     = "hosted-payment"
	sessionOrderKey = "order_id"
	maxPostBackSize = 64 << 10
)

// HostedPaymentHandler hands hosted payment page requests to the browser and
// verifies what the page posts back.
type HostedPaymentHandler struct {
	container  *payment.Container
	configName string
	hosted     *hosted.Service
	store      *sessions.CookieStore
	logger     *slog.Logger
}

func NewHostedPaymentHandler(c *payment.Container, svc *hosted.Service, server *config.ServerConfig, logger *slog.Logger) *HostedPaymentHandler {
	store := sessions.NewCookieStore([]byte(server.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   server.SessionDomain,
		MaxAge:   server.SessionMaxAge,
		Secure:   server.SessionSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HostedPaymentHandler{
		container:  c,
		configName: server.ConfigName,
		hosted:     svc,
		store:      store,
		logger:     logger.With(slog.String("component", "hosted-handler")),
	}
}

func (h *HostedPaymentHandler) Register(r *mux.Router) {
	r.HandleFunc("/hosted/request", h.Request).Methods(http.MethodGet)
	r.HandleFunc("/hosted/response", h.Response).Methods(http.MethodPost)
}

// Request serializes a hosted payment request. Query parameters: amount,
// currency, and optionally type (sale, auth or verify), customer_id and
// product_id.
func (h *HostedPaymentHandler) Request(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	amount, err := decimal.NewFromString(query.Get("amount"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	card := payment.NewCreditCardData()
	var builder *payment.AuthorizationBuilder
	switch strings.ToLower(query.Get("type")) {
	case "", "sale":
		builder = card.Charge(amount)
	case "auth":
		builder = card.Authorize(amount)
	case "verify":
		builder = card.Verify().WithAmount(amount)
	default:
		utils.SendErrorResponse(w, http.StatusBadRequest, "Unknown transaction type")
		return
	}

	orderID := utils.GenerateOrderID()
	builder.WithServices(h.container).
		WithCurrency(query.Get("currency")).
		WithOrderID(orderID)
	if v := query.Get("customer_id"); v != "" {
		builder.WithCustomerID(v)
	}
	if v := query.Get("product_id"); v != "" {
		builder.WithProductID(v)
	}

	body, err := builder.Serialize(h.configName)
	if err != nil {
		h.sendError(w, err)
		return
	}

	session, err := h.store.Get(r, sessionName)
	if err != nil {
		h.logger.Warn("discarding unreadable session", slog.Any("err", err))
	}
	session.Values[sessionOrderKey] = orderID
	if err := session.Save(r, w); err != nil {
		h.logger.Error("error saving session", slog.Any("err", err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Could not store session")
		return
	}

	h.logger.Info("hosted request issued", slog.String("order_id", orderID))
	utils.SendRawJSON(w, body)
}

// Response verifies the page's post-back. It accepts either an hppResponse
// form field or the raw JSON document as the body.
func (h *HostedPaymentHandler) Response(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPostBackSize)

	var raw []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		raw = []byte(r.PostFormValue("hppResponse"))
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		raw = body
	}
	if len(raw) == 0 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Missing hosted payment response")
		return
	}

	tx, err := h.hosted.ParseResponse(raw)
	if err != nil {
		h.sendError(w, err)
		return
	}

	session, err := h.store.Get(r, sessionName)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Session expired")
		return
	}
	pending, _ := session.Values[sessionOrderKey].(string)
	if pending == "" || pending != tx.OrderID() {
		h.logger.Warn("post-back for unknown order",
			slog.String("order_id", tx.OrderID()),
			slog.String("pending", pending))
		utils.SendErrorResponse(w, http.StatusConflict, "Order does not match the pending payment")
		return
	}

	delete(session.Values, sessionOrderKey)
	if err := session.Save(r, w); err != nil {
		h.logger.Error("error saving session", slog.Any("err", err))
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   hosted.Result(tx),
	})
}

func (h *HostedPaymentHandler) sendError(w http.ResponseWriter, err error) {
	var (
		builderErr     *models.BuilderError
		apiErr         *models.ApiError
		configErr      *models.ConfigurationError
		unsupportedErr *models.UnsupportedTransactionError
	)
	switch {
	case errors.As(err, &builderErr), errors.As(err, &unsupportedErr), errors.As(err, &apiErr):
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &configErr):
		h.logger.Error("hosted payments misconfigured", slog.Any("err", err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Hosted payments are not configured")
	default:
		h.logger.Error("hosted payment failed", slog.Any("err", err))
		utils.SendErrorResponse(w, http.StatusBadGateway, "Payment gateway error")
	}
}
