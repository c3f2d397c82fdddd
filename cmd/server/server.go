package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
	"github.com/yourorg/worldpay-gateway/internal/adapter/worldpay"
	custom_context "github.com/yourorg/worldpay-gateway/internal/context"
	"github.com/yourorg/worldpay-gateway/internal/dedup"
	"github.com/yourorg/worldpay-gateway/internal/events"
	"github.com/yourorg/worldpay-gateway/internal/monitor"
	"github.com/yourorg/worldpay-gateway/internal/policy"
	"github.com/yourorg/worldpay-gateway/internal/processor"
	"github.com/yourorg/worldpay-gateway/internal/telemetry"
)

// server holds the collaborators the HTTP handlers need.
type server struct {
	serviceName string
	proc        *processor.Processor
	contract    *monitor.ContractMonitor
	guard       dedup.Guard
	review      *policy.PaymentPolicyEnforcer
	publisher   events.Publisher
	logger      *zap.Logger
}

// formRequest is the JSON body accepted by the form endpoint.
type formRequest struct {
	OrderNumber string               `json:"order_number"`
	Customer    adapter.Customer     `json:"customer"`
	Properties  map[string]string    `json:"properties"`
	CountryID   string               `json:"country_id"`
	CurrencyID  string               `json:"currency_id"`
	Amount      decimal.Decimal      `json:"amount"`
	URLs        adapter.RedirectURLs `json:"urls"`
}

func (r formRequest) order() adapter.Order {
	return adapter.Order{
		OrderNumber:       r.OrderNumber,
		Customer:          r.Customer,
		Properties:        r.Properties,
		CountryID:         r.CountryID,
		CurrencyID:        r.CurrencyID,
		TransactionAmount: r.Amount,
	}
}

type callbackResponse struct {
	State           adapter.CallbackState    `json:"state"`
	TransactionInfo *adapter.TransactionInfo `json:"transaction_info,omitempty"`
	Review          *policy.PolicyDecision   `json:"review,omitempty"`
	Duplicate       bool                     `json:"duplicate,omitempty"`
}

func setupRouter(s *server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(s.serviceName))
	router.Use(telemetry.RequestLogger(s.logger))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": s.serviceName})
	})

	providers := router.Group("/providers/:alias")
	providers.GET("/settings", s.settingsSchemaHandler)
	providers.POST("/form", s.formHandler)
	providers.GET("/urls/:kind", s.urlHandler)
	providers.POST("/callback", s.callbackHandler)
	return router
}

func (s *server) settingsSchemaHandler(c *gin.Context) {
	if _, err := s.proc.Adapter(c.Param("alias")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, worldpay.SettingsSchema())
}

func (s *server) formHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	valid, violations, err := s.contract.Validate(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": monitor.FormatErrors(violations)})
		return
	}

	var req formRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	traceCtx := custom_context.FromContext(c.Request.Context())
	form, err := s.proc.GenerateForm(traceCtx, c.Param("alias"), req.order(), req.URLs)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

func (s *server) urlHandler(c *gin.Context) {
	u, err := s.proc.ResolveURL(c.Param("alias"), c.Param("kind"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": u})
}

func (s *server) callbackHandler(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid callback body: " + err.Error()})
		return
	}
	alias := c.Param("alias")
	req := adapter.CallbackRequest{Query: c.Request.URL.Query(), Form: c.Request.PostForm}
	order := orderFromCallback(req)

	traceCtx := custom_context.FromContext(c.Request.Context())
	res, err := s.proc.ProcessCallback(traceCtx, alias, order, req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	resp := callbackResponse{State: res.State, TransactionInfo: res.TransactionInfo}
	if res.TransactionInfo == nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	decision, err := s.review.Evaluate(policy.Parameters(alias, order,
		req.FormValue(worldpay.FieldCurrency), req.FormValue("authCurrency"), res))
	if err != nil {
		s.logger.Error("Review policy evaluation failed", zap.Error(err), zap.String("order_number", order.OrderNumber))
	}
	resp.Review = &decision

	ctx := c.Request.Context()
	key := dedup.Key(alias, order.OrderNumber, deliveryID(req))
	first, err := s.guard.FirstDelivery(ctx, key)
	if err != nil {
		s.logger.Warn("Duplicate check unavailable, publishing anyway", zap.Error(err))
		first = true
	}
	if !first {
		s.logger.Info("Duplicate callback delivery acknowledged", zap.String("key", key))
		resp.Duplicate = true
		c.JSON(http.StatusOK, resp)
		return
	}

	outcome := events.Outcome{
		Provider:    alias,
		OrderNumber: order.OrderNumber,
		State:       res.State,
		Transaction: *res.TransactionInfo,
		Review:      decision,
		TraceID:     traceCtx.TraceID,
		ProcessedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, outcome); err != nil {
		s.logger.Error("Publishing payment outcome failed", zap.Error(err), zap.String("order_number", order.OrderNumber))
		if ferr := s.guard.Forget(ctx, key); ferr != nil {
			s.logger.Error("Releasing duplicate key failed", zap.Error(ferr), zap.String("key", key))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "outcome could not be recorded"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// orderFromCallback rebuilds the order values Worldpay echoes back from the
// purchase token.
func orderFromCallback(req adapter.CallbackRequest) adapter.Order {
	amount, err := decimal.NewFromString(req.FormValue(worldpay.FieldAmount))
	if err != nil {
		amount = decimal.Zero
	}
	return adapter.Order{
		OrderNumber:       req.FormValue(worldpay.FieldCartID),
		CurrencyID:        req.FormValue(worldpay.FieldCurrency),
		TransactionAmount: amount,
	}
}

// deliveryID identifies a notification across gateway redeliveries. The
// gateway transaction id is used when present; otherwise (cancellations carry
// none) the id is a digest of the posted form without the response password,
// since the synthesized transaction id differs on every delivery.
func deliveryID(req adapter.CallbackRequest) string {
	if id := req.FormValue(worldpay.ParamTransID); id != "" {
		return id
	}
	keys := make([]string, 0, len(req.Form))
	for k := range req.Form {
		if k != worldpay.ParamCallbackPW {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	h := sha256.New()
	for _, k := range keys {
		for _, v := range req.Form[k] {
			fmt.Fprintf(h, "%s=%s\n", k, v)
		}
	}
	return req.FormValue(worldpay.ParamTransStatus) + "-" + hex.EncodeToString(h.Sum(nil))[:32]
}

func (s *server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, processor.ErrUnknownProvider):
		status = http.StatusNotFound
	case errors.Is(err, adapter.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, adapter.ErrProtocol):
		status = http.StatusBadRequest
	case errors.Is(err, adapter.ErrConfiguration):
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
