package worldpay

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
)

// Callback field names.
const (
	ParamMsgType     = "msgType"
	ParamCallbackPW  = "callbackPW"
	ParamTransStatus = "transStatus"
	ParamAuthAmount  = "authAmount"
	ParamTransID     = "transId"
	ParamAuthMode    = "authMode"

	msgTypeAuthResult = "authResult"
	transStatusOK     = "Y"
)

// CallbackProcessor validates payment response callbacks for one installation.
type CallbackProcessor struct {
	settings Settings
	logger   *zap.Logger
	newID    func() string
}

// NewCallbackProcessor creates a CallbackProcessor. A nil logger discards output.
func NewCallbackProcessor(s Settings, logger *zap.Logger) *CallbackProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallbackProcessor{
		settings: s,
		logger:   logger,
		newID:    func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

// Process runs the callback through its checks in order: message type,
// response password, transaction status, then the authorization fields.
// Notifications that are not authorization results, or that fail the password
// check, leave the order untouched and return no error.
func (p *CallbackProcessor) Process(order adapter.Order, req adapter.CallbackRequest) (adapter.CallbackResult, error) {
	log := p.logger.With(zap.String("order_number", order.OrderNumber))
	if p.settings.VerboseLogging {
		log.Info("Worldpay callback received",
			zap.String("query", dumpValues(req.Query)),
			zap.String("form", dumpValues(req.Form)))
	}

	if req.QueryValue(ParamMsgType) != msgTypeAuthResult {
		p.verbose(log, "Worldpay callback ignored", zap.String("msg_type", req.QueryValue(ParamMsgType)))
		return adapter.CallbackResult{State: adapter.StateIgnored}, nil
	}

	if p.settings.ResponsePassword != "" && !passwordsMatch(req.FormValue(ParamCallbackPW), p.settings.ResponsePassword) {
		log.Warn("Worldpay callback password mismatch")
		return adapter.CallbackResult{State: adapter.StatePasswordMismatch}, nil
	}
	p.verbose(log, "Worldpay callback password checked")

	if status := req.FormValue(ParamTransStatus); status != transStatusOK {
		info := &adapter.TransactionInfo{
			AmountAuthorized: decimal.Zero,
			TransactionFee:   decimal.Zero,
			TransactionID:    p.newID(),
			PaymentStatus:    adapter.PaymentStatusError,
		}
		log.Info("Worldpay payment not authorized",
			zap.String("trans_status", status),
			zap.String("transaction_id", info.TransactionID))
		return adapter.CallbackResult{State: adapter.StateDeclined, TransactionInfo: info}, nil
	}
	p.verbose(log, "Worldpay callback status parsed", zap.String("trans_status", transStatusOK))

	info, err := parseOutcome(req)
	if err != nil {
		log.Error("Worldpay callback malformed",
			zap.Error(err),
			zap.String("form", dumpValues(req.Form)))
		return adapter.CallbackResult{}, err
	}

	log.Info("Worldpay payment completed",
		zap.String("transaction_id", info.TransactionID),
		zap.String("payment_status", string(info.PaymentStatus)),
		zap.String("amount_authorized", info.AmountAuthorized.String()))
	return adapter.CallbackResult{State: adapter.StateCompleted, TransactionInfo: info}, nil
}

func parseOutcome(req adapter.CallbackRequest) (*adapter.TransactionInfo, error) {
	rawAmount := req.FormValue(ParamAuthAmount)
	if rawAmount == "" {
		return nil, fmt.Errorf("worldpay: callback is missing %s: %w", ParamAuthAmount, adapter.ErrProtocol)
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("worldpay: malformed %s %q: %v: %w", ParamAuthAmount, rawAmount, err, adapter.ErrProtocol)
	}

	transID := req.FormValue(ParamTransID)
	if transID == "" {
		return nil, fmt.Errorf("worldpay: callback is missing %s: %w", ParamTransID, adapter.ErrProtocol)
	}

	status, err := statusForAuthMode(req.FormValue(ParamAuthMode))
	if err != nil {
		return nil, err
	}

	return &adapter.TransactionInfo{
		AmountAuthorized: amount,
		TransactionFee:   decimal.Zero,
		TransactionID:    transID,
		PaymentStatus:    status,
	}, nil
}

// plainDecimal is an invariant-culture number: optional sign, digits, a dot
// separator, no grouping and no exponent.
var plainDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// parseAmount reads an authorized amount. Surrounding whitespace is allowed.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if !plainDecimal.MatchString(s) {
		return decimal.Zero, errors.New("not a plain decimal")
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "+"), ".")
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, "-.") {
		s = strings.Replace(s, ".", "0.", 1)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, errors.New("negative amount")
	}
	return amount, nil
}

// statusForAuthMode maps the echoed auth mode to a payment status. A full
// authorization settles without further action, so it is Captured; a
// pre-authorization still awaits capture and is Authorized.
func statusForAuthMode(mode string) (adapter.PaymentStatus, error) {
	switch mode {
	case AuthModeFull:
		return adapter.PaymentStatusCaptured, nil
	case AuthModePre:
		return adapter.PaymentStatusAuthorized, nil
	case "":
		return "", fmt.Errorf("worldpay: callback is missing %s: %w", ParamAuthMode, adapter.ErrProtocol)
	default:
		return "", fmt.Errorf("worldpay: unknown %s %q: %w", ParamAuthMode, mode, adapter.ErrProtocol)
	}
}

func passwordsMatch(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func (p *CallbackProcessor) verbose(log *zap.Logger, msg string, fields ...zap.Field) {
	if p.settings.VerboseLogging {
		log.Info(msg, fields...)
	}
}

// dumpValues renders values as {k=v,...} with keys sorted and the callback
// password masked.
func dumpValues(v url.Values) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		val := v.Get(k)
		if k == ParamCallbackPW {
			val = redacted
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(val)
	}
	sb.WriteByte('}')
	return sb.String()
}
