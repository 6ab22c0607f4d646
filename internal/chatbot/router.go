package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ia-papeleria/internal/ai"
	"ia-papeleria/internal/model"
	"ia-papeleria/internal/repository"
	"ia-papeleria/internal/service"
	"ia-papeleria/internal/transcript"
	"ia-papeleria/pkg/textnorm"

	"github.com/rs/zerolog/log"
)

// ErrStoreUnavailable marks a reply degraded because the catalog could not be read or written.
var ErrStoreUnavailable = errors.New("catalog store unavailable")

const (
	availabilityMaxTokens = 200
	fallbackMaxTokens     = 400
	recentSalesInContext  = 5
	historyTurns          = 6
)

// Asker is the AI gateway as seen by the router.
type Asker interface {
	Ask(ctx context.Context, question, storeContext string, maxTokens int) ai.Answer
}

type Inbound struct {
	Message string `json:"message" validate:"required,max=2000"`
	Sender  string `json:"sender" validate:"max=128"`
}

type Outcome struct {
	Intent Intent `json:"intent"`
	Reply  string `json:"response"`
}

type Deps struct {
	Store      repository.CatalogStore
	Matcher    *service.ProductMatcher
	Sales      service.SalesService
	Forecast   service.ForecastService
	AI         Asker
	Transcript transcript.Store // optional
}

type rule struct {
	intent Intent
	match  func(msg string) bool
	handle func(ctx context.Context, t *turn) (string, error)
}

// turn carries one message through the rules; the catalog loads lazily.
type turn struct {
	in      Inbound
	msg     string
	catalog []model.Product
	loaded  bool
}

type Router struct {
	Deps
	rules        []rule
	forecastDays int
}

func NewRouter(deps Deps) *Router {
	if deps.Matcher == nil {
		deps.Matcher = service.NewProductMatcher()
	}
	r := &Router{Deps: deps, forecastDays: model.DefaultForecastDays}
	r.rules = r.buildRules()
	return r
}

// buildRules returns the rules in priority order. The first match wins,
// so order settles overlaps ("hola, tienen cuadernos?" is a greeting).
func (r *Router) buildRules() []rule {
	return []rule{
		{IntentGreeting, triggeredBy(greetingTriggers), fixed(replyGreeting)},
		{IntentHelp, triggeredBy(helpTriggers), fixed(replyHelp)},
		{IntentHours, triggeredBy(hoursTriggers), fixed(replyHours)},
		{IntentLocation, triggeredBy(locationTriggers), fixed(replyLocation)},
		{IntentAvailability, triggeredBy(availabilityTriggers), r.handleAvailability},
		{IntentStockQuery, triggeredBy(stockTriggers), r.handleStock},
		{IntentRecordSale, triggeredBy(saleTriggers), r.handleSale},
		{IntentForecast, triggeredBy(forecastTriggers), r.handleForecast},
		{IntentSalesSummary, func(m string) bool {
			return strings.Contains(m, "venta") && strings.Contains(m, "hoy")
		}, r.handleSummary},
	}
}

// Classify reports which intent a message would route to, without side effects.
func (r *Router) Classify(message string) Intent {
	msg := textnorm.Fold(message)
	if msg == "" {
		return IntentUnhandled
	}
	for _, rl := range r.rules {
		if rl.match(msg) {
			return rl.intent
		}
	}
	return IntentFallbackAI
}

// Route answers one inbound message. The reply is never empty. A non-nil
// error means the catalog store failed; the reply is still safe to send.
func (r *Router) Route(ctx context.Context, in Inbound) (out Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("sender", in.Sender).Msg("Router panicked")
			out = Outcome{Intent: IntentUnhandled, Reply: replyInternal}
			err = nil
		}
	}()

	t := &turn{in: in, msg: textnorm.Fold(in.Message)}
	if t.msg == "" {
		return Outcome{Intent: IntentUnhandled, Reply: replyEmpty}, nil
	}

	out, err = r.dispatch(ctx, t)
	if err != nil {
		log.Error().Err(err).Str("intent", string(out.Intent)).Msg("Catalog store failure")
		out.Reply = replyStoreDown
		return out, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if strings.TrimSpace(out.Reply) == "" {
		out.Reply = replyInternal
	}

	r.remember(ctx, in, out.Reply)
	log.Info().Str("sender", in.Sender).Str("intent", string(out.Intent)).Msg("Message routed")
	return out, nil
}

func (r *Router) dispatch(ctx context.Context, t *turn) (Outcome, error) {
	for _, rl := range r.rules {
		if !rl.match(t.msg) {
			continue
		}
		reply, err := rl.handle(ctx, t)
		return Outcome{Intent: rl.intent, Reply: reply}, err
	}
	reply, err := r.handleFallback(ctx, t)
	return Outcome{Intent: IntentFallbackAI, Reply: reply}, err
}

func (r *Router) remember(ctx context.Context, in Inbound, reply string) {
	if r.Transcript == nil || in.Sender == "" {
		return
	}
	now := time.Now().UTC()
	err := r.Transcript.Append(ctx, in.Sender,
		transcript.Entry{Role: transcript.RoleUser, Text: in.Message, At: now},
		transcript.Entry{Role: transcript.RoleBot, Text: reply, At: now},
	)
	if err != nil {
		log.Warn().Err(err).Str("sender", in.Sender).Msg("Failed to store transcript")
	}
}

func (r *Router) catalog(ctx context.Context, t *turn) ([]model.Product, error) {
	if t.loaded {
		return t.catalog, nil
	}
	products, err := r.Store.ListProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	t.catalog, t.loaded = products, true
	return products, nil
}

func (r *Router) handleAvailability(ctx context.Context, t *turn) (string, error) {
	catalog, err := r.catalog(ctx, t)
	if err != nil {
		return "", err
	}
	if found := r.Matcher.Resolve(t.msg, catalog); len(found) > 0 {
		return availabilityReply(found[0]), nil
	}

	question := fmt.Sprintf("Usuario pregunta: '%s'. Basándote en nuestro catálogo, ¿tenemos este producto?", t.in.Message)
	ans := r.AI.Ask(ctx, question, availabilityContext(catalog), availabilityMaxTokens)
	switch ans.Failure {
	case ai.FailureNone:
		return aiAvailabilityReply(ans.Text), nil
	case ai.FailureNoProvider:
		return replyAvailabilityUnknown, nil
	default:
		return ans.Text, nil
	}
}

func (r *Router) handleStock(ctx context.Context, t *turn) (string, error) {
	if textnorm.ContainsAny(t.msg, lowStockTriggers...) {
		low, err := r.Store.ListProducts(ctx, repository.ProductFilter{LowStock: true})
		if err != nil {
			return "", err
		}
		return lowStockReply(low), nil
	}

	catalog, err := r.catalog(ctx, t)
	if err != nil {
		return "", err
	}
	if p, ok := r.Matcher.ByWord(t.msg, catalog); ok {
		return stockReply(p), nil
	}
	return replyStockAsk, nil
}

func (r *Router) handleSale(ctx context.Context, t *turn) (string, error) {
	catalog, err := r.catalog(ctx, t)
	if err != nil {
		return "", err
	}

	receipt, err := r.Sales.RecordSale(ctx, t.in.Message, t.in.Sender, catalog)
	if err == nil {
		return saleReply(receipt), nil
	}

	var (
		stockErr  *model.StockError
		lookupErr *service.ProductLookupError
	)
	switch {
	case errors.Is(err, model.ErrMalformedSaleCommand):
		return replySaleFormat, nil
	case errors.As(err, &stockErr):
		return insufficientStockReply(stockErr), nil
	case errors.As(err, &lookupErr):
		return productNotFoundReply(lookupErr.Fragment), nil
	case errors.Is(err, model.ErrProductNotFound):
		_, fragment, _ := service.ParseSaleCommand(t.in.Message)
		return productNotFoundReply(fragment), nil
	default:
		return "", err
	}
}

func (r *Router) handleForecast(ctx context.Context, t *turn) (string, error) {
	if textnorm.ContainsAny(t.msg, alertTriggers...) {
		alerts, err := r.Forecast.DemandAlerts(ctx, r.forecastDays)
		if err != nil {
			return "", err
		}
		return alertsReply(alerts), nil
	}

	catalog, err := r.catalog(ctx, t)
	if err != nil {
		return "", err
	}
	p, ok := r.Matcher.ByWord(t.msg, catalog)
	if !ok {
		return replyForecastAsk, nil
	}
	res, err := r.Forecast.PredictDemand(ctx, p.ID, r.forecastDays)
	if errors.Is(err, model.ErrProductNotFound) {
		return replyForecastAsk, nil
	}
	if err != nil {
		return "", err
	}
	return forecastReply(p, res), nil
}

func (r *Router) handleSummary(ctx context.Context, _ *turn) (string, error) {
	sum, err := r.Sales.TodaySummary(ctx)
	if err != nil {
		return "", err
	}
	return summaryReply(sum), nil
}

func (r *Router) handleFallback(ctx context.Context, t *turn) (string, error) {
	catalog, err := r.catalog(ctx, t)
	if err != nil {
		return "", err
	}
	recent, err := r.Store.ListSales(ctx, repository.SaleFilter{Newest: true, Limit: recentSalesInContext})
	if err != nil {
		return "", err
	}
	today, err := r.Sales.TodaySummary(ctx)
	if err != nil {
		return "", err
	}

	snap := storeSnapshot{catalog: catalog, recent: recent, today: today}
	if r.Transcript != nil && t.in.Sender != "" {
		history, err := r.Transcript.Recent(ctx, t.in.Sender, historyTurns)
		if err != nil {
			log.Warn().Err(err).Str("sender", t.in.Sender).Msg("Failed to read transcript")
		}
		snap.history = history
	}

	question := fmt.Sprintf("Pregunta del cliente: '%s'", t.in.Message)
	ans := r.AI.Ask(ctx, question, fullContext(snap), fallbackMaxTokens)
	if ans.Failure != ai.FailureNone {
		return ans.Text, nil
	}
	return aiFallbackReply(ans.Text), nil
}

func triggeredBy(words []string) func(string) bool {
	return func(msg string) bool { return textnorm.ContainsAny(msg, words...) }
}

func fixed(reply string) func(context.Context, *turn) (string, error) {
	return func(context.Context, *turn) (string, error) { return reply, nil }
}
