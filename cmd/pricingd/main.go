package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/meenmo/swapval/instruments/swaps"
	"github.com/meenmo/swapval/marketdata"
	"github.com/meenmo/swapval/swap"
	"github.com/meenmo/swapval/swap/curve"
	"github.com/meenmo/swapval/swap/market"
)

// Environment:
//
//	PRICINGD_ADDR        listen address (default :8080)
//	PRICINGD_PG_DSN      Postgres DSN for curves and fixings (optional;
//	                     in-memory store when unset)
//	PRICINGD_REDIS_ADDR  Redis address for the fixing cache (optional)

const curveCacheTTL = 5 * time.Minute

// PricingRequest is the POST /v1/fairvalue body. Discount factors come
// either inline (discount_dfs) or by reference to a stored curve snapshot
// (discount_curve_id + curve_date). Projection defaults to discount.
type PricingRequest struct {
	ValuationDate string  `json:"valuation_date"`
	SwapType      string  `json:"swap_type"` // PAYER or RECEIVER
	Nominal       float64 `json:"nominal"`
	FixedRate     float64 `json:"fixed_rate"`
	Spread        float64 `json:"spread"`
	Index         string  `json:"index"`
	EffectiveDate string  `json:"effective_date"`
	MaturityDate  string  `json:"maturity_date"`

	DiscountDFs     map[string]float64 `json:"discount_dfs,omitempty"`
	DiscountCurveID string             `json:"discount_curve_id,omitempty"`

	ProjectionDFs     map[string]float64 `json:"projection_dfs,omitempty"`
	ProjectionCurveID string             `json:"projection_curve_id,omitempty"`

	// CurveDate selects the stored snapshot; defaults to valuation_date.
	CurveDate string `json:"curve_date,omitempty"`

	Fixings map[string]float64 `json:"fixings,omitempty"`
}

// PricingResponse mirrors the fairvalue CLI output plus a request ID.
type PricingResponse struct {
	RequestID      string   `json:"request_id"`
	TotalNPV       float64  `json:"total_npv"`
	FixedLegNPV    float64  `json:"fixed_leg_npv"`
	FixedLegBPS    float64  `json:"fixed_leg_bps"`
	FloatingLegNPV float64  `json:"floating_leg_npv"`
	FloatingLegBPS float64  `json:"floating_leg_bps"`
	FairRate       *float64 `json:"fair_rate,omitempty"`
	FairSpread     *float64 `json:"fair_spread,omitempty"`
}

type errorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

type server struct {
	quotes  marketdata.QuoteStore
	fixings marketdata.FixingStore
	curves  *gocache.Cache
	logger  *log.Logger
}

func main() {
	logger := log.New(os.Stderr, "pricingd ", log.LstdFlags)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Printf("skipping .env: %v", err)
	}

	addr := os.Getenv("PRICINGD_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := newServer(ctx, logger)
	if err != nil {
		logger.Fatalf("startup: %v", err)
	}
	defer cleanup()

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("serve: %v", err)
	}
}

func newServer(ctx context.Context, logger *log.Logger) (*server, func(), error) {
	var (
		quotes   marketdata.QuoteStore
		fixings  marketdata.FixingStore
		closers  []func() error
		cleanup  = func() {}
		memStore = marketdata.NewMemoryStore()
	)
	quotes, fixings = memStore, memStore

	if dsn := os.Getenv("PRICINGD_PG_DSN"); dsn != "" {
		pg, err := marketdata.NewPostgresStore(ctx, dsn)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, pg.Close)
		quotes, fixings = pg, pg
		logger.Printf("using postgres market data store")
	}

	if redisAddr := os.Getenv("PRICINGD_REDIS_ADDR"); redisAddr != "" {
		cached, err := marketdata.NewRedisFixingCache(ctx, redisAddr, fixings, marketdata.DefaultFixingTTL)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, cached.Close)
		fixings = cached
		logger.Printf("using redis fixing cache at %s", redisAddr)
	}

	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	return &server{
		quotes:  quotes,
		fixings: fixings,
		curves:  gocache.New(curveCacheTTL, 2*curveCacheTTL),
		logger:  logger,
	}, cleanup, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/fairvalue", s.handleFairValue)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *server) handleFairValue(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)

	var req PricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	resp, err := s.price(r.Context(), requestID, req)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, marketdata.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, requestID, status, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) price(ctx context.Context, requestID string, req PricingRequest) (*PricingResponse, error) {
	valuationDate, err := parseDate("valuation_date", req.ValuationDate)
	if err != nil {
		return nil, err
	}
	effective, err := parseDate("effective_date", req.EffectiveDate)
	if err != nil {
		return nil, err
	}
	maturity, err := parseDate("maturity_date", req.MaturityDate)
	if err != nil {
		return nil, err
	}

	var swapType swap.SwapType
	switch strings.ToUpper(req.SwapType) {
	case "PAYER":
		swapType = swap.Payer
	case "RECEIVER":
		swapType = swap.Receiver
	default:
		return nil, fmt.Errorf("invalid swap_type: %q (must be PAYER or RECEIVER)", req.SwapType)
	}

	indexName := market.ReferenceIndex(strings.ToUpper(req.Index))
	preset, ok := swaps.Presets[indexName]
	if !ok {
		return nil, fmt.Errorf("unknown index: %s", req.Index)
	}

	curveDate := valuationDate
	if req.CurveDate != "" {
		if curveDate, err = parseDate("curve_date", req.CurveDate); err != nil {
			return nil, err
		}
	}

	discount, err := s.resolveCurve(ctx, valuationDate, curveDate, req.DiscountCurveID, req.DiscountDFs, "discount")
	if err != nil {
		return nil, err
	}

	projection := swap.ProjectionCurve(discount)
	if req.ProjectionCurveID != "" || len(req.ProjectionDFs) > 0 {
		projCurve, err := s.resolveCurve(ctx, valuationDate, curveDate, req.ProjectionCurveID, req.ProjectionDFs, "projection")
		if err != nil {
			return nil, err
		}
		projection = projCurve
	}

	fixingStore := s.fixings
	if len(req.Fixings) > 0 {
		// Inline fixings shadow the shared store for this request only.
		overlay := marketdata.NewMemoryStore()
		for k, v := range req.Fixings {
			d, err := parseDate("fixings", k)
			if err != nil {
				return nil, err
			}
			if err := overlay.SaveFixing(ctx, marketdata.Fixing{
				Index: indexName,
				Date:  d,
				Rate:  decimal.NewFromFloat(v),
			}); err != nil {
				return nil, err
			}
		}
		fixingStore = overlay
	}

	instrument, err := swap.NewVanillaSwap(swap.TradeParams{
		Type:          swapType,
		Nominal:       req.Nominal,
		EffectiveDate: effective,
		MaturityDate:  maturity,
		FixedLeg:      preset.FixedLeg,
		FloatLeg:      preset.FloatLeg,
		FixedRate:     req.FixedRate,
		Spread:        req.Spread,
		Discount:      discount,
		Projection:    projection,
		Fixings:       marketdata.NewFixings(ctx, fixingStore),
	})
	if err != nil {
		return nil, err
	}

	engine, err := swap.NewDiscountingSwapEngine(discount, valuationDate)
	if err != nil {
		return nil, err
	}
	if err := instrument.Calculate(engine); err != nil {
		return nil, err
	}

	return buildResponse(requestID, instrument)
}

// resolveCurve builds a curve from inline nodes, or loads a stored snapshot
// by ID with a short-lived cache in front of the quote store.
func (s *server) resolveCurve(ctx context.Context, valuationDate, curveDate time.Time, curveID string, inline map[string]float64, kind string) (swap.DiscountCurve, error) {
	if len(inline) > 0 {
		dfs := make(map[time.Time]float64, len(inline))
		for k, v := range inline {
			d, err := parseDate(kind+"_dfs", k)
			if err != nil {
				return nil, err
			}
			dfs[d] = v
		}
		return curve.NewCurveFromDFs(valuationDate, dfs), nil
	}

	if curveID == "" {
		return nil, fmt.Errorf("%s curve: provide %s_dfs or %s_curve_id", kind, kind, kind)
	}

	cacheKey := curveID + "|" + curveDate.Format("2006-01-02") + "|" + valuationDate.Format("2006-01-02")
	if cached, ok := s.curves.Get(cacheKey); ok {
		return cached.(*curve.Curve), nil
	}

	nodes, err := s.quotes.CurveNodes(ctx, curveID, curveDate)
	if err != nil {
		return nil, fmt.Errorf("load curve %s@%s: %w", curveID, curveDate.Format("2006-01-02"), err)
	}
	built := curve.NewCurveFromDFs(valuationDate, marketdata.DiscountFactors(nodes))
	s.curves.Set(cacheKey, built, gocache.DefaultExpiration)
	return built, nil
}

func buildResponse(requestID string, instrument *swap.FixedVsFloatingSwap) (*PricingResponse, error) {
	resp := &PricingResponse{RequestID: requestID}

	var err error
	if resp.TotalNPV, err = instrument.NPV(); err != nil {
		return nil, err
	}
	if resp.FixedLegNPV, err = instrument.FixedLegNPV(); err != nil {
		return nil, err
	}
	if resp.FixedLegBPS, err = instrument.FixedLegBPS(); err != nil {
		return nil, err
	}
	if resp.FloatingLegNPV, err = instrument.FloatingLegNPV(); err != nil {
		return nil, err
	}
	if resp.FloatingLegBPS, err = instrument.FloatingLegBPS(); err != nil {
		return nil, err
	}

	// Undefined fair values are omitted from the payload, not zeroed.
	if fairRate, err := instrument.FairRate(); err == nil {
		resp.FairRate = &fairRate
	}
	if fairSpread, err := instrument.FairSpread(); err == nil {
		resp.FairSpread = &fairSpread
	}
	return resp, nil
}

func (s *server) writeError(w http.ResponseWriter, requestID string, status int, err error) {
	s.logger.Printf("request %s failed: %v", requestID, err)
	writeJSON(w, status, errorResponse{RequestID: requestID, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %v", field, err)
	}
	return t, nil
}
