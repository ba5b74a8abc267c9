package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsedge/internal/anomaly"
	"github.com/yourusername/oddsedge/internal/classifier"
	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/devig"
	"github.com/yourusername/oddsedge/internal/errordetect"
	"github.com/yourusername/oddsedge/internal/ev"
	"github.com/yourusername/oddsedge/internal/logger"
	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/quality"
)

// historyWindow bounds how far back the evaluator pulls prior captures
const historyWindow = 24 * time.Hour

// HistoryProvider supplies prior captures of a quote's market
type HistoryProvider interface {
	GetHistory(ctx context.Context, quote *models.OddsQuote, start, end time.Time) ([]*models.OddsQuote, error)
}

// Report summarises one evaluation pass over a quote batch
type Report struct {
	RunID            string
	QuotesScanned    int
	AnomaliesFlagged int
	ErrorsFlagged    int
	Arbitrages       int
	Picks            []*models.Pick
	Duration         time.Duration
}

// Evaluator runs the full pipeline: anomaly detection, error detection,
// fair-value estimation, EV computation, quality filtering and classification
type Evaluator struct {
	cfg         *config.Config
	estimator   *Estimator
	errors      *errordetect.Detector
	quality     *quality.Filter
	history     HistoryProvider
	devigMethod devig.Method
	log         *logrus.Logger
	engineLog   *logger.EngineLogger
	auditLog    *logger.AuditLogger
	now         func() time.Time
}

// NewEvaluator creates an evaluator. The history provider may be nil, in
// which case stability and historical error checks run without prior captures.
func NewEvaluator(cfg *config.Config, estimator *Estimator, history HistoryProvider, log *logrus.Logger) *Evaluator {
	if log == nil {
		log = logrus.New()
	}
	return &Evaluator{
		cfg:       cfg,
		estimator: estimator,
		errors:    errordetect.NewDetector(log),
		quality: quality.NewFilter(
			quality.WithMinBookmakers(cfg.Quality.MinBookmakers),
			quality.WithMinScore(cfg.Quality.MinScore),
			quality.WithVolumeFloor(cfg.Quality.VolumeFloor),
		),
		history:     history,
		devigMethod: devig.Method(cfg.Engine.DevigMethod),
		log:         log,
		engineLog:   logger.NewEngineLogger(log),
		auditLog:    logger.NewAuditLogger(log),
		now:         time.Now,
	}
}

// EvaluateBatch runs the pipeline over one batch of quotes and returns the
// classified picks alongside run statistics
func (e *Evaluator) EvaluateBatch(ctx context.Context, batch []*models.OddsQuote) (*Report, error) {
	start := e.now()
	report := &Report{
		RunID:         uuid.NewString(),
		QuotesScanned: len(batch),
	}

	groups := models.GroupQuotes(batch)
	anomalies := e.detectAnomalies(groups)
	report.AnomaliesFlagged = len(anomalies)

	arbQuotes := e.detectArbitrage(groups)
	report.Arbitrages = len(arbQuotes)

	snapshots := partitionByEvent(batch)

	for _, quote := range batch {
		if quote == nil || quote.Validate() != nil {
			continue
		}

		pick := e.evaluateQuote(ctx, quote, snapshots[quote.EventID], anomalies, arbQuotes)
		if pick == nil {
			continue
		}
		if pick.Type == models.PickTypeError {
			report.ErrorsFlagged++
		}
		report.Picks = append(report.Picks, pick)
	}

	report.Duration = e.now().Sub(start)

	metrics.RecordEvaluationRun(report.Duration.Seconds(), report.QuotesScanned)
	e.engineLog.LogEvaluationRun(
		report.RunID,
		report.QuotesScanned,
		report.AnomaliesFlagged,
		report.ErrorsFlagged,
		len(report.Picks),
		float64(report.Duration.Milliseconds()),
	)

	return report, nil
}

// evaluateQuote runs the per-quote signal fusion and returns a pick when the
// classification qualifies
func (e *Evaluator) evaluateQuote(ctx context.Context, quote *models.OddsQuote, snapshot []*models.OddsQuote, anomalies map[*models.OddsQuote]float64, arbQuotes map[*models.OddsQuote]bool) *models.Pick {
	historical := e.loadHistory(ctx, quote)

	verdict := e.errors.Detect(quote, snapshot, historical)
	if verdict.IsError {
		metrics.RecordErrorFlagged()
		e.auditLog.LogErrorAlert(
			quote.EventID.String(), quote.Bookmaker, string(quote.Market),
			string(verdict.ErrorType), string(verdict.Action),
			verdict.Confidence, verdict.ActualOdds, verdict.ExpectedOdds,
		)
	}

	signals := classifier.Signals{
		QualityScore:    1.0,
		IsArbitrage:     arbQuotes[quote],
		IsError:         verdict.IsError,
		ErrorConfidence: verdict.Confidence,
	}

	if z, ok := anomalies[quote]; ok {
		signals.ZScore = &z
	}

	// EV floors come from the league table, falling back to the engine config
	floors := ev.Floors{
		MinEV:        config.EVThreshold(quote.Sport, quote.League, string(quote.Market), e.cfg.Engine.MinEV),
		MinEdge:      e.cfg.Engine.MinEdge,
		MinModelProb: e.cfg.Engine.MinModelProbability,
	}

	var evResult models.EVResult
	estimate, err := e.estimator.Estimate(ctx, quote)
	if err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"event":  quote.Event(),
			"market": quote.Market,
		}).Debug("No fair-value estimate for quote")
	} else {
		// Margin removal runs on the bookmaker's own outcome set; cross-book
		// price disagreement is the anomaly detector's concern
		evResult = ev.WithDevig(quote, bookmakerMarket(snapshot, quote), estimate.Probability, e.devigMethod)
		if ev.ShouldBet(evResult, floors) {
			signals.EV = &evResult.EV
		} else if evResult.EV > 0 {
			e.log.WithFields(logrus.Fields{
				"event":  quote.Event(),
				"league": quote.League,
				"ev":     evResult.EV,
				"ev_min": floors.MinEV,
			}).Debug("EV signal below betting floors")
		}
		signals.ModelConfidence = dataQualityWeight(estimate.DataQuality)
	}

	score := e.quality.Evaluate(quote, snapshot, historical)
	signals.QualityScore = score.Score

	classification := classifier.ClassifyWith(signals, classifier.Thresholds{
		MinEV:           floors.MinEV,
		ErrorConfidence: e.cfg.Engine.ErrorReportThreshold,
	})
	if !classification.Qualifies() {
		if classification.Type != models.PickTypeNone && score.Score > 0 {
			e.auditLog.LogPickSuppressed(
				quote.EventID.String(), string(quote.Market), string(quote.Selection),
				classification.Description, score.Score,
			)
		}
		return nil
	}

	if arbQuotes[quote] {
		metrics.RecordArbitrageDetected()
	}

	// The classification's fraction is a ceiling; the model's quarter-Kelly
	// sizes within it when an estimate exists
	kelly := classification.KellyFraction
	if modelKelly := ev.Kelly(estimate.Probability, quote.Odds); modelKelly > 0 && modelKelly < kelly {
		kelly = modelKelly
	}

	pick := &models.Pick{
		ID:            uuid.New(),
		EventID:       quote.EventID,
		Sport:         quote.Sport,
		League:        quote.League,
		Market:        quote.Market,
		Line:          quote.Line,
		Selection:     quote.Selection,
		Bookmaker:     quote.Bookmaker,
		Odds:          quote.Odds,
		Type:          classification.Type,
		Priority:      classification.Priority,
		Action:        classification.Action,
		Confidence:    classification.Confidence,
		EV:            evResult.EV,
		QualityScore:  score.Score,
		KellyFraction: kelly,
		Reasoning:     classification.Reasoning,
		Status:        models.PickStatusOpen,
		CreatedAt:     e.now(),
	}
	if signals.ZScore != nil {
		pick.ZScore = *signals.ZScore
	}

	metrics.RecordPickEmitted(string(pick.Sport), string(pick.Type), string(pick.Action), pick.Confidence, pick.EV)
	e.engineLog.LogQuoteDecision(
		pick.EventID.String(), pick.Bookmaker, string(pick.Market),
		string(pick.Type), string(pick.Action),
		pick.Confidence, pick.EV, pick.ZScore, pick.Odds,
	)

	return pick
}

// detectAnomalies runs per-group z-score detection using each sport's
// configured threshold and each league's coverage floor
func (e *Evaluator) detectAnomalies(groups map[models.MarketKey]*models.MarketGroup) map[*models.OddsQuote]float64 {
	hits := make(map[*models.OddsQuote]float64)
	for _, group := range groups {
		if len(group.Quotes) == 0 {
			continue
		}
		sample := group.Quotes[0]
		detector := anomaly.NewDetector(
			config.AnomalyThreshold(sample.Sport),
			config.MinBookmakers(sample.League),
			e.log,
		)
		for _, hit := range detector.DetectGroup(group) {
			hits[hit.Quote] = hit.ZScore
			metrics.RecordAnomalyFlagged()
		}
	}
	return hits
}

// detectArbitrage finds market groups whose best opposite prices imply a
// combined probability below one, and flags the quotes at those prices
func (e *Evaluator) detectArbitrage(groups map[models.MarketKey]*models.MarketGroup) map[*models.OddsQuote]bool {
	flagged := make(map[*models.OddsQuote]bool)

	// Pair each group with its complement and keep the best price per side
	for key, group := range groups {
		oppKey := key
		oppKey.Selection = key.Selection.Opposite()
		if oppKey.Selection == key.Selection {
			continue
		}
		// Spread sides are quoted at mirrored lines
		if key.Market == models.MarketSpread && key.HasLine {
			oppKey.Line = -key.Line
		}
		opposite, ok := groups[oppKey]
		if !ok {
			continue
		}
		// Process each two-way pair once
		if key.Selection > oppKey.Selection {
			continue
		}

		best := bestQuote(group.Quotes)
		oppBest := bestQuote(opposite.Quotes)
		if best == nil || oppBest == nil {
			continue
		}

		impliedSum := 1.0/best.Odds + 1.0/oppBest.Odds
		if impliedSum < 1.0 {
			flagged[best] = true
			flagged[oppBest] = true
			e.engineLog.LogArbitrage(
				best.EventID.String(), string(best.Market), impliedSum,
				[]string{best.Bookmaker, oppBest.Bookmaker},
			)
		}
	}

	return flagged
}

func (e *Evaluator) loadHistory(ctx context.Context, quote *models.OddsQuote) []*models.OddsQuote {
	if e.history == nil {
		return nil
	}
	end := e.now()
	historical, err := e.history.GetHistory(ctx, quote, end.Add(-historyWindow), end)
	if err != nil {
		e.log.WithError(err).Debug("Failed to load quote history")
		return nil
	}
	return historical
}

// bookmakerMarket returns the candidate bookmaker's quotes for the same
// market and line across all selections
func bookmakerMarket(snapshot []*models.OddsQuote, quote *models.OddsQuote) []*models.OddsQuote {
	var market []*models.OddsQuote
	for _, q := range snapshot {
		if q != nil && q.Bookmaker == quote.Bookmaker && q.SameMarketLine(quote) {
			market = append(market, q)
		}
	}
	return market
}

func bestQuote(quotes []*models.OddsQuote) *models.OddsQuote {
	var best *models.OddsQuote
	for _, q := range quotes {
		if q.Odds <= 1.0 {
			continue
		}
		if best == nil || q.Odds > best.Odds {
			best = q
		}
	}
	return best
}

func partitionByEvent(batch []*models.OddsQuote) map[uuid.UUID][]*models.OddsQuote {
	snapshots := make(map[uuid.UUID][]*models.OddsQuote)
	for _, q := range batch {
		if q == nil {
			continue
		}
		snapshots[q.EventID] = append(snapshots[q.EventID], q)
	}
	return snapshots
}

func dataQualityWeight(dq models.DataQuality) float64 {
	switch dq {
	case models.DataQualityHigh:
		return 1.0
	case models.DataQualityMedium:
		return 0.8
	case models.DataQualityLow:
		return 0.6
	}
	return 0.4
}
