package insights

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/bizmanage/internal/telemetry"
	"github.com/rs/zerolog"
)

// Failure codes attached to fallback responses in logs and metrics.
const (
	CodeTransport = "AI_TRANSPORT"
	CodeFormat    = "AI_FORMAT"
)

const DefaultTimeout = 30 * time.Second

// Summarizer produces the aggregated view of one domain.
type Summarizer interface {
	Summarize(ctx context.Context, domain Domain, timespan Timespan) (Summary, error)
}

type Service struct {
	summarizer Summarizer
	completer  Completer
	log        zerolog.Logger
	timeout    time.Duration
	now        func() time.Time
}

func NewService(s Summarizer, c Completer, log zerolog.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{summarizer: s, completer: c, log: log, timeout: timeout, now: time.Now}
}

// Generate runs the insight pipeline for req. Only invalid requests and store
// errors are returned; any trouble with the model yields Fallback instead.
func (s *Service) Generate(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}
	domain := string(req.DataType)
	telemetry.RecordInsightRequest(domain)

	summary, err := s.summarizer.Summarize(ctx, req.DataType, req.Timespan)
	if err != nil {
		return Response{}, err
	}
	prompt := BuildPrompt(summary)

	log := s.log.With().
		Str("request_id", uuid.NewString()).
		Str("domain", domain).
		Str("timespan", string(req.Timespan)).
		Logger()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := s.now()
	text, err := s.completer.Complete(callCtx, prompt.System, prompt.User)
	if err != nil {
		return s.fallback(log, domain, CodeTransport, err), nil
	}
	log.Debug().Dur("elapsed", s.now().Sub(started)).Int("chars", len(text)).Msg("completion received")

	resp, err := ParseResponse(text)
	if err != nil {
		return s.fallback(log, domain, CodeFormat, err), nil
	}
	if resp.AnalysisDate == "" {
		resp.AnalysisDate = s.now().UTC().Format(time.RFC3339)
	}
	return resp, nil
}

func (s *Service) fallback(log zerolog.Logger, domain, code string, err error) Response {
	log.Error().Err(err).Str("code", code).Msg("insight generation failed, serving fallback")
	telemetry.RecordInsightFailure(domain, code)
	return Fallback(s.now())
}
