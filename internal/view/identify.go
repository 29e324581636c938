package view

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
	"github.com/haneulgyeol/cloud-atlas/internal/observability"
)

// PanelState is the lifecycle stage of the identify panel.
type PanelState string

const (
	StateIdle     PanelState = "idle"
	StateLoading  PanelState = "loading"
	StateResult   PanelState = "result"
	StateFailed   PanelState = "failed"
	StateRejected PanelState = "rejected"
)

// User-facing panel messages.
const (
	MsgLoading     = "AI가 구름을 분석중입니다..."
	MsgNotImage    = "이미지 파일만 업로드 가능합니다."
	MsgEmptyUpload = "빈 파일은 분석할 수 없습니다."
	MsgFailed      = "구름 분석에 실패했습니다. 잠시 후 다시 시도해 주세요."
	MsgTimeout     = "분석 시간이 초과되었습니다."
	MsgReupload    = "다른 사진을 다시 업로드해 주세요."
)

// ErrSuperseded is returned by Classify when a newer upload replaced the request.
var ErrSuperseded = errors.New("upload superseded by a newer one")

// IdentifyPanel holds the classification state of one browser session. Only the
// most recent upload may change the displayed result.
type IdentifyPanel struct {
	classifier domain.Classifier
	maxBytes   int64
	metrics    *observability.Metrics
	logger     *slog.Logger

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	state    PanelState
	filename string
	result   domain.ClassifyResult
	err      string
}

// NewIdentifyPanel creates an idle panel.
func NewIdentifyPanel(classifier domain.Classifier, maxBytes int64, metrics *observability.Metrics, logger *slog.Logger) *IdentifyPanel {
	return &IdentifyPanel{
		classifier: classifier,
		maxBytes:   maxBytes,
		metrics:    metrics,
		logger:     logger,
		state:      StateIdle,
	}
}

// Ticket identifies one submitted upload. Done is closed once the request has
// finished, whether its result was applied or discarded.
type Ticket struct {
	Token uint64
	Done  <-chan struct{}
}

// Submit validates u and starts classifying it in the background. Invalid uploads
// are rejected synchronously without contacting the classifier. Any request still
// in flight is cancelled and its completion will be ignored.
func (p *IdentifyPanel) Submit(ctx context.Context, u domain.Upload) Ticket {
	done := make(chan struct{})

	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	token := p.seq
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.filename = u.Filename
	p.result = domain.ClassifyResult{}
	p.err = ""

	if err := domain.ValidateUpload(u, p.maxBytes); err != nil {
		p.state = StateRejected
		p.err = p.rejectionMessage(err)
		p.metrics.ClassifyRequests.WithLabelValues("rejected").Inc()
		p.logger.Debug("upload rejected", "filename", u.Filename, "error", err)
		close(done)
		return Ticket{Token: token, Done: done}
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state = StateLoading

	go func() {
		defer close(done)
		defer cancel()
		res, err := p.classifier.Classify(runCtx, u)
		p.complete(token, res, err)
	}()
	return Ticket{Token: token, Done: done}
}

// Classify submits u and waits for its outcome. It returns ErrSuperseded when a
// newer upload took over before this one finished.
func (p *IdentifyPanel) Classify(ctx context.Context, u domain.Upload) (Snapshot, error) {
	t := p.Submit(ctx, u)
	select {
	case <-t.Done:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	snap := p.Snapshot()
	if snap.Token != t.Token {
		return snap, ErrSuperseded
	}
	return snap, nil
}

func (p *IdentifyPanel) complete(token uint64, res domain.ClassifyResult, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.seq {
		p.metrics.ClassifySuperseded.Inc()
		p.logger.Debug("discarding superseded classification", "token", token, "latest", p.seq)
		return
	}
	p.cancel = nil
	if err != nil {
		p.state = StateFailed
		p.err = failureMessage(err)
		p.metrics.ClassifyRequests.WithLabelValues("error").Inc()
		p.logger.Warn("classification failed", "filename", p.filename, "error", err)
		return
	}
	p.state = StateResult
	p.result = res
	p.metrics.ClassifyRequests.WithLabelValues("success").Inc()
}

func (p *IdentifyPanel) rejectionMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotImage):
		return MsgNotImage
	case errors.Is(err, domain.ErrEmptyUpload):
		return MsgEmptyUpload
	case errors.Is(err, domain.ErrUploadTooLarge):
		return "파일이 너무 큽니다 (최대 " + humanize.Bytes(uint64(p.maxBytes)) + ")."
	default:
		return MsgFailed
	}
}

func failureMessage(err error) string {
	var sm interface{ ServerMessage() string }
	if errors.As(err, &sm) && strings.TrimSpace(sm.ServerMessage()) != "" {
		return sm.ServerMessage()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}
	return MsgFailed
}

// PredictionView is one ranked prediction as displayed.
type PredictionView struct {
	Rank        int     `json:"rank"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Percent     string  `json:"percent"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description,omitempty"`
	AtlasPath   string  `json:"atlas_path"`
}

// Snapshot is an immutable copy of the panel for rendering.
type Snapshot struct {
	Token           uint64           `json:"token"`
	State           PanelState       `json:"state"`
	Loading         bool             `json:"loading"`
	Filename        string           `json:"filename,omitempty"`
	Top             *PredictionView  `json:"top,omitempty"`
	Others          []PredictionView `json:"others,omitempty"`
	ConfidenceLevel string           `json:"confidence_level,omitempty"`
	ConfidenceText  string           `json:"confidence_text,omitempty"`
	Tips            []string         `json:"tips,omitempty"`
	Error           string           `json:"error,omitempty"`
	Guidance        string           `json:"guidance,omitempty"`
}

// Snapshot returns the current state.
func (p *IdentifyPanel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		Token:    p.seq,
		State:    p.state,
		Loading:  p.state == StateLoading,
		Filename: p.filename,
	}
	switch p.state {
	case StateFailed:
		s.Error = p.err
		s.Guidance = MsgReupload
	case StateRejected:
		s.Error = p.err
	case StateResult:
		for i, pr := range p.result.Predictions {
			pv := PredictionView{
				Rank:        i + 1,
				Code:        pr.Code,
				Name:        pr.DisplayName(),
				Percent:     pr.Percent(),
				Confidence:  pr.Confidence,
				Description: pr.Description,
				AtlasPath:   "/atlas/" + strings.ToLower(pr.Code),
			}
			if i == 0 {
				s.Top = &pv
				continue
			}
			s.Others = append(s.Others, pv)
		}
		s.ConfidenceLevel = p.result.ConfidenceLevel
		s.ConfidenceText = p.result.ConfidenceText
		if p.result.ConfidenceLevel == domain.ConfidenceLow {
			s.Tips = append([]string(nil), p.result.Tips...)
		}
	}
	return s
}
