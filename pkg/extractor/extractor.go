package extractor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kotrzina/calassist/pkg/ai"
	"github.com/kotrzina/calassist/pkg/config"
	"github.com/kotrzina/calassist/pkg/event"
	"github.com/kotrzina/calassist/pkg/gcal"
	"github.com/kotrzina/calassist/pkg/prometheus"
	"github.com/kotrzina/calassist/pkg/prompt"
	"github.com/kotrzina/calassist/pkg/store"
	"github.com/kotrzina/calassist/pkg/utils"
	"github.com/sirupsen/logrus"
	"mvdan.cc/xurls/v2"
)

// ErrFailed wraps every failure except ai.ErrInvalidAPIKey
var ErrFailed = errors.New("could not generate calendar link")

// Notifier receives every generated link
type Notifier interface {
	SendLink(link store.Link) error
}

type Request struct {
	Text   string `json:"text"`
	APIKey string `json:"apikey,omitempty"`
}

type Result struct {
	URL     string        `json:"url"`
	Details event.Details `json:"details"`
	Params  gcal.Params   `json:"-"`
	Cost    ai.Cost       `json:"cost"`
	Cached  bool          `json:"cached"`

	Conversation ai.Conversation `json:"-"`
}

// Duration of the event if both dates are known
func (r Result) Duration() (time.Duration, bool) {
	start, errStart := time.Parse(event.ZuluLayout, r.Params.Start)
	end, errEnd := time.Parse(event.ZuluLayout, r.Params.End)
	if errStart != nil || errEnd != nil {
		return 0, false
	}

	return end.Sub(start), true
}

type Extractor struct {
	provider ai.Provider
	prompt   *prompt.Builder
	builder  *gcal.Builder
	storage  store.Storage // optional
	notifier Notifier      // optional

	apiKey      string
	cacheTTL    time.Duration
	appendLinks bool

	monitor *prometheus.Monitor
	logger  *logrus.Logger
	now     func() time.Time
}

func NewExtractor(
	conf *config.Config,
	p ai.Provider,
	b *prompt.Builder,
	s store.Storage,
	n Notifier,
	m *prometheus.Monitor,
	l *logrus.Logger,
) (*Extractor, error) {
	loc, err := conf.Location()
	if err != nil {
		return nil, err
	}

	return &Extractor{
		provider: p,
		prompt:   b,
		builder:  gcal.NewBuilder(conf.CalendarBaseURL, loc),
		storage:  s,
		notifier: n,

		apiKey:      conf.APIKey(),
		cacheTTL:    conf.CacheTTL,
		appendLinks: conf.AppendLinks,

		monitor: m,
		logger:  l,
		now:     time.Now,
	}, nil
}

// Extract turns the selected text into a calendar link
func (e *Extractor) Extract(ctx context.Context, req Request) (Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		e.monitor.LinkFailures.WithLabelValues("empty").Inc()
		return Result{}, fmt.Errorf("%w: no text given", ErrFailed)
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(e.apiKey)
	}
	if apiKey == "" {
		e.monitor.LinkFailures.WithLabelValues("api_key").Inc()
		return Result{}, ai.ErrInvalidAPIKey
	}

	instruction := e.prompt.Render()
	conversation := ai.NewConversation(instruction).WithUser(text)
	// cached replies are readable only with the key that paid for them
	key := utils.Hash(utils.Hash(apiKey), e.provider.Name(), e.provider.Model(), instruction, text)

	result := Result{}
	content, cached := e.cachedReply(key)
	if cached {
		result.Cached = true
		e.monitor.CacheHits.WithLabelValues().Inc()
		conversation = conversation.With(ai.Message{Role: ai.RoleAssistant, Content: content})
	} else {
		reply, err := e.provider.Complete(ctx, apiKey, conversation)
		if err != nil {
			if errors.Is(err, ai.ErrInvalidAPIKey) {
				e.monitor.LinkFailures.WithLabelValues("api_key").Inc()
				return Result{}, err
			}

			e.monitor.LinkFailures.WithLabelValues("completion").Inc()
			e.logger.Warnf("could not get completion because %v", err)
			return Result{}, fmt.Errorf("%w: %w", ErrFailed, err)
		}

		content = reply.Message.Content
		result.Cost = reply.Cost
		conversation = conversation.With(reply.Message)
	}

	details, err := event.Parse(content)
	if err != nil {
		e.monitor.LinkFailures.WithLabelValues("parse").Inc()
		e.logger.Warnf("could not parse completion because %v", err)
		return Result{}, fmt.Errorf("%w: %w", ErrFailed, err)
	}

	if !cached {
		e.cacheReply(key, content)
	}

	if e.appendLinks {
		details = AppendLinks(details, text)
	}

	result.Details = details
	result.Params = e.builder.Normalize(details)
	result.URL = e.builder.Assemble(result.Params)
	result.Conversation = conversation

	hasDates := "no"
	if _, ok := result.Duration(); ok {
		hasDates = "yes"
	}
	e.monitor.LinksGenerated.WithLabelValues(hasDates).Inc()

	e.logger.WithFields(logrus.Fields{
		"provider": e.provider.Name(),
		"cached":   result.Cached,
		"dates":    hasDates,
	}).Infof("Generated calendar link: %s", result.URL)

	e.record(store.Link{
		URL:       result.URL,
		Text:      text,
		EventName: details.EventName,
		Provider:  e.provider.Name(),
		At:        e.now(),
	})

	return result, nil
}

func (e *Extractor) cachedReply(key string) (string, bool) {
	if e.storage == nil {
		return "", false
	}

	content, err := e.storage.GetReply(key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.logger.Warnf("could not read cached completion: %v", err)
		}
		return "", false
	}

	return content, true
}

func (e *Extractor) cacheReply(key, content string) {
	if e.storage == nil {
		return
	}

	if err := e.storage.SetReply(key, content, e.cacheTTL); err != nil {
		e.logger.Warnf("could not cache completion: %v", err)
	}
}

func (e *Extractor) record(link store.Link) {
	if e.storage != nil {
		if err := e.storage.AddLink(link); err != nil {
			e.logger.Warnf("could not store link: %v", err)
		}
	}

	if e.notifier != nil {
		if err := e.notifier.SendLink(link); err != nil {
			e.logger.Warnf("could not send link notification: %v", err)
		}
	}
}

// AppendLinks copies URLs from the source text into details
// URLs already mentioned in details or location are skipped.
func AppendLinks(d event.Details, text string) event.Details {
	var missing []string
	for _, link := range xurls.Strict().FindAllString(text, -1) {
		if strings.Contains(d.Details, link) || strings.Contains(d.Location, link) || slices.Contains(missing, link) {
			continue
		}
		missing = append(missing, link)
	}

	if len(missing) == 0 {
		return d
	}

	d.Details = strings.TrimSpace(d.Details + "\n\n" + strings.Join(missing, "\n"))
	return d
}
