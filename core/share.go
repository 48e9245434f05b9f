package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/cenkalti/backoff/v4"
	"github.com/huangsam/destiny/schema"
	"go.uber.org/zap"
)

// ShareTitle is the title attached to every share payload.
const ShareTitle = "Destiny Matcher"

// CopiedAcknowledgment is shown after a successful clipboard copy.
const CopiedAcknowledgment = "Copied to clipboard"

// ShareSink delivers a share payload somewhere outside the process.
type ShareSink interface {
	Name() string
	Share(ctx context.Context, data schema.ShareData) error
}

// ComposeShareText builds the fixed-shape share message.
func ComposeShareText(a, b schema.ZodiacSign, r schema.PredictionResult, header, footer string) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s ❤️ %s\n", a.Name, b.Name)
	fmt.Fprintf(&sb, "Compatibility: %d stars (%d/%d points)\n\n", r.Stars, r.TotalScore, r.MaxScore)
	fmt.Fprintf(&sb, "\"%s\"\n\n", r.PredictionText)
	sb.WriteString(footer)
	return sb.String()
}

// NewShareData assembles the payload handed to a sink.
func NewShareData(text, url string) schema.ShareData {
	return schema.ShareData{Title: ShareTitle, Text: text, URL: url}
}

// clipboardText appends the URL on its own line when present.
func clipboardText(data schema.ShareData) string {
	if data.URL == "" {
		return data.Text
	}
	return data.Text + "\n" + data.URL
}

// NativeShare posts the payload as JSON to a share endpoint.
type NativeShare struct {
	Endpoint   string
	Client     *http.Client
	MaxRetries uint64
}

// NewNativeShare returns a webhook sink with a bounded client timeout.
func NewNativeShare(endpoint string) *NativeShare {
	return &NativeShare{
		Endpoint:   endpoint,
		Client:     &http.Client{Timeout: 10 * time.Second},
		MaxRetries: 2,
	}
}

// Name implements ShareSink.
func (n *NativeShare) Name() string { return string(schema.NativeShare) }

// Share implements ShareSink. Server errors are retried with backoff; client errors are not.
func (n *NativeShare) Share(ctx context.Context, data schema.ShareData) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode share payload: %w", err)
	}

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.Endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("share endpoint returned %s", resp.Status)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("share endpoint rejected payload: %s", resp.Status))
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, n.MaxRetries), ctx))
}

// ClipboardCopy writes the text and URL to the system clipboard.
type ClipboardCopy struct {
	write func(string) error
}

// NewClipboardCopy returns a sink backed by the system clipboard.
func NewClipboardCopy() *ClipboardCopy {
	return &ClipboardCopy{write: clipboard.WriteAll}
}

// Name implements ShareSink.
func (c *ClipboardCopy) Name() string { return string(schema.ClipboardShare) }

// Share implements ShareSink.
func (c *ClipboardCopy) Share(ctx context.Context, data schema.ShareData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.write(clipboardText(data))
}

// ManualShare prints the text for the user to copy by hand.
type ManualShare struct {
	Out io.Writer
}

// Name implements ShareSink.
func (m *ManualShare) Name() string { return string(schema.ManualShare) }

// Share implements ShareSink.
func (m *ManualShare) Share(ctx context.Context, data schema.ShareData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(m.Out, clipboardText(data))
	return err
}

// clipboardSupported reports whether the platform has a usable clipboard.
var clipboardSupported = func() bool { return !clipboard.Unsupported }

// ShareOptions carries what SelectShareSink needs to build a sink.
type ShareOptions struct {
	Webhook string
	Out     io.Writer
}

// SelectShareSink picks a sink. Auto mode prefers a configured webhook,
// then the clipboard when the platform supports it, then manual output.
func SelectShareSink(mode schema.ShareMode, opts ShareOptions) (ShareSink, error) {
	switch mode {
	case schema.NativeShare:
		if opts.Webhook == "" {
			return nil, fmt.Errorf("native sharing needs a share webhook")
		}
		return NewNativeShare(opts.Webhook), nil
	case schema.ClipboardShare:
		return NewClipboardCopy(), nil
	case schema.ManualShare:
		return &ManualShare{Out: opts.Out}, nil
	case schema.AutoShare, "":
		switch {
		case opts.Webhook != "":
			return NewNativeShare(opts.Webhook), nil
		case clipboardSupported():
			return NewClipboardCopy(), nil
		default:
			return &ManualShare{Out: opts.Out}, nil
		}
	default:
		return nil, fmt.Errorf("unsupported share mode: %s", mode)
	}
}

// Share runs one share attempt. Failures, including cancellation, are logged
// and reported in the outcome; they are never returned.
func Share(ctx context.Context, sink ShareSink, data schema.ShareData, log *zap.Logger) schema.ShareOutcome {
	if log == nil {
		log = zap.NewNop()
	}
	outcome := schema.ShareOutcome{Sink: sink.Name()}

	if err := sink.Share(ctx, data); err != nil {
		log.Warn("share failed", zap.String("sink", sink.Name()), zap.Error(err))
		outcome.Status = schema.FailedStatus
		outcome.Detail = err.Error()
	} else {
		switch sink.(type) {
		case *ClipboardCopy:
			outcome.Status = schema.CopiedStatus
			outcome.Acknowledgment = CopiedAcknowledgment
			outcome.AckTTL = schema.AckTTL
		case *ManualShare:
			outcome.Status = schema.ManualStatus
		default:
			outcome.Status = schema.SharedStatus
		}
		log.Debug("share delivered", zap.String("sink", sink.Name()), zap.String("status", string(outcome.Status)))
	}

	if o := observerFromContext(ctx); o != nil {
		o.ObserveShare(outcome.Sink, outcome.Status)
	}
	return outcome
}
