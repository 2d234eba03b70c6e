// Package notify delivers exported reports to Slack.
package notify

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/slack-go/slack"

	"glpiboard/internal/display"
	"glpiboard/internal/domain"
)

// Notifier receives the outcome of scheduled exports.
type Notifier interface {
	// Deliver publishes one exported file.
	Deliver(ctx context.Context, rec domain.ExportRecord) error
	// Summarize posts a text summary of a run.
	Summarize(ctx context.Context, text string) error
}

// Nop drops everything. It stands in when Slack is not configured.
type Nop struct{}

func (Nop) Deliver(context.Context, domain.ExportRecord) error { return nil }
func (Nop) Summarize(context.Context, string) error            { return nil }

type slackAPI interface {
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type SlackNotifier struct {
	api     slackAPI
	channel string
}

// New returns a SlackNotifier, or Nop when token or channel is empty.
func New(token, channel string, opts ...slack.Option) Notifier {
	if token == "" || channel == "" {
		log.Println("Export delivery disabled (slack_bot_token or slack_channel_id not set)")
		return Nop{}
	}
	return &SlackNotifier{api: slack.New(token, opts...), channel: channel}
}

func (n *SlackNotifier) Deliver(ctx context.Context, rec domain.ExportRecord) error {
	fi, err := os.Stat(rec.Path)
	if err != nil {
		return fmt.Errorf("stat export: %w", err)
	}
	if fi.Size() <= 0 {
		return fmt.Errorf("export file is empty path=%s", rec.Path)
	}
	_, err = n.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		File:           rec.Path,
		FileSize:       int(fi.Size()),
		Filename:       filepath.Base(rec.Path),
		Channel:        n.channel,
		Title:          ExportTitle(rec.Kind),
		InitialComment: UploadComment(rec),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", filepath.Base(rec.Path), err)
	}
	log.Printf("export delivered kind=%s file=%s channel=%s", rec.Kind, rec.Path, n.channel)
	return nil
}

func (n *SlackNotifier) Summarize(ctx context.Context, text string) error {
	_, _, err := n.api.PostMessageContext(ctx, n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("post summary: %w", err)
	}
	return nil
}

func ExportTitle(kind string) string {
	switch kind {
	case domain.ExportKindStock:
		return "Stock des tickets"
	case domain.ExportKindPlans:
		return "Plans d'action par technicien"
	case domain.ExportKindPlan:
		return "Plan d'action"
	case domain.ExportKindBilan:
		return "Bilan d'activité"
	}
	return "Export " + kind
}

func UploadComment(rec domain.ExportRecord) string {
	return fmt.Sprintf("%s généré le %s (%s, %s)", ExportTitle(rec.Kind),
		rec.StartedAt.Format("02/01/2006 15:04"), display.FormatSize(rec.SizeBytes), display.FormatDuration(rec.DurationMs))
}

// RunSummary describes a scheduled run: one line per export, failures
// first.
func RunSummary(records []domain.ExportRecord) string {
	var ok, failed []string
	for _, r := range records {
		if r.Status == domain.ExportStatusFailed {
			failed = append(failed, fmt.Sprintf("• %s : échec (%s)", ExportTitle(r.Kind), r.Error))
			continue
		}
		ok = append(ok, fmt.Sprintf("• %s : %s", ExportTitle(r.Kind), filepath.Base(r.Path)))
	}
	msg := fmt.Sprintf("Exports planifiés : %d réussi(s), %d échec(s)", len(ok), len(failed))
	lines := append(failed, ok...)
	if len(lines) > 0 {
		msg += "\n" + strings.Join(lines, "\n")
	}
	return msg
}
