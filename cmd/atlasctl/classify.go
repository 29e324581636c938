package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/haneulgyeol/cloud-atlas/internal/adapter/classifier"
	"github.com/haneulgyeol/cloud-atlas/internal/domain"
	"github.com/haneulgyeol/cloud-atlas/internal/observability"
	"github.com/haneulgyeol/cloud-atlas/internal/view"
)

// errClassifyFailed is returned after a rejected or failed upload has been reported.
var errClassifyFailed = errors.New("classification failed")

type classifierOptions struct {
	url     string
	timeout time.Duration
}

func (co *classifierOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&co.url, "classifier-url",
		sharedcfg.EnvOrDefault("CLASSIFIER_URL", "http://127.0.0.1:8000/predict"), "classifier predict endpoint")
	cmd.Flags().DurationVar(&co.timeout, "timeout", 30*time.Second, "classifier request timeout")
}

func (co *classifierOptions) client(cmd *cobra.Command) *classifier.Client {
	return classifier.NewClient(co.url, co.timeout, observability.NewDetachedMetrics(), newLogger(cmd))
}

// newLogger writes warnings and errors to the command's stderr.
func newLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newClassifyCmd(o *options) *cobra.Command {
	co := &classifierOptions{}
	var maxUpload string
	cmd := &cobra.Command{
		Use:   "classify <image>",
		Short: "Identify the cloud genus in a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := humanize.ParseBytes(maxUpload)
			if err != nil {
				return fmt.Errorf("invalid --max-upload: %w", err)
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			upload := domain.Upload{
				Filename:    filepath.Base(args[0]),
				ContentType: contentType(args[0], data),
				Data:        data,
			}

			panel := view.NewIdentifyPanel(co.client(cmd), int64(limit), observability.NewDetachedMetrics(), newLogger(cmd))
			snap, err := panel.Classify(cmd.Context(), upload)
			if err != nil {
				return err
			}
			if err := o.emit(cmd, snapshotResult{snap}); err != nil {
				return err
			}
			if snap.State != view.StateResult {
				return errClassifyFailed
			}
			return nil
		},
	}
	co.register(cmd)
	cmd.Flags().StringVar(&maxUpload, "max-upload", sharedcfg.EnvOrDefault("UPLOAD_MAX_BYTES", "10MB"), "largest image accepted")
	return cmd
}

// contentType prefers the file extension and falls back to sniffing.
func contentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

type snapshotResult struct {
	snap view.Snapshot
}

func (r snapshotResult) data() any { return r.snap }

func (r snapshotResult) text(w io.Writer, st styles) {
	s := r.snap
	switch s.State {
	case view.StateRejected:
		fmt.Fprintln(w, st.bad.Render(s.Error))
		return
	case view.StateFailed:
		fmt.Fprintln(w, st.bad.Render(s.Error))
		fmt.Fprintln(w, st.dim.Render(s.Guidance))
		return
	}
	if s.Top == nil {
		return
	}

	fmt.Fprintf(w, "%s %s\n", st.title.Render(fmt.Sprintf("%s (%s)", s.Top.Name, s.Top.Code)), st.good.Render(s.Top.Percent))
	if s.Top.Description != "" {
		fmt.Fprintln(w, s.Top.Description)
	}
	fmt.Fprintln(w, st.dim.Render("도감: "+s.Top.AtlasPath))
	if s.ConfidenceText != "" {
		fmt.Fprintf(w, "신뢰도: %s\n", s.ConfidenceText)
	}

	if len(s.Others) > 0 {
		rows := make([][]string, 0, len(s.Others))
		for _, p := range s.Others {
			rows = append(rows, []string{fmt.Sprintf("%d", p.Rank), p.Name, p.Code, p.Percent, bar(p.Confidence)})
		}
		fmt.Fprintln(w, st.table([]string{"순위", "운형", "코드", "확률", ""}, rows))
	}

	if len(s.Tips) > 0 {
		fmt.Fprintln(w, st.header.Render("촬영 팁"))
		for _, tip := range s.Tips {
			fmt.Fprintf(w, "  • %s\n", tip)
		}
	}
}

func bar(confidence float64) string {
	n := int(confidence*20 + 0.5)
	n = min(max(n, 0), 20)
	return strings.Repeat("█", n)
}

func newHealthCmd(o *options) *cobra.Command {
	co := &classifierOptions{}
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Report the classifier's status and model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := co.client(cmd).Health(cmd.Context())
			if err != nil {
				return err
			}
			return o.emit(cmd, healthResult{h})
		},
	}
	co.register(cmd)
	return cmd
}

type healthResult struct {
	health classifier.Health
}

func (r healthResult) data() any { return r.health }

func (r healthResult) text(w io.Writer, st styles) {
	h := r.health
	status := st.good.Render(h.Status)
	if h.Status != "ok" {
		status = st.bad.Render(h.Status)
	}
	fmt.Fprintf(w, "상태:     %s\n", status)
	fmt.Fprintf(w, "장치:     %s\n", orDash(h.Device))
	fmt.Fprintf(w, "모델:     %s %s\n", orDash(h.Arch), st.dim.Render(h.RunName))
	fmt.Fprintf(w, "입력 크기: %dpx\n", h.ImgSize)
	fmt.Fprintf(w, "클래스:   %d %s\n", h.NumClasses, st.dim.Render(strings.Join(h.Classes, " ")))
}
