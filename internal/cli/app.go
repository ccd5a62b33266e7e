// Package cli implements the attachctl operator commands: uploading,
// listing, captioning, deleting and signing attachments on one record. It
// plays the role of the hosting application: it owns the record's
// attachment list and hands the engine an update sink over it.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/mkhramtsov/siteforms/internal/models"
	"github.com/mkhramtsov/siteforms/internal/uploader"
)

// ListSink is an in-process parent record: a mutex-guarded attachment list
// satisfying the engine's pure-transform update contract.
type ListSink struct {
	mu   sync.Mutex
	list []models.Attachment
}

func (s *ListSink) Update(apply func(prev []models.Attachment) []models.Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = apply(s.list)
}

// Snapshot returns a copy of the current list.
func (s *ListSink) Snapshot() []models.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Attachment(nil), s.list...)
}

// App wires one engine instance to terminal input/output.
type App struct {
	Engine *uploader.Engine
	Sink   *ListSink
	In     *bufio.Reader
	Out    io.Writer
}

// contentTypeFor guesses the MIME type from the file extension, defaulting
// to a generic binary type.
func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Upload reads the given files, queues them and waits for the drain to
// finish, reporting per-item progress and any failed slots.
func (a *App) Upload(ctx context.Context, paths []string) error {
	assets := make([]uploader.Asset, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		assets = append(assets, uploader.Asset{
			Name:        filepath.Base(p),
			ContentType: contentTypeFor(p),
			Data:        data,
		})
	}

	a.Engine.SetSlotListener(func(s models.Slot) {
		fmt.Fprintf(a.Out, "%-12s %3d%%  %s\n", s.Status, s.Progress, s.Name)
	})

	rejected, err := a.Engine.Add(ctx, assets...)
	if err != nil {
		return err
	}
	for _, r := range rejected {
		fmt.Fprintf(a.Out, "rejected: %s: %v\n", r.Asset.Name, r.Reason)
	}

	a.Engine.Wait()

	for _, s := range a.Engine.FailedSlots() {
		fmt.Fprintf(a.Out, "failed: %s: %v\n", s.Name, s.Err)
	}
	return nil
}

// List reconciles against the metadata store and prints the record's
// attachments.
func (a *App) List(ctx context.Context) error {
	if err := a.Engine.Reconcile(ctx); err != nil {
		return err
	}
	for _, att := range a.Sink.Snapshot() {
		caption := att.Caption
		if caption == "" {
			caption = "-"
		}
		fmt.Fprintf(a.Out, "%6d  %s  %-24s %s\n", att.ID, att.CreatedAt.Format("2006-01-02 15:04"), caption, att.PublicURL)
	}
	return nil
}

// Caption buffers the text and commits it, mimicking the type-then-blur
// flow of the web client.
func (a *App) Caption(ctx context.Context, id int64, text string) error {
	a.Engine.SetCaptionDraft(id, text)
	return a.Engine.CommitCaption(ctx, id)
}

// Delete asks for confirmation, then removes the attachment from both
// stores.
func (a *App) Delete(ctx context.Context, id int64) error {
	if err := a.Engine.Reconcile(ctx); err != nil {
		return err
	}

	var target *models.Attachment
	for _, att := range a.Sink.Snapshot() {
		if att.ID == id {
			t := att
			target = &t
			break
		}
	}
	if target == nil {
		return fmt.Errorf("attachment %d not found", id)
	}

	ok, err := Confirm(a.In, fmt.Sprintf("Delete attachment %d (%s)?", id, target.StorageKey), a.Out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.Out, "aborted")
		return nil
	}

	return a.Engine.Delete(ctx, *target)
}

// Sign prompts for the signer's details, reads the raster file and commits
// it through the single-item flow.
func (a *App) Sign(ctx context.Context, parentID, pngPath string) error {
	data, err := os.ReadFile(pngPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", pngPath, err)
	}

	name, err := GetSimpleText(a.In, "Signer name", a.Out)
	if err != nil {
		return err
	}
	role, err := GetSimpleText(a.In, "Signer role (supervisor/foreman/worker/inspector/visitor)", a.Out)
	if err != nil {
		return err
	}

	capture := models.SignatureCapture{
		ParentID:  parentID,
		ActorID:   uuid.NewString(),
		ActorName: name,
		Role:      role,
		PNG:       data,
		Width:     600,
		Height:    200,
	}

	var submitErr error
	a.Engine.SubmitSignature(ctx, capture, func(rec models.SignatureRecord, err error) {
		if err != nil {
			submitErr = err
			return
		}
		fmt.Fprintf(a.Out, "signed by %s (%s) at %s: %s\n", rec.ActorName, rec.Role, rec.CreatedAt.Format("15:04:05"), rec.PublicURL)
	})
	return submitErr
}
