package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inbox-dashboard/internal/apperrors"
	"inbox-dashboard/internal/model"
	"inbox-dashboard/internal/render"
)

// How long a successfully handled item stays visible as removed.
const (
	DeleteDismissDelay      = time.Second
	UnsubscribeDismissDelay = 1500 * time.Millisecond
)

type dismissal struct {
	dropped bool
	stop    func() bool
}

// Delete moves one email to the trash.
func (c *Controller) Delete(ctx context.Context, emailID string) (*model.ActionRecord, error) {
	return c.runSingle(ctx, model.ActionDelete, emailID)
}

// Unsubscribe follows the email's unsubscribe link.
func (c *Controller) Unsubscribe(ctx context.Context, emailID string) (*model.ActionRecord, error) {
	return c.runSingle(ctx, model.ActionUnsubscribe, emailID)
}

// BulkDelete deletes every newsletter that carries an id.
func (c *Controller) BulkDelete(ctx context.Context) (*model.ActionRecord, error) {
	return c.runBulk(ctx, model.ActionBulkDelete)
}

// BulkUnsubscribe unsubscribes from every newsletter with an id and a link.
func (c *Controller) BulkUnsubscribe(ctx context.Context) (*model.ActionRecord, error) {
	return c.runBulk(ctx, model.ActionBulkUnsubscribe)
}

func (c *Controller) runSingle(ctx context.Context, kind model.ActionKind, emailID string) (*model.ActionRecord, error) {
	if !c.gateway.Enabled() {
		return nil, apperrors.ErrActionsDisabled
	}
	emailID = strings.TrimSpace(emailID)
	if emailID == "" {
		return nil, apperrors.NewValidation("Keine Email-ID angegeben")
	}

	record, err := c.begin(ctx, kind, []string{emailID})
	if err != nil {
		return nil, err
	}

	var message string
	var delay time.Duration
	switch kind {
	case model.ActionDelete:
		_, err = c.gateway.DeleteEmail(ctx, emailID)
		message = "Email erfolgreich gelöscht!"
		delay = DeleteDismissDelay
	default:
		result, uerr := c.gateway.UnsubscribeEmail(ctx, emailID)
		err = uerr
		if result != nil && result.Message != "" {
			message = result.Message
		} else {
			message = "Erfolgreich abgemeldet"
		}
		delay = UnsubscribeDismissDelay
	}
	if err != nil {
		return c.fail(ctx, record, err)
	}

	record.Successful = 1
	c.finish(ctx, record, message)
	c.dismiss(emailID, delay)
	return record, nil
}

func (c *Controller) runBulk(ctx context.Context, kind model.ActionKind) (*model.ActionRecord, error) {
	if !c.gateway.Enabled() {
		return nil, apperrors.ErrActionsDisabled
	}
	ids, err := c.bulkTargets(kind)
	if err != nil {
		return nil, err
	}

	record, err := c.begin(ctx, kind, ids)
	if err != nil {
		return nil, err
	}

	var template string
	if kind == model.ActionBulkDelete {
		template = "Löschen abgeschlossen! Erfolgreich: %d/%d"
		result, berr := c.gateway.BulkDelete(ctx, ids)
		if berr != nil {
			return c.fail(ctx, record, berr)
		}
		record.Successful, record.Total = result.Successful, result.TotalProcessed
	} else {
		template = "Abmeldung abgeschlossen! Erfolgreich: %d/%d"
		result, berr := c.gateway.BulkUnsubscribe(ctx, ids)
		if berr != nil {
			return c.fail(ctx, record, berr)
		}
		record.Successful, record.Total = result.Successful, result.TotalProcessed
	}

	c.finish(ctx, record, fmt.Sprintf(template, record.Successful, record.Total))
	if record.PartialSuccess() {
		c.logger.Warnf("Bulk %s for session %s completed with partial success: %d/%d",
			kind, c.sessionID, record.Successful, record.Total)
	}
	return record, nil
}

// bulkTargets picks the newsletter ids a bulk action applies to. Items
// already handled in this render are skipped.
func (c *Controller) bulkTargets(kind model.ActionKind) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.report == nil {
		return nil, apperrors.ErrNoReport
	}

	var ids []string
	for _, n := range c.report.Newsletters {
		if !n.HasID() || c.dismissals[n.ID] != nil {
			continue
		}
		if kind == model.ActionBulkUnsubscribe && !n.HasUnsubscribeLink() {
			continue
		}
		ids = append(ids, n.ID)
	}

	if len(ids) == 0 {
		if kind == model.ActionBulkUnsubscribe {
			return nil, apperrors.NewValidation("Keine Newsletter mit Abmelde-Links gefunden")
		}
		return nil, apperrors.NewValidation("Keine Email-IDs gefunden")
	}
	return ids, nil
}

func busyKey(kind model.ActionKind, ids []string) string {
	if kind.IsBulk() || len(ids) == 0 {
		return string(kind)
	}
	return string(kind) + ":" + ids[0]
}

// begin marks the action busy and records it as requested.
func (c *Controller) begin(ctx context.Context, kind model.ActionKind, ids []string) (*model.ActionRecord, error) {
	key := busyKey(kind, ids)

	c.mu.Lock()
	if c.busy[key] {
		c.mu.Unlock()
		return nil, apperrors.ErrBusy
	}
	c.busy[key] = true
	c.lastSeen = c.clock.Now()
	c.mu.Unlock()

	record := model.NewActionRecord(c.sessionID, kind, ids)
	record.State = model.StateRequested
	record.StartedAt = c.clock.Now()
	if err := c.actions.Create(ctx, record); err != nil {
		c.release(key)
		return nil, fmt.Errorf("failed to record action: %w", err)
	}

	c.logger.Infof("Action %s requested for session %s (%d emails)", kind, c.sessionID, len(ids))
	c.publish(EventAction, record)
	return record, nil
}

func (c *Controller) finish(ctx context.Context, record *model.ActionRecord, message string) {
	record.State = model.StateSucceeded
	record.Message = message
	c.complete(ctx, record)
}

func (c *Controller) fail(ctx context.Context, record *model.ActionRecord, err error) (*model.ActionRecord, error) {
	record.State = model.StateFailed
	record.Message = failureMessage(record.Kind, err)
	c.logger.Warnf("Action %s failed for session %s: %v", record.Kind, c.sessionID, err)
	c.complete(ctx, record)
	return record, err
}

func (c *Controller) complete(ctx context.Context, record *model.ActionRecord) {
	record.FinishedAt = c.clock.Now()
	if err := c.actions.Update(context.WithoutCancel(ctx), record); err != nil {
		c.logger.Warnf("Failed to update action %s: %v", record.ID, err)
	}
	c.release(busyKey(record.Kind, record.EmailIDs))
	c.publish(EventAction, record)
}

func (c *Controller) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.busy, key)
}

// failureMessage is the text shown to the user for a failed action.
func failureMessage(kind model.ActionKind, err error) string {
	if errors.Is(err, context.Canceled) {
		return "Aktion abgebrochen"
	}
	msg := apperrors.Message(err)
	if apperrors.Is(err, apperrors.KindBackend) {
		return msg
	}
	switch kind {
	case model.ActionBulkDelete:
		return "Fehler beim Bulk-Löschen: " + msg
	case model.ActionBulkUnsubscribe:
		return "Fehler bei Bulk-Abmeldung: " + msg
	default:
		return "Fehler: " + msg
	}
}

// dismiss shows the item as removed and drops it from the list after delay.
func (c *Controller) dismiss(emailID string, delay time.Duration) {
	c.mu.Lock()
	if c.report == nil {
		c.mu.Unlock()
		return
	}
	if prev := c.dismissals[emailID]; prev != nil && prev.stop != nil {
		prev.stop()
	}

	seq := c.renderSeq
	d := &dismissal{}
	c.dismissals[emailID] = d
	d.stop = c.clock.AfterFunc(delay, func() {
		c.mu.Lock()
		if c.renderSeq != seq || c.dismissals[emailID] != d {
			c.mu.Unlock()
			return
		}
		d.dropped = true
		c.mu.Unlock()

		c.publish(EventDismissal, map[string]string{"email_id": emailID, "state": "dropped"})
	})
	c.mu.Unlock()

	c.publish(EventDismissal, map[string]string{"email_id": emailID, "state": "removed"})
}

func (c *Controller) clearDismissalsLocked() {
	for id, d := range c.dismissals {
		if d.stop != nil {
			d.stop()
		}
		delete(c.dismissals, id)
	}
}

// visibleListLocked renders the newsletter list without dropped items and
// flags the ones waiting to be dropped.
func (c *Controller) visibleListLocked() render.NewsletterList {
	visible := make([]model.NewsletterEntry, 0, len(c.report.Newsletters))
	for _, n := range c.report.Newsletters {
		if d := c.dismissals[n.ID]; n.HasID() && d != nil && d.dropped {
			continue
		}
		visible = append(visible, n)
	}

	list := render.RenderNewsletterList(visible)
	for i := range list.Items {
		if d := c.dismissals[list.Items[i].ID]; list.Items[i].ID != "" && d != nil {
			list.Items[i].Removed = true
		}
	}
	return list
}
