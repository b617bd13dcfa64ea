package contentstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"academy/backend/models"
)

// Document lifecycle actions. The platform owns the draft/publish
// state machine; these are thin callers of its action protocol. Draft
// documents live under the "drafts." id prefix.

const draftPrefix = "drafts."

// BaseID strips the draft prefix from a document id.
func BaseID(id string) string {
	return strings.TrimPrefix(id, draftPrefix)
}

// IsDraft reports whether id names the draft version of a document.
func IsDraft(id string) bool {
	return strings.HasPrefix(id, draftPrefix)
}

func (c *Client) action(ctx context.Context, action map[string]interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"actions": []interface{}{action}}).
		Post("/data/actions/" + c.dataset)
	if err != nil {
		return fmt.Errorf("content store action: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("content store action: %s", resp.Status())
	}
	return nil
}

// CreateDocument creates a new draft of the given type and returns the
// draft id.
func (c *Client) CreateDocument(ctx context.Context, docType string, fields map[string]interface{}) (string, error) {
	id := draftPrefix + uuid.NewString()

	doc := map[string]interface{}{"_id": id, "_type": docType}
	for k, v := range fields {
		doc[k] = v
	}

	err := c.action(ctx, map[string]interface{}{
		"actionType": "document.create",
		"attributes": doc,
		"ifExists":   "fail",
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// PublishDocument promotes the draft to the published version.
func (c *Client) PublishDocument(ctx context.Context, id string) error {
	base := BaseID(id)
	return c.action(ctx, map[string]interface{}{
		"actionType":  "document.publish",
		"draftId":     draftPrefix + base,
		"publishedId": base,
	})
}

// UnpublishDocument retracts the published version, retaining a draft.
func (c *Client) UnpublishDocument(ctx context.Context, id string) error {
	base := BaseID(id)
	return c.action(ctx, map[string]interface{}{
		"actionType":  "document.unpublish",
		"draftId":     draftPrefix + base,
		"publishedId": base,
	})
}

// DiscardDraft drops pending draft changes, reverting to the published
// version.
func (c *Client) DiscardDraft(ctx context.Context, id string) error {
	return c.action(ctx, map[string]interface{}{
		"actionType": "document.discard",
		"draftId":    draftPrefix + BaseID(id),
	})
}

// DeleteDocument removes the published document and any draft.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	base := BaseID(id)
	return c.action(ctx, map[string]interface{}{
		"actionType":    "document.delete",
		"publishedId":   base,
		"includeDrafts": []string{draftPrefix + base},
	})
}

// Reference array editing. Every entry gets a stable key at insertion;
// the key alone identifies the entry afterwards.

// AddReference appends a reference to an ordered array field and
// returns the stable key assigned to the new entry.
func (c *Client) AddReference(ctx context.Context, docID, field, ref string) (string, error) {
	item := models.Reference{Key: uuid.NewString(), Ref: ref}
	err := c.Patch(docID).
		SetIfMissing(map[string]interface{}{field: []models.Reference{}}).
		Append(field, item).
		Commit(ctx)
	if err != nil {
		return "", err
	}
	return item.Key, nil
}

// RemoveReference drops the entry with the given stable key.
func (c *Client) RemoveReference(ctx context.Context, docID, field, key string) error {
	return c.Patch(docID).
		RemoveByKey(field, key).
		Commit(ctx)
}

// SetReferenceOrder replaces the array with the given ordering. Callers
// pass the full entry list; keys are preserved across reorders.
func (c *Client) SetReferenceOrder(ctx context.Context, docID, field string, items []models.Reference) error {
	return c.Patch(docID).
		Set(map[string]interface{}{field: items}).
		Commit(ctx)
}
