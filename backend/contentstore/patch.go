package contentstore

import (
	"context"
	"fmt"
)

// Patch accumulates field-level operations against one document. Each
// builder call appends a mutation, so operations commit in the order
// they were chained.
type Patch struct {
	client *Client
	id     string
	muts   []map[string]interface{}
}

func (c *Client) Patch(id string) *Patch {
	return &Patch{client: c, id: id}
}

func (p *Patch) patchOp(op string, value interface{}) *Patch {
	p.muts = append(p.muts, map[string]interface{}{
		"patch": map[string]interface{}{
			"id": p.id,
			op:   value,
		},
	})
	return p
}

// SetIfMissing initializes fields that do not exist yet and leaves
// existing values alone.
func (p *Patch) SetIfMissing(fields map[string]interface{}) *Patch {
	return p.patchOp("setIfMissing", fields)
}

// Set overwrites the given fields.
func (p *Patch) Set(fields map[string]interface{}) *Patch {
	return p.patchOp("set", fields)
}

// Append inserts items at the end of an array field.
func (p *Patch) Append(field string, items ...interface{}) *Patch {
	return p.patchOp("insert", map[string]interface{}{
		"after": field + "[-1]",
		"items": items,
	})
}

// RemoveMatching unsets every array entry whose value equals value.
// Removing an absent value is a no-op, not an error.
func (p *Patch) RemoveMatching(field, value string) *Patch {
	return p.patchOp("unset", []string{
		fmt.Sprintf(`%s[@ == %q]`, field, value),
	})
}

// RemoveByKey unsets the array entry carrying the given stable key.
func (p *Patch) RemoveByKey(field, key string) *Patch {
	return p.patchOp("unset", []string{
		fmt.Sprintf(`%s[_key == %q]`, field, key),
	})
}

// Commit submits the accumulated operations as one transaction.
func (p *Patch) Commit(ctx context.Context) error {
	if len(p.muts) == 0 {
		return nil
	}
	return p.client.mutate(ctx, p.muts)
}

// ToggleCompletion adds or removes userID on a content node's
// completedBy set. Both directions are idempotent: the add removes any
// existing entry before appending, so a double-toggle leaves exactly
// one entry, and removing an absent id is a no-op.
func (c *Client) ToggleCompletion(ctx context.Context, docID, userID string, markComplete bool) error {
	if markComplete {
		return c.Patch(docID).
			SetIfMissing(map[string]interface{}{"completedBy": []string{}}).
			RemoveMatching("completedBy", userID).
			Append("completedBy", userID).
			Commit(ctx)
	}
	return c.Patch(docID).
		RemoveMatching("completedBy", userID).
		Commit(ctx)
}
