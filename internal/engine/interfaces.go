package engine

import (
	"context"

	"github.com/primer-app/primer/internal/model"
)

// Previewer is the preview and undo collaborator the handler routes drafts to.
type Previewer interface {
	ShowPreview(draft model.CalendarEventDraft)
	CreateEventDirect(ctx context.Context, draft model.CalendarEventDraft) error
	IsCreating() bool
	RecentlyCreated() *model.RecentlyCreatedEvent
}
