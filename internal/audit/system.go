package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/pkg/pagination"
)

// System reads the audit log. Writes go through Record so they join the
// transaction of the change being audited.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error)
	Find(ctx context.Context, id uuid.UUID) (*Entry, error)
}
