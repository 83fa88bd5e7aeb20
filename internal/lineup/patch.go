package lineup

import (
	"time"

	"github.com/mudgear/qlineup_bot/internal/chat"
	"github.com/mudgear/qlineup_bot/internal/model"
	"go.uber.org/zap"
)

// Patcher rewrites a single row of a previously posted document, leaving
// every other row (including the footer) untouched. The patched document is
// re-submitted whole to the platform's update call; nothing is re-rendered.
type Patcher struct {
	logger *zap.Logger
}

func NewPatcher(logger *zap.Logger) *Patcher {
	return &Patcher{logger: logger}
}

// Apply locates the row with the given block id and replaces its text and
// control with content rendered from the slot's new state. The document's
// footer decides whether the location name is prefixed inline. Returns
// false without modifying anything when no row matches; the document may
// have been edited out of band, and fabricating a row would be worse than
// leaving it stale.
func (p *Patcher) Apply(doc chat.Document, blockID string, loc model.Location, day time.Time, slot *model.Slot, dir Directory) (chat.Document, bool) {
	scope := loc.Slug
	if footer, ok := DocumentFooter(doc); ok {
		scope = footer.Scope
	} else {
		p.logger.Warn("Document has no readable footer; rendering without location prefix",
			zap.String("block_id", blockID))
	}

	target := -1
	for i := range doc.Rows {
		if doc.Rows[i].BlockID == blockID {
			target = i
			break
		}
	}
	if target < 0 {
		p.logger.Warn("Patch target missing; document changed out of band",
			zap.String("block_id", blockID),
			zap.String("location", loc.Slug),
			zap.Time("date", day))
		return doc, false
	}

	text, control := rowContent(scope, loc, day, slot, dir)

	rows := make([]chat.Row, len(doc.Rows))
	copy(rows, doc.Rows)
	rows[target].Text = text
	rows[target].Control = control

	return chat.Document{Rows: rows}, true
}
