package chat

// ControlType distinguishes the interactive element attached to a row.
type ControlType string

const (
	ControlButton   ControlType = "button"
	ControlOverflow ControlType = "overflow"
)

// Option is one entry of an overflow menu.
type Option struct {
	Label string
	Value string
}

// Control is the interactive element on a row: a single button or an
// overflow menu.
type Control struct {
	Type     ControlType
	ActionID string
	Label    string   // button label; unused for overflow
	Options  []Option // overflow options; unused for button
}

// Row is one independently addressable section of a document. BlockID is
// assigned by the platform when the document is first posted and stays
// stable across later edits; it is empty on rows that have not been posted
// yet.
type Row struct {
	BlockID string
	Text    string
	Control *Control // nil for plain text rows
}

// Document is the platform's current structured message content, an ordered
// sequence of rows. It is fetched anew with every callback payload and
// re-submitted whole after mutation; this subsystem never persists it.
type Document struct {
	Rows []Row
}

// MessageRef addresses an already-posted message for updates.
type MessageRef struct {
	Channel   string
	Timestamp string
}

// Builder accumulates document rows.
type Builder struct {
	rows []Row
}

func NewBuilder() *Builder {
	return &Builder{rows: make([]Row, 0)}
}

// Row appends a row with an interactive control.
func (b *Builder) Row(text string, control *Control) *Builder {
	b.rows = append(b.rows, Row{Text: text, Control: control})
	return b
}

// TextRow appends a plain text row.
func (b *Builder) TextRow(text string) *Builder {
	b.rows = append(b.rows, Row{Text: text})
	return b
}

// Len returns the number of rows accumulated so far.
func (b *Builder) Len() int {
	return len(b.rows)
}

// Build produces the final document.
func (b *Builder) Build() Document {
	return Document{Rows: b.rows}
}

// Button creates a single-button control.
func Button(label, actionID string) *Control {
	return &Control{
		Type:     ControlButton,
		ActionID: actionID,
		Label:    label,
	}
}

// Overflow creates an overflow menu control.
func Overflow(actionID string, options ...Option) *Control {
	return &Control{
		Type:     ControlOverflow,
		ActionID: actionID,
		Options:  options,
	}
}
