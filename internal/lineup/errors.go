package lineup

import "errors"

// Failure modes surfaced to the interaction layer.
var (
	// ErrSlotTaken means another claimant already holds the slot. The
	// losing request must see this outcome; it must never appear to
	// succeed without holding the slot.
	ErrSlotTaken = errors.New("slot already taken")

	// ErrUnknownActor means the acting user could not be resolved to a
	// display name, so a claim cannot be attributed.
	ErrUnknownActor = errors.New("acting user could not be resolved")
)

// ErrorMessage maps an error to the short text shown to the user on a
// rejected interaction.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrSlotTaken):
		return "Somebody already has that Q slot."
	case errors.Is(err, ErrUnknownActor):
		return "Could not figure out who you are. Ask an admin to refresh the member list."
	default:
		return "Something went wrong. Please try again."
	}
}
