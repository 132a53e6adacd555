package enums

// DomainEventType names the assignment events published for downstream
// automation (chat provisioning, external panels).
type DomainEventType string

const (
	EventAssignmentConfirmed DomainEventType = "assignment.confirmed"
	EventAssignmentRejected  DomainEventType = "assignment.rejected"
)

// String implements fmt.Stringer.
func (d DomainEventType) String() string {
	return string(d)
}
