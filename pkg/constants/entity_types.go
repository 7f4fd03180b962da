package constants

// Entity types that can carry attachments in the test management domain.
const (
	EntityTypeRequirement = "requirement"
	EntityTypeTestCase    = "test_case"
	EntityTypeTestRun     = "test_run"
	EntityTypeProject     = "project"
)

// KnownEntityTypes contains every attachable entity type.
var KnownEntityTypes = map[string]bool{
	EntityTypeRequirement: true,
	EntityTypeTestCase:    true,
	EntityTypeTestRun:     true,
	EntityTypeProject:     true,
}

// IsValidEntityType returns true if entities of the given type can carry
// attachments.
func IsValidEntityType(entityType string) bool {
	return KnownEntityTypes[entityType]
}
