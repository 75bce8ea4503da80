package constant

const (
	// KnowledgeSubmittedTopic is the in-process topic submitters publish to
	// after a confirmed acceptance; the tracker consumer subscribes to it.
	KnowledgeSubmittedTopic = "KNOWLEDGE_SUBMITTED"

	KnowledgeKindText    = "text"
	KnowledgeKindFile    = "file"
	KnowledgeKindWebsite = "website"
	KnowledgeKindYoutube = "youtube"

	// ListingTitlePrefix derives the deterministic title for a submitted
	// property listing: "Property Listing: <address>".
	ListingTitlePrefix = "Property Listing: "
)

// Event type codes published to the event bus.
const (
	EventReplicaCreated     = "REPLICA_CREATED"
	EventReplicaSeedFailed  = "REPLICA_SEED_FAILED"
	EventKnowledgeSubmitted = "KNOWLEDGE_SUBMITTED"
	EventKnowledgeDeleted   = "KNOWLEDGE_DELETED"
	EventKnowledgeFailed    = "KNOWLEDGE_FAILED"
	EventKnowledgeReady     = "KNOWLEDGE_READY"
	EventRemoteReadDegraded = "REMOTE_READ_DEGRADED"
	EventCredentialsUpdated = "CREDENTIALS_UPDATED"
)
