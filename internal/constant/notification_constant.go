package constant

// NotificationTemplate maps an event type code to the message rendered into
// the dashboard inbox. Placeholders use {key} substitution from the event
// payload. This is a static registry; the dashboard is single-organization so
// there is no per-user configuration table.
type NotificationTemplate struct {
	Title    string
	Template string
}

var NotificationTemplates = map[string]NotificationTemplate{
	EventReplicaCreated: {
		Title:    "Agent Created",
		Template: "AI agent {name} is live at /{slug}.",
	},
	EventReplicaSeedFailed: {
		Title:    "Agent Created Without Guide",
		Template: "AI agent {name} was created, but seeding its behavior guide failed. Re-submit the guide from the knowledge page.",
	},
	EventKnowledgeSubmitted: {
		Title:    "Knowledge Accepted",
		Template: "{title} was accepted for processing.",
	},
	EventKnowledgeDeleted: {
		Title:    "Knowledge Removed",
		Template: "Knowledge item {item_id} was removed.",
	},
	EventKnowledgeFailed: {
		Title:    "Processing Failed",
		Template: "{title} could not be processed by the platform.",
	},
	EventKnowledgeReady: {
		Title:    "Knowledge Ready",
		Template: "{title} finished processing and is now used by your agent.",
	},
	EventRemoteReadDegraded: {
		Title:    "Platform Unreachable",
		Template: "Could not fetch {resource} from the platform. Showing the last known state.",
	},
	EventCredentialsUpdated: {
		Title:    "Credentials Updated",
		Template: "Organization credentials were updated. Dependent state has been reset.",
	},
}
