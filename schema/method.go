package schema

const (
	MethodInitialize              = "initialize"
	MethodInitialized             = "initialized"
	MethodNotificationInitialized = "notifications/initialized"
	MethodPing                    = "ping"
	MethodNotificationsList       = "notifications/list"
	MethodPromptsList             = "prompts/list"
	MethodResourcesList           = "resources/list"
	MethodToolsList               = "tools/list"
	MethodToolsCall               = "tools/call"
)
