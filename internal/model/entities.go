package model

// Entities is the entity bag extracted from a single command. Its shape is the
// same for every category; extraction only fills the slots that matter for the
// command's category and leaves the rest empty.
type Entities struct {
	AppName          string `yaml:"app_name,omitempty"          json:"app_name,omitempty"`
	SearchQuery      string `yaml:"search_query,omitempty"      json:"search_query,omitempty"`
	TextContent      string `yaml:"text_content,omitempty"      json:"text_content,omitempty"`
	ActionTarget     string `yaml:"action_target,omitempty"     json:"action_target,omitempty"`
	KeyboardShortcut string `yaml:"keyboard_shortcut,omitempty" json:"keyboard_shortcut,omitempty"`
	SystemAction     string `yaml:"system_action,omitempty"     json:"system_action,omitempty"`
	WindowAction     string `yaml:"window_action,omitempty"     json:"window_action,omitempty"`
	ProfileName      string `yaml:"profile_name,omitempty"      json:"profile_name,omitempty"`
	Website          string `yaml:"website,omitempty"           json:"website,omitempty"`
	MediaQuery       string `yaml:"media_query,omitempty"       json:"media_query,omitempty"`
	Recipient        string `yaml:"recipient,omitempty"         json:"recipient,omitempty"`
	MessageContent   string `yaml:"message_content,omitempty"   json:"message_content,omitempty"`
	ActionContent    string `yaml:"action_content,omitempty"    json:"action_content,omitempty"`
	FilePath         string `yaml:"file_path,omitempty"         json:"file_path,omitempty"`
	TargetType       string `yaml:"target_type,omitempty"       json:"target_type,omitempty"`
	SearchTarget     string `yaml:"search_target,omitempty"     json:"search_target,omitempty"`
	Action           string `yaml:"action,omitempty"            json:"action,omitempty"`
	Value            string `yaml:"value,omitempty"             json:"value,omitempty"`

	IsFileOperation   bool `yaml:"is_file_operation,omitempty"   json:"is_file_operation,omitempty"`
	IsKnownFolder     bool `yaml:"is_known_folder,omitempty"     json:"is_known_folder,omitempty"`
	NeedsSearch       bool `yaml:"needs_search,omitempty"        json:"needs_search,omitempty"`
	HasMessageContent bool `yaml:"has_message_content,omitempty" json:"has_message_content,omitempty"`
}

// SlotNames lists the string slots in wire order. Step templates may reference
// any of them as a {slot} placeholder.
var SlotNames = []string{
	"app_name",
	"search_query",
	"text_content",
	"action_target",
	"keyboard_shortcut",
	"system_action",
	"window_action",
	"profile_name",
	"website",
	"media_query",
	"recipient",
	"message_content",
	"action_content",
	"file_path",
	"target_type",
	"search_target",
	"action",
	"value",
}

// Slot returns the value of a string slot by wire name. ok is false for names
// outside SlotNames.
func (e Entities) Slot(name string) (value string, ok bool) {
	switch name {
	case "app_name":
		return e.AppName, true
	case "search_query":
		return e.SearchQuery, true
	case "text_content":
		return e.TextContent, true
	case "action_target":
		return e.ActionTarget, true
	case "keyboard_shortcut":
		return e.KeyboardShortcut, true
	case "system_action":
		return e.SystemAction, true
	case "window_action":
		return e.WindowAction, true
	case "profile_name":
		return e.ProfileName, true
	case "website":
		return e.Website, true
	case "media_query":
		return e.MediaQuery, true
	case "recipient":
		return e.Recipient, true
	case "message_content":
		return e.MessageContent, true
	case "action_content":
		return e.ActionContent, true
	case "file_path":
		return e.FilePath, true
	case "target_type":
		return e.TargetType, true
	case "search_target":
		return e.SearchTarget, true
	case "action":
		return e.Action, true
	case "value":
		return e.Value, true
	}
	return "", false
}

// Merge fills empty string slots of e from a classifier-supplied map.
// Unknown keys are ignored.
func (e *Entities) Merge(m map[string]string) {
	for k, v := range m {
		if v == "" {
			continue
		}
		cur, ok := e.Slot(k)
		if !ok || cur != "" {
			continue
		}
		e.set(k, v)
	}
}

func (e *Entities) set(name, v string) {
	switch name {
	case "app_name":
		e.AppName = v
	case "search_query":
		e.SearchQuery = v
	case "text_content":
		e.TextContent = v
	case "action_target":
		e.ActionTarget = v
	case "keyboard_shortcut":
		e.KeyboardShortcut = v
	case "system_action":
		e.SystemAction = v
	case "window_action":
		e.WindowAction = v
	case "profile_name":
		e.ProfileName = v
	case "website":
		e.Website = v
	case "media_query":
		e.MediaQuery = v
	case "recipient":
		e.Recipient = v
	case "message_content":
		e.MessageContent = v
	case "action_content":
		e.ActionContent = v
	case "file_path":
		e.FilePath = v
	case "target_type":
		e.TargetType = v
	case "search_target":
		e.SearchTarget = v
	case "action":
		e.Action = v
	case "value":
		e.Value = v
	}
}
