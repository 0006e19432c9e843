package flowconfig

import (
	"encoding/json"
	"time"
)

// Channel is the delivery mode a prompt is resolved for.
type Channel string

const (
	ChannelVoice Channel = "voice"
	ChannelChat  Channel = "chat"
)

// IsValid reports whether the channel is one of the two known literals.
func (c Channel) IsValid() bool {
	return c == ChannelVoice || c == ChannelChat
}

// VariableType describes how the admin UI should render a variable input.
// Types are UI hints only; stored values are strings regardless.
type VariableType string

const (
	VariableTypeText    VariableType = "text"
	VariableTypeNumber  VariableType = "number"
	VariableTypeBoolean VariableType = "boolean"
	VariableTypeSelect  VariableType = "select"
)

// VariableSchema declares the type of a variable. Absence of a schema entry
// implies text.
type VariableSchema struct {
	Type    VariableType `bson:"type" json:"type"`
	Options []string     `bson:"options,omitempty" json:"options,omitempty"` // only meaningful for select
}

// PromptVariant holds the per-channel content of a prompt for one language.
// Voice is required at write time and may contain SSML markup; Chat is plain
// text and optional.
type PromptVariant struct {
	Voice string `bson:"voice" json:"voice"`
	Chat  string `bson:"chat,omitempty" json:"chat,omitempty"`
}

// FlowConfig is the stored configuration document for one contact-flow use
// case: named variables plus multilingual prompts, flattened at call time
// into the key/value map the contact-center runtime consumes.
// Collection: flow_configs
type FlowConfig struct {
	ID          string                              `bson:"_id" json:"id"`
	Description string                              `bson:"description" json:"description"`
	Variables   map[string]string                   `bson:"variables" json:"variables"`
	Schema      map[string]VariableSchema           `bson:"schema,omitempty" json:"schema,omitempty"`
	Prompts     map[string]map[string]PromptVariant `bson:"prompts" json:"prompts"`

	// Version is an opaque token regenerated on every write. Updates may send
	// the version they read to detect concurrent modification.
	Version   string    `bson:"version,omitempty" json:"version,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	UpdatedBy string    `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// Summary is the list-view projection of a FlowConfig, annotated with the
// requesting actor's access level.
type Summary struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	AccessLevel string `json:"accessLevel"`
}

// List is the response shape for the list endpoint.
type List struct {
	Items []Summary `json:"items"`
}

// SerializedSize returns the length in bytes of the document's JSON
// serialization. Used to enforce the storage item ceiling before a write.
func (c *FlowConfig) SerializedSize() int {
	data, err := json.Marshal(c)
	if err != nil {
		return 0
	}
	return len(data)
}

// Clone returns a deep copy of the document. Comparison between an existing
// and a proposed document must never alias shared maps.
func (c *FlowConfig) Clone() *FlowConfig {
	if c == nil {
		return nil
	}
	out := &FlowConfig{
		ID:          c.ID,
		Description: c.Description,
		Version:     c.Version,
		UpdatedAt:   c.UpdatedAt,
		UpdatedBy:   c.UpdatedBy,
	}
	if c.Variables != nil {
		out.Variables = make(map[string]string, len(c.Variables))
		for k, v := range c.Variables {
			out.Variables[k] = v
		}
	}
	if c.Schema != nil {
		out.Schema = make(map[string]VariableSchema, len(c.Schema))
		for k, v := range c.Schema {
			s := VariableSchema{Type: v.Type}
			if v.Options != nil {
				s.Options = append([]string(nil), v.Options...)
			}
			out.Schema[k] = s
		}
	}
	if c.Prompts != nil {
		out.Prompts = make(map[string]map[string]PromptVariant, len(c.Prompts))
		for name, langs := range c.Prompts {
			copied := make(map[string]PromptVariant, len(langs))
			for lang, variant := range langs {
				copied[lang] = variant
			}
			out.Prompts[name] = copied
		}
	}
	return out
}
